package event

import (
	"time"
)

type EventStatus string

const (
	StatusDraft    EventStatus = "draft"
	StatusActive   EventStatus = "active"
	StatusArchived EventStatus = "archived"
)

// Event is the scheduled occasion tokens are issued against. This domain is a
// lookup collaborator for the token engine; event CRUD lives elsewhere.
type Event struct {
	ID        string
	Name      string
	Status    EventStatus
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsScannable reports whether redemptions against the event are allowed.
func (e Event) IsScannable() bool {
	return e.DeletedAt == nil && e.Status == StatusActive
}
