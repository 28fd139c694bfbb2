package event

import (
	"context"
)

// EventRepository defines lookup access for events. The token engine only
// reads; soft-deleted events are treated as absent.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (Event, error)
}
