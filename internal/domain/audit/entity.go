package audit

import (
	"time"
)

// AuditLog records an administrative action, currently leave status changes.
type AuditLog struct {
	ID        string
	ActorID   string
	Action    string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
