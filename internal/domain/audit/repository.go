package audit

import (
	"context"
)

// Recorder persists audit entries for administrative actions.
type Recorder interface {
	Record(ctx context.Context, actorID, action string, metadata map[string]interface{}) error
}
