package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
)

type AuditLogRepository struct {
	mu   sync.RWMutex
	logs []audit.AuditLog
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

// Record implements audit.Recorder.
func (r *AuditLogRepository) Record(_ context.Context, actorID, action string, metadata map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, audit.AuditLog{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Action:    action,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// Logs returns recorded entries. Test helper.
func (r *AuditLogRepository) Logs() []audit.AuditLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]audit.AuditLog, len(r.logs))
	copy(out, r.logs)
	return out
}
