package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
)

type auditLogRepository struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) audit.Recorder {
	return &auditLogRepository{db: db}
}

// Record implements audit.Recorder.
func (r *auditLogRepository) Record(ctx context.Context, actorID, action string, metadata map[string]interface{}) error {
	q := GetQuerier(ctx, r.db)

	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO audit_logs (actor_id, action, metadata)
		VALUES ($1, $2, $3)
	`, actorID, action, data)
	if err != nil {
		return fmt.Errorf("failed to record audit log: %w", err)
	}

	return nil
}
