package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/event"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
)

type eventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) event.EventRepository {
	return &eventRepository{db: db}
}

// GetByID implements event.EventRepository. Soft-deleted events are absent.
func (r *eventRepository) GetByID(ctx context.Context, id string) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, status, starts_at, ends_at, created_at, updated_at, deleted_at
		FROM events
		WHERE id = $1
		  AND deleted_at IS NULL
	`

	var e event.Event
	var status string
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &status, &e.StartsAt, &e.EndsAt,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrEventNotFound
		}
		return event.Event{}, fmt.Errorf("failed to get event: %w", err)
	}
	e.Status = event.EventStatus(status)

	return e, nil
}
