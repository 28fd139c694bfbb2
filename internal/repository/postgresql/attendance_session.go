package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
)

type attendanceSessionRepository struct {
	db *database.DB
}

func NewAttendanceSessionRepository(db *database.DB) session.SessionRepository {
	return &attendanceSessionRepository{db: db}
}

// Create implements session.SessionRepository.
func (r *attendanceSessionRepository) Create(ctx context.Context, s session.AttendanceSession) (session.AttendanceSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (employee_id, event_id, check_in, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.EmployeeID, s.EventID, s.CheckIn, string(s.Status),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return session.AttendanceSession{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return s, nil
}

// GetOpen implements session.SessionRepository.
func (r *attendanceSessionRepository) GetOpen(ctx context.Context, employeeID, eventID string) (*session.AttendanceSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, event_id, check_in, check_out, status, created_at, updated_at
		FROM attendance_sessions
		WHERE employee_id = $1
		  AND event_id = $2
		  AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1
	`

	var s session.AttendanceSession
	var status string
	err := q.QueryRow(ctx, query, employeeID, eventID).Scan(
		&s.ID, &s.EmployeeID, &s.EventID, &s.CheckIn, &s.CheckOut, &status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	s.Status = session.SessionStatus(status)

	return &s, nil
}

// Complete implements session.SessionRepository. The check_out IS NULL guard
// keeps the operation idempotent against a session completed in between.
func (r *attendanceSessionRepository) Complete(ctx context.Context, id string, checkOut time.Time) (session.AttendanceSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET check_out = $2,
			status = 'completed',
			updated_at = NOW()
		WHERE id = $1
		  AND check_out IS NULL
		RETURNING id, employee_id, event_id, check_in, check_out, status, created_at, updated_at
	`

	var s session.AttendanceSession
	var status string
	err := q.QueryRow(ctx, query, id, checkOut).Scan(
		&s.ID, &s.EmployeeID, &s.EventID, &s.CheckIn, &s.CheckOut, &status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.AttendanceSession{}, session.ErrSessionNotFound
		}
		return session.AttendanceSession{}, fmt.Errorf("failed to complete session: %w", err)
	}
	s.Status = session.SessionStatus(status)

	return s, nil
}

// ListByEmployee implements session.SessionRepository.
func (r *attendanceSessionRepository) ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]session.AttendanceSession, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendance_sessions WHERE employee_id = $1`, employeeID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := `
		SELECT id, employee_id, event_id, check_in, check_out, status, created_at, updated_at
		FROM attendance_sessions
		WHERE employee_id = $1
		ORDER BY check_in DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, employeeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.AttendanceSession
	for rows.Next() {
		var s session.AttendanceSession
		var status string
		if err := rows.Scan(
			&s.ID, &s.EmployeeID, &s.EventID, &s.CheckIn, &s.CheckOut, &status,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan session row: %w", err)
		}
		s.Status = session.SessionStatus(status)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	return sessions, total, nil
}
