package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/token"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
)

const uniqueViolationCode = "23505"

type scanTokenRepository struct {
	db *database.DB
}

func NewScanTokenRepository(db *database.DB) token.TokenRepository {
	return &scanTokenRepository{db: db}
}

// Create implements token.TokenRepository. The unique constraint on the
// token column is the real uniqueness guarantee; a collision surfaces as
// ErrTokenExists so the issuer can retry with a fresh value.
func (r *scanTokenRepository) Create(ctx context.Context, t token.ScanToken) (token.ScanToken, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO scan_tokens (
			token, event_id, issued_at, expires_at, reuse_policy, active, scan_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		t.Token, t.EventID, t.IssuedAt, t.ExpiresAt, string(t.ReusePolicy), t.Active, t.ScanCount,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return token.ScanToken{}, token.ErrTokenExists
		}
		return token.ScanToken{}, fmt.Errorf("failed to create scan token: %w", err)
	}

	return t, nil
}

// GetByValue implements token.TokenRepository.
func (r *scanTokenRepository) GetByValue(ctx context.Context, value string) (token.ScanToken, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT token, event_id, issued_at, expires_at, reuse_policy, active, scan_count,
			   created_at, updated_at
		FROM scan_tokens
		WHERE token = $1
	`

	var t token.ScanToken
	var policy string
	err := q.QueryRow(ctx, query, value).Scan(
		&t.Token, &t.EventID, &t.IssuedAt, &t.ExpiresAt, &policy, &t.Active, &t.ScanCount,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return token.ScanToken{}, token.ErrTokenNotFound
		}
		return token.ScanToken{}, fmt.Errorf("failed to get scan token: %w", err)
	}
	t.ReusePolicy = token.ReusePolicy(policy)

	return t, nil
}

// RecordScan implements token.TokenRepository. The row lock makes the
// read-check-increment linearizable: of two concurrent redemptions of the
// same single-use token, the second observes active = false and loses.
func (r *scanTokenRepository) RecordScan(ctx context.Context, value string, deactivate bool) (token.ScanToken, error) {
	var t token.ScanToken

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var active bool
		err := tx.QueryRow(ctx,
			`SELECT active FROM scan_tokens WHERE token = $1 FOR UPDATE`, value,
		).Scan(&active)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return token.ErrTokenNotFound
			}
			return fmt.Errorf("failed to lock scan token: %w", err)
		}

		if !active {
			return token.ErrTokenInactive
		}

		var policy string
		err = tx.QueryRow(ctx, `
			UPDATE scan_tokens
			SET scan_count = scan_count + 1,
				active = NOT $2,
				updated_at = NOW()
			WHERE token = $1
			RETURNING token, event_id, issued_at, expires_at, reuse_policy, active, scan_count,
					  created_at, updated_at
		`, value, deactivate).Scan(
			&t.Token, &t.EventID, &t.IssuedAt, &t.ExpiresAt, &policy, &t.Active, &t.ScanCount,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to record scan: %w", err)
		}
		t.ReusePolicy = token.ReusePolicy(policy)

		return nil
	})
	if err != nil {
		return token.ScanToken{}, err
	}

	return t, nil
}

// Deactivate implements token.TokenRepository.
func (r *scanTokenRepository) Deactivate(ctx context.Context, value string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE scan_tokens SET active = false, updated_at = NOW() WHERE token = $1`, value)
	if err != nil {
		return fmt.Errorf("failed to deactivate scan token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return token.ErrTokenNotFound
	}

	return nil
}
