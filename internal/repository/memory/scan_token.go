// Package memory provides in-memory repository implementations guarded by
// mutexes. They back the service tests and local development; the same
// service logic runs unchanged against the postgresql implementations.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/token"
)

type ScanTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]token.ScanToken
}

func NewScanTokenRepository() *ScanTokenRepository {
	return &ScanTokenRepository{
		tokens: make(map[string]token.ScanToken),
	}
}

// Create implements token.TokenRepository.
func (r *ScanTokenRepository) Create(_ context.Context, t token.ScanToken) (token.ScanToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[t.Token]; exists {
		return token.ScanToken{}, token.ErrTokenExists
	}

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tokens[t.Token] = t

	return t, nil
}

// GetByValue implements token.TokenRepository.
func (r *ScanTokenRepository) GetByValue(_ context.Context, value string) (token.ScanToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[value]
	if !ok {
		return token.ScanToken{}, token.ErrTokenNotFound
	}
	return t, nil
}

// RecordScan implements token.TokenRepository. The check and the increment
// run under one lock, matching the compare-and-swap contract of the
// postgresql implementation.
func (r *ScanTokenRepository) RecordScan(_ context.Context, value string, deactivate bool) (token.ScanToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[value]
	if !ok {
		return token.ScanToken{}, token.ErrTokenNotFound
	}
	if !t.Active {
		return token.ScanToken{}, token.ErrTokenInactive
	}

	t.ScanCount++
	if deactivate {
		t.Active = false
	}
	t.UpdatedAt = time.Now().UTC()
	r.tokens[value] = t

	return t, nil
}

// Deactivate implements token.TokenRepository.
func (r *ScanTokenRepository) Deactivate(_ context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[value]
	if !ok {
		return token.ErrTokenNotFound
	}

	t.Active = false
	t.UpdatedAt = time.Now().UTC()
	r.tokens[value] = t

	return nil
}

// Put seeds a token directly, bypassing issuance. Test helper.
func (r *ScanTokenRepository) Put(t token.ScanToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Token] = t
}
