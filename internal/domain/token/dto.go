package token

import (
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// SCAN TOKEN DTOs
// ========================================

const (
	MinTTLMinutes = 1
	MaxTTLMinutes = 1440
)

type IssueTokenRequest struct {
	EventID     string `json:"-"`
	TTLMinutes  int    `json:"ttl_minutes"`
	ReusePolicy string `json:"reuse_policy"`
}

func (r *IssueTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id is required",
		})
	}

	if r.TTLMinutes < MinTTLMinutes || r.TTLMinutes > MaxTTLMinutes {
		errs = append(errs, validator.ValidationError{
			Field:   "ttl_minutes",
			Message: "ttl_minutes must be between 1 and 1440",
		})
	}

	if !ReusePolicy(r.ReusePolicy).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "reuse_policy",
			Message: "reuse_policy must be single_use or multi_use",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TokenResponse struct {
	Token       string  `json:"token"`
	EventID     string  `json:"event_id"`
	EventName   string  `json:"event_name"`
	IssuedAt    string  `json:"issued_at"`
	ExpiresAt   string  `json:"expires_at"`
	ReusePolicy string  `json:"reuse_policy"`
	Active      bool    `json:"active"`
	ScanCount   int     `json:"scan_count"`
	Payload     Payload `json:"payload"`
}

type RedemptionResponse struct {
	Kind      session.ToggleKind      `json:"kind"`
	Session   session.SessionResponse `json:"session"`
	ScanCount int                     `json:"scan_count"`
}
