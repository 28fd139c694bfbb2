package token

import (
	"time"
)

// ReusePolicy controls how many successful redemptions a scan token allows.
type ReusePolicy string

const (
	ReusePolicySingleUse ReusePolicy = "single_use"
	ReusePolicyMultiUse  ReusePolicy = "multi_use"
)

// IsValid reports whether the policy is one of the known values.
func (p ReusePolicy) IsValid() bool {
	return p == ReusePolicySingleUse || p == ReusePolicyMultiUse
}

// ScanToken is an ephemeral credential bound to an event. Tokens are never
// deleted, only deactivated, so redeemed tokens remain available for audit.
type ScanToken struct {
	Token       string
	EventID     string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	ReusePolicy ReusePolicy
	Active      bool
	ScanCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
