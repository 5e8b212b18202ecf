package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CustomDomain is a user-supplied hostname mapped to their profile, pending
// verification by an out-of-band process.
type CustomDomain struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Hostname is globally unique across all profiles.
	Hostname          string `json:"hostname"`
	VerificationToken string `json:"verification_token"`
	Verified          bool   `json:"verified"`
}

type DomainRepository interface {
	// Create inserts a pending domain record. Returns ErrDuplicateHostname
	// when the hostname is already registered by any profile.
	Create(ctx context.Context, d *CustomDomain) error
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]CustomDomain, error)
}
