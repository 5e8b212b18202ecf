package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Link is one destination entry on a profile, optionally password-protected
// and schedulable.
type Link struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	Title    string
	URL      string
	Position int
	IsActive bool

	// Optional scheduling window. Nil means unbounded on that side.
	StartsAt *time.Time
	EndsAt   *time.Time

	// IsProtected and PasswordHash are set and cleared together.
	IsProtected  bool
	PasswordHash string

	// Optional per-link style overrides; empty means inherit from the theme.
	ButtonStyle  string
	ButtonColor  string
	BorderRadius string
	Animation    string

	ClickCount int64
}

// VisibleAt reports whether the link should appear on the public page at the
// given instant: active and inside its scheduling window.
func (l *Link) VisibleAt(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	if l.StartsAt != nil && now.Before(*l.StartsAt) {
		return false
	}
	if l.EndsAt != nil && now.After(*l.EndsAt) {
		return false
	}
	return true
}

type LinkRepository interface {
	Create(ctx context.Context, link *Link) error
	GetByID(ctx context.Context, linkID uuid.UUID) (*Link, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]Link, error)
	Update(ctx context.Context, link *Link) error
	Delete(ctx context.Context, profileID, linkID uuid.UUID) error

	// Reorder assigns positions 0..n-1 following the order of linkIDs.
	// Links not owned by profileID are ignored.
	Reorder(ctx context.Context, profileID uuid.UUID, linkIDs []uuid.UUID) error

	// IncrementClicks bumps the denormalized click counter.
	IncrementClicks(ctx context.Context, linkID uuid.UUID) error
}
