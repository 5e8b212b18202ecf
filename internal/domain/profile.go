package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is a user's public bio-link page record.
type Profile struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string
	Email        string
	PasswordHash string

	DisplayName string
	Bio         string
	AvatarURL   string

	// SocialLinks maps a platform name ("twitter", "github", ...) to a URL.
	SocialLinks map[string]string

	Theme Theme
}

// Theme is the closed set of per-profile styling fields. Every field has a
// default so readers never see a partially-shaped theme.
type Theme struct {
	Background   string `json:"background"`
	ButtonStyle  string `json:"button_style"`
	ButtonColor  string `json:"button_color"`
	BorderRadius string `json:"border_radius"`
	Font         string `json:"font"`
	Animation    string `json:"animation"`
}

// DefaultTheme returns the theme applied to freshly registered profiles.
func DefaultTheme() Theme {
	return Theme{
		Background:   "#0f172a",
		ButtonStyle:  "solid",
		ButtonColor:  "#6366f1",
		BorderRadius: "12px",
		Font:         "inter",
		Animation:    "none",
	}
}

// Normalize fills empty theme fields with their defaults.
func (t Theme) Normalize() Theme {
	def := DefaultTheme()
	if t.Background == "" {
		t.Background = def.Background
	}
	if t.ButtonStyle == "" {
		t.ButtonStyle = def.ButtonStyle
	}
	if t.ButtonColor == "" {
		t.ButtonColor = def.ButtonColor
	}
	if t.BorderRadius == "" {
		t.BorderRadius = def.BorderRadius
	}
	if t.Font == "" {
		t.Font = def.Font
	}
	if t.Animation == "" {
		t.Animation = def.Animation
	}
	return t
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, profileID uuid.UUID) (*Profile, error)
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}
