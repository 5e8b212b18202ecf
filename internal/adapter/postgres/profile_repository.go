package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MF1DEV/vantora/internal/domain"
)

// profileColumns must match the Scan order in scanProfile.
const profileColumns = `id, username, email, password_hash, display_name, bio, avatar_url, social_links, theme, created_at, updated_at`

// ProfileRepo implements domain.ProfileRepository backed by PostgreSQL.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	socialLinks, theme, err := marshalProfileJSON(profile)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO profiles (username, email, password_hash, display_name, bio, avatar_url, social_links, theme)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, profile.Username, profile.Email, profile.PasswordHash, profile.DisplayName,
		profile.Bio, profile.AvatarURL, socialLinks, theme,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		err = translateUniqueViolation(err, "profiles_username_key", domain.ErrDuplicateUsername)
		err = translateUniqueViolation(err, "profiles_email_key", domain.ErrDuplicateEmail)
		if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	return r.scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, profileID))
}

func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return r.scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = $1`, username))
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
}

func (r *ProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	socialLinks, theme, err := marshalProfileJSON(profile)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET display_name = $1, bio = $2, avatar_url = $3, social_links = $4, theme = $5, updated_at = NOW()
		WHERE id = $6
	`, profile.DisplayName, profile.Bio, profile.AvatarURL, socialLinks, theme, profile.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepo) scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		profile     domain.Profile
		socialLinks []byte
		theme       []byte
	)
	err := row.Scan(
		&profile.ID, &profile.Username, &profile.Email, &profile.PasswordHash,
		&profile.DisplayName, &profile.Bio, &profile.AvatarURL,
		&socialLinks, &theme,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	if err := json.Unmarshal(socialLinks, &profile.SocialLinks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal social links: %w", err)
	}
	if err := json.Unmarshal(theme, &profile.Theme); err != nil {
		return nil, fmt.Errorf("failed to unmarshal theme: %w", err)
	}
	profile.Theme = profile.Theme.Normalize()

	return &profile, nil
}

func marshalProfileJSON(profile *domain.Profile) (socialLinks, theme []byte, err error) {
	if profile.SocialLinks == nil {
		profile.SocialLinks = map[string]string{}
	}
	socialLinks, err = json.Marshal(profile.SocialLinks)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal social links: %w", err)
	}
	theme, err = json.Marshal(profile.Theme.Normalize())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal theme: %w", err)
	}
	return socialLinks, theme, nil
}
