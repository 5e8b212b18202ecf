package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MF1DEV/vantora/internal/domain"
)

// linkColumns must match the Scan order in scanLink.
const linkColumns = `id, profile_id, title, url, position, is_active, starts_at, ends_at, is_protected, password_hash, button_style, button_color, border_radius, animation, click_count, created_at, updated_at`

// LinkRepo implements domain.LinkRepository backed by PostgreSQL.
type LinkRepo struct {
	pool *pgxpool.Pool
}

func NewLinkRepo(pool *pgxpool.Pool) *LinkRepo {
	return &LinkRepo{pool: pool}
}

func (r *LinkRepo) Create(ctx context.Context, link *domain.Link) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO links (profile_id, title, url, position, is_active, starts_at, ends_at,
		                   is_protected, password_hash, button_style, button_color, border_radius, animation)
		VALUES ($1, $2, $3,
		        (SELECT COALESCE(MAX(position), -1) + 1 FROM links WHERE profile_id = $1),
		        $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, position, created_at, updated_at
	`, link.ProfileID, link.Title, link.URL, link.IsActive, link.StartsAt, link.EndsAt,
		link.IsProtected, link.PasswordHash,
		link.ButtonStyle, link.ButtonColor, link.BorderRadius, link.Animation,
	).Scan(&link.ID, &link.Position, &link.CreatedAt, &link.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert link: %w", err)
	}
	return nil
}

func (r *LinkRepo) GetByID(ctx context.Context, linkID uuid.UUID) (*domain.Link, error) {
	return scanLink(r.pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM links WHERE id = $1`, linkID))
}

func (r *LinkRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Link, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+linkColumns+` FROM links WHERE profile_id = $1 ORDER BY position`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate links: %w", err)
	}
	return links, nil
}

func (r *LinkRepo) Update(ctx context.Context, link *domain.Link) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE links
		SET title = $1, url = $2, is_active = $3, starts_at = $4, ends_at = $5,
		    is_protected = $6, password_hash = $7,
		    button_style = $8, button_color = $9, border_radius = $10, animation = $11,
		    updated_at = NOW()
		WHERE id = $12 AND profile_id = $13
	`, link.Title, link.URL, link.IsActive, link.StartsAt, link.EndsAt,
		link.IsProtected, link.PasswordHash,
		link.ButtonStyle, link.ButtonColor, link.BorderRadius, link.Animation,
		link.ID, link.ProfileID)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

func (r *LinkRepo) Delete(ctx context.Context, profileID, linkID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM links WHERE id = $1 AND profile_id = $2`, linkID, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

func (r *LinkRepo) Reorder(ctx context.Context, profileID uuid.UUID, linkIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for position, linkID := range linkIDs {
		if _, err := tx.Exec(ctx, `
			UPDATE links SET position = $1, updated_at = NOW()
			WHERE id = $2 AND profile_id = $3
		`, position, linkID, profileID); err != nil {
			return fmt.Errorf("failed to reposition link: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *LinkRepo) IncrementClicks(ctx context.Context, linkID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE links SET click_count = click_count + 1 WHERE id = $1`, linkID)
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}
	return nil
}

func scanLink(row pgx.Row) (*domain.Link, error) {
	var link domain.Link
	err := row.Scan(
		&link.ID, &link.ProfileID, &link.Title, &link.URL, &link.Position, &link.IsActive,
		&link.StartsAt, &link.EndsAt, &link.IsProtected, &link.PasswordHash,
		&link.ButtonStyle, &link.ButtonColor, &link.BorderRadius, &link.Animation,
		&link.ClickCount, &link.CreatedAt, &link.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan link: %w", err)
	}
	return &link, nil
}
