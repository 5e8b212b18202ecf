package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MF1DEV/vantora/internal/domain"
)

// DomainRepo implements domain.DomainRepository backed by PostgreSQL.
type DomainRepo struct {
	pool *pgxpool.Pool
}

func NewDomainRepo(pool *pgxpool.Pool) *DomainRepo {
	return &DomainRepo{pool: pool}
}

func (r *DomainRepo) Create(ctx context.Context, d *domain.CustomDomain) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO custom_domains (profile_id, hostname, verification_token)
		VALUES ($1, $2, $3)
		RETURNING id, verified, created_at, updated_at
	`, d.ProfileID, d.Hostname, d.VerificationToken,
	).Scan(&d.ID, &d.Verified, &d.CreatedAt, &d.UpdatedAt)

	if err != nil {
		err = translateUniqueViolation(err, "custom_domains_hostname_key", domain.ErrDuplicateHostname)
		if errors.Is(err, domain.ErrDuplicateHostname) {
			return err
		}
		return fmt.Errorf("failed to insert custom domain: %w", err)
	}
	return nil
}

func (r *DomainRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.CustomDomain, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, hostname, verification_token, verified, created_at, updated_at
		FROM custom_domains
		WHERE profile_id = $1
		ORDER BY created_at
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom domains: %w", err)
	}
	defer rows.Close()

	var domains []domain.CustomDomain
	for rows.Next() {
		var d domain.CustomDomain
		if err := rows.Scan(&d.ID, &d.ProfileID, &d.Hostname, &d.VerificationToken,
			&d.Verified, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan custom domain: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom domains: %w", err)
	}
	return domains, nil
}
