package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MF1DEV/vantora/internal/domain"
)

// AnalyticsRepo implements domain.AnalyticsRepository backed by PostgreSQL.
// Rows are append-only; nothing here updates or deletes.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepo(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

func (r *AnalyticsRepo) Insert(ctx context.Context, event *domain.AnalyticsEvent) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO analytics_events (profile_id, link_id, event_type, ip, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, event.ProfileID, event.LinkID, event.EventType,
		event.IP, event.UserAgent, event.Referrer,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

// AuditRepo implements domain.AuditRepository backed by PostgreSQL.
type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.Payload == nil {
		entry.Payload = map[string]any{}
	}
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO audit_log (profile_id, event_type, payload, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, entry.ProfileID, entry.EventType, payload, entry.IP, entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
