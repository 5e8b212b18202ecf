package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MF1DEV/vantora/internal/domain"
)

// StatsRepo implements domain.StatsRepository backed by PostgreSQL.
type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// Collect computes all aggregate counters in a single round trip. A failure
// in any subquery fails the whole call; no partial results.
func (r *StatsRepo) Collect(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM links),
			(SELECT COALESCE(SUM(click_count), 0) FROM links),
			(SELECT COUNT(*) FROM links WHERE is_active)
	`).Scan(&stats.Users, &stats.Links, &stats.Clicks, &stats.ActiveLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}
	return &stats, nil
}
