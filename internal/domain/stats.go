package domain

import (
	"context"
	"time"
)

// Stats holds the aggregate counters exposed by the public stats endpoint.
type Stats struct {
	Users       int64 `json:"users"`
	Links       int64 `json:"links"`
	Clicks      int64 `json:"clicks"`
	ActiveLinks int64 `json:"activeLinks"`
}

// StatsSnapshot is a Stats value stamped with its computation time.
type StatsSnapshot struct {
	Stats
	UpdatedAt time.Time `json:"updatedAt"`
}

type StatsRepository interface {
	// Collect computes all counters in one round trip. Empty tables yield
	// zeroes, not an error.
	Collect(ctx context.Context) (*Stats, error)
}
