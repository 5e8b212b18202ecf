package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType classifies an analytics event.
type EventType string

const (
	EventView  EventType = "view"
	EventClick EventType = "click"
)

// Valid reports whether the event type is one of the known values.
func (t EventType) Valid() bool {
	return t == EventView || t == EventClick
}

// AnalyticsEvent is an immutable append-only record of a view or click.
type AnalyticsEvent struct {
	ID        int64
	ProfileID uuid.UUID
	// LinkID is nil for profile views.
	LinkID    *uuid.UUID
	EventType EventType

	IP        string
	UserAgent string
	Referrer  string

	CreatedAt time.Time
}

type AnalyticsRepository interface {
	Insert(ctx context.Context, event *AnalyticsEvent) error
}
