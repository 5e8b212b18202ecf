package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MF1DEV/vantora/internal/domain"
)

// AuditRecorder writes audit entries off the request path. Each Record spawns
// a short-lived goroutine; Wait blocks until all in-flight writes finished.
type AuditRecorder struct {
	repo domain.AuditRepository
	wg   sync.WaitGroup
}

func NewAuditRecorder(repo domain.AuditRepository) *AuditRecorder {
	return &AuditRecorder{repo: repo}
}

// Record persists an audit entry asynchronously. Failures are logged, never
// surfaced to the caller.
func (a *AuditRecorder) Record(entry domain.AuditEntry) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		defer cancel()

		if err := a.repo.Insert(ctx, &entry); err != nil {
			slog.Warn("Failed to write audit entry",
				"event_type", entry.EventType, "profile_id", entry.ProfileID, "error", err)
		}
	}()
}

// Wait blocks until all pending audit writes completed or the timeout passes.
func (a *AuditRecorder) Wait() {
	finished := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(insertTimeout):
		slog.Warn("Timed out waiting for pending audit writes")
	}
}
