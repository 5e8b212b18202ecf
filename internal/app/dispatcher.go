package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MF1DEV/vantora/internal/adapter/metrics"
	"github.com/MF1DEV/vantora/internal/domain"
)

const insertTimeout = 5 * time.Second

// Dispatcher persists analytics events from a detached worker so tracking
// never blocks a visitor's navigation. Enqueue is non-blocking: a full queue
// drops the event, observable only in logs and metrics.
type Dispatcher struct {
	events  domain.AnalyticsRepository
	links   domain.LinkRepository
	metrics *metrics.AnalyticsMetrics

	queue chan domain.AnalyticsEvent
	done  chan struct{}

	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewDispatcher(events domain.AnalyticsRepository, links domain.LinkRepository, m *metrics.AnalyticsMetrics, queueSize int) *Dispatcher {
	d := &Dispatcher{
		events:  events,
		links:   links,
		metrics: m,
		queue:   make(chan domain.AnalyticsEvent, queueSize),
		done:    make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Enqueue accepts an event for asynchronous persistence. It reports false
// when the dispatcher is stopped or the queue is full; the event is dropped.
func (d *Dispatcher) Enqueue(event domain.AnalyticsEvent) bool {
	select {
	case <-d.done:
		return false
	default:
	}

	select {
	case d.queue <- event:
		d.metrics.EventsEnqueued.WithLabelValues(string(event.EventType)).Inc()
		d.metrics.QueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		d.metrics.EventsDropped.Inc()
		slog.Warn("Analytics queue full, dropping event",
			"profile_id", event.ProfileID, "event_type", event.EventType)
		return false
	}
}

// Stop closes intake and waits for the worker to drain the queue, bounded by ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		close(d.done)
	})

	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("analytics dispatcher drain interrupted: %w", ctx.Err())
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.process(event)
			d.metrics.QueueDepth.Set(float64(len(d.queue)))
		case <-d.done:
			d.drain()
			return
		}
	}
}

// drain empties whatever is left in the queue after shutdown was requested.
func (d *Dispatcher) drain() {
	for {
		select {
		case event := <-d.queue:
			d.process(event)
		default:
			d.metrics.QueueDepth.Set(0)
			return
		}
	}
}

// process inserts one event. Failures are logged and counted, never retried:
// a tracking failure must not block or fail anything else.
func (d *Dispatcher) process(event domain.AnalyticsEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	if err := d.events.Insert(ctx, &event); err != nil {
		d.metrics.EventsFailed.Inc()
		slog.Error("Failed to insert analytics event",
			"profile_id", event.ProfileID, "event_type", event.EventType, "error", err)
		return
	}
	d.metrics.EventsInserted.Inc()

	if event.EventType == domain.EventClick && event.LinkID != nil {
		if err := d.links.IncrementClicks(ctx, *event.LinkID); err != nil {
			slog.Error("Failed to increment click counter",
				"link_id", event.LinkID, "error", err)
		}
	}
}
