// Package analytics is local-first event tracking: a bounded in-memory
// buffer that survives without any backend, with optional fan-out to NATS
// for dashboards.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/RafiqAuto/rafiq-mvp/pkg/natsutil"
)

// Subject is the NATS subject events fan out to.
const Subject = "rafiq.analytics.events"

// MaxEvents caps the local buffer; older events are dropped first.
const MaxEvents = 500

// Event is one tracked action.
type Event struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	TS         time.Time      `json:"ts"`
}

// Tracker buffers events locally and optionally publishes them.
type Tracker struct {
	nc     *nats.Conn
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	events []Event
}

// New creates a Tracker. nc may be nil; tracking then stays purely local.
func New(nc *nats.Conn, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{nc: nc, logger: logger, now: time.Now}
}

// Track records an event. Never fails: a broken NATS connection only logs.
func (t *Tracker) Track(ctx context.Context, name string, properties map[string]any) {
	ev := Event{Name: name, Properties: properties, TS: t.now()}

	t.mu.Lock()
	t.events = append(t.events, ev)
	if len(t.events) > MaxEvents {
		t.events = t.events[len(t.events)-MaxEvents:]
	}
	t.mu.Unlock()

	t.logger.Debug("analytics event", "name", name)

	if t.nc != nil {
		if err := natsutil.Publish(ctx, t.nc, Subject, ev); err != nil {
			t.logger.Warn("analytics publish failed", "err", err)
		}
	}
}

// Events returns a snapshot of the buffer, oldest first.
func (t *Tracker) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Event(nil), t.events...)
}

// Clear drops the local buffer.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}
