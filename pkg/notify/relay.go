// Package notify delivers domain events to external sinks on a
// best-effort basis: at-most-once, non-blocking, no retry. The sinks are
// internal alerts, not system-of-record writes, so failure is logged and
// never surfaced to the caller.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/luminamkt/agencyhub/pkg/metrics"
)

// Event names dispatched by the sync layer
const (
	EventClientCreated      = "client.created"
	EventClientDeleted      = "client.deleted"
	EventContentCreated     = "content.created"
	EventContentStatus      = "content.status_changed"
	EventDeliverableCreated = "deliverable.created"
	EventDeliverableStatus  = "deliverable.status_changed"
	EventLeadCreated        = "lead.created"
	EventLeadStatus         = "lead.status_changed"
	EventInvoicePaid        = "invoice.paid"
)

// Sink is one external notification target
type Sink interface {
	Name() string
	Send(ctx context.Context, event string, data map[string]any) error
}

// Relay fans events out to zero or more sinks
type Relay struct {
	sinks   []Sink
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewRelay creates a relay over the given sinks. A relay with no sinks
// is valid and does nothing.
func NewRelay(m *metrics.Metrics, sinks ...Sink) *Relay {
	return &Relay{
		sinks:   sinks,
		timeout: 10 * time.Second,
		metrics: m,
	}
}

// Enabled reports whether at least one sink is configured
func (r *Relay) Enabled() bool {
	return len(r.sinks) > 0
}

// Notify dispatches the event to every sink in its own goroutine and
// returns immediately. Never returns an error: delivery failures are
// logged with the event name, target and truncated response detail.
func (r *Relay) Notify(event string, data map[string]any) {
	for _, sink := range r.sinks {
		go func(s Sink) {
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			defer cancel()

			if err := s.Send(ctx, event, data); err != nil {
				log.Printf("⚠️  Notification %q to %s failed: %v", event, s.Name(), err)
				r.observe(s.Name(), false)
				return
			}
			r.observe(s.Name(), true)
		}(sink)
	}
}

func (r *Relay) observe(sink string, success bool) {
	if r.metrics == nil {
		return
	}
	outcome := "failed"
	if success {
		outcome = "ok"
	}
	r.metrics.NotificationsTotal.WithLabelValues(sink, outcome).Inc()
}
