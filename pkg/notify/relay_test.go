package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSink records deliveries and optionally fails or blocks
type MockSink struct {
	mu         sync.Mutex
	name       string
	shouldFail bool
	blockFor   time.Duration
	events     []string
	delivered  chan struct{}
}

func NewMockSink(name string) *MockSink {
	return &MockSink{name: name, delivered: make(chan struct{}, 16)}
}

func (m *MockSink) Name() string { return m.name }

func (m *MockSink) Send(ctx context.Context, event string, data map[string]any) error {
	if m.blockFor > 0 {
		select {
		case <-time.After(m.blockFor):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	m.delivered <- struct{}{}
	if m.shouldFail {
		return errors.New("sink unavailable")
	}
	return nil
}

func (m *MockSink) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

func waitDelivered(t *testing.T, s *MockSink, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-s.delivered:
		case <-time.After(2 * time.Second):
			t.Fatalf("sink %s: delivery %d never happened", s.name, i+1)
		}
	}
}

func TestRelayNotify(t *testing.T) {
	t.Run("Success - Event reaches every sink", func(t *testing.T) {
		a := NewMockSink("a")
		b := NewMockSink("b")
		relay := NewRelay(nil, a, b)

		relay.Notify(EventClientCreated, map[string]any{"client": "Acme"})

		waitDelivered(t, a, 1)
		waitDelivered(t, b, 1)
		assert.Equal(t, []string{EventClientCreated}, a.Events())
		assert.Equal(t, []string{EventClientCreated}, b.Events())
	})

	t.Run("Success - Sink failure is swallowed", func(t *testing.T) {
		failing := NewMockSink("failing")
		failing.shouldFail = true
		healthy := NewMockSink("healthy")
		relay := NewRelay(nil, failing, healthy)

		// Notify has no error to return; the healthy sink still delivers
		relay.Notify(EventDeliverableStatus, map[string]any{"title": "Reel v2"})

		waitDelivered(t, failing, 1)
		waitDelivered(t, healthy, 1)
		assert.Equal(t, []string{EventDeliverableStatus}, healthy.Events())
	})

	t.Run("Success - Slow sink does not block the caller", func(t *testing.T) {
		slow := NewMockSink("slow")
		slow.blockFor = 500 * time.Millisecond
		relay := NewRelay(nil, slow)

		start := time.Now()
		relay.Notify(EventLeadCreated, nil)
		assert.Less(t, time.Since(start), 100*time.Millisecond)

		waitDelivered(t, slow, 1)
	})

	t.Run("Success - Relay with no sinks is a no-op", func(t *testing.T) {
		relay := NewRelay(nil)
		assert.False(t, relay.Enabled())
		require.NotPanics(t, func() {
			relay.Notify(EventInvoicePaid, map[string]any{"invoice": "INV-001"})
		})
	})
}
