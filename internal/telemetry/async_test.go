package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gymgate/backend/internal/telemetry/domain"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []domain.Event
	emitErr error
	delay   time.Duration
}

func (m *mockEventEmitter) Emit(ctx context.Context, event domain.Event) error {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.delay):
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Event(nil), m.events...)
}

func waitForEvents(t *testing.T, m *mockEventEmitter, want int) []domain.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events := m.getEvents()
		if len(events) >= want {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", want, len(m.getEvents()))
	return nil
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	// Should not panic.
	EmitAsync(nil, context.Background(), domain.Event{Kind: domain.KindScanAccepted})
}

func TestEmitAsync_SuccessfulEmit(t *testing.T) {
	emitter := &mockEventEmitter{}
	event := domain.Event{
		ID:       "evt-1",
		Kind:     domain.KindScanAccepted,
		BranchID: "branch-1",
		Action:   "checkin",
	}

	EmitAsync(emitter, context.Background(), event)

	events := waitForEvents(t, emitter, 1)
	if events[0].ID != "evt-1" || events[0].Kind != domain.KindScanAccepted {
		t.Errorf("event = %+v", events[0])
	}
}

func TestEmitAsync_EmitterErrorIsSwallowed(t *testing.T) {
	emitter := &mockEventEmitter{emitErr: errors.New("sink down")}
	EmitAsync(emitter, context.Background(), domain.Event{ID: "evt-1"})
	waitForEvents(t, emitter, 1)
}

func TestEmitAsync_SurvivesCanceledRequestContext(t *testing.T) {
	emitter := &mockEventEmitter{delay: 20 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	EmitAsync(emitter, ctx, domain.Event{ID: "evt-1"})

	// The emit uses a background context, so the canceled request context
	// must not abort it.
	events := waitForEvents(t, emitter, 1)
	if events[0].ID != "evt-1" {
		t.Errorf("event = %+v", events[0])
	}
}

func TestFanout_ForwardsToAllTargets(t *testing.T) {
	a := &mockEventEmitter{}
	b := &mockEventEmitter{}
	f := NewFanout(a, nil, b)

	f.Emit(context.Background(), domain.Event{ID: "evt-1"})

	waitForEvents(t, a, 1)
	waitForEvents(t, b, 1)
}

func TestFanout_NoTargets(t *testing.T) {
	f := NewFanout()
	// Should not panic.
	f.Emit(context.Background(), domain.Event{ID: "evt-1"})
}
