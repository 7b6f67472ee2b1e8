package telemetry

import (
	"context"

	"gymgate/backend/internal/telemetry/domain"
)

// EventEmitter emits scan events (e.g. to OTel Logs or Kafka). Best-effort;
// callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event domain.Event) error
}

// Fanout forwards each event to every target asynchronously. It satisfies the
// fire-and-forget emitter surface the scan orchestrator expects; a slow or
// failing sink never delays a scan response.
type Fanout struct {
	targets []EventEmitter
}

// NewFanout returns a Fanout over the non-nil targets.
func NewFanout(targets ...EventEmitter) *Fanout {
	kept := make([]EventEmitter, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			kept = append(kept, t)
		}
	}
	return &Fanout{targets: kept}
}

func (f *Fanout) Emit(ctx context.Context, event domain.Event) {
	for _, t := range f.targets {
		EmitAsync(t, ctx, event)
	}
}
