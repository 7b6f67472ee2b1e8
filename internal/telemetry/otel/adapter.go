package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"gymgate/backend/internal/telemetry"
	"gymgate/backend/internal/telemetry/domain"
)

// logSink is the subset of otellog.Logger the emitter uses. Tests substitute
// a capturing implementation.
type logSink interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEventEmitter returns an EventEmitter that sends scan events as OTel log
// records via the given LoggerProvider. If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger("gymgate.scans")}
}

// NewEventEmitterWithLogger returns an emitter over an explicit log sink.
func NewEventEmitterWithLogger(logger logSink) telemetry.EventEmitter {
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, domain.Event) error { return nil }

type otelEmitter struct {
	logger logSink
}

// Emit converts the scan event to an OTel log record and emits it. Best-effort.
func (e *otelEmitter) Emit(ctx context.Context, event domain.Event) error {
	rec := otellog.Record{}
	if !event.OccurredAt.IsZero() {
		rec.SetTimestamp(event.OccurredAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	rec.SetBody(otellog.StringValue(string(event.Kind)))
	if event.Kind == domain.KindScanRejected {
		// Rejections include replay attempts, so they surface at warn.
		rec.SetSeverity(otellog.SeverityWarn)
	} else {
		rec.SetSeverity(otellog.SeverityInfo)
	}
	if event.ID != "" {
		rec.AddAttributes(otellog.String("event_id", event.ID))
	}
	if event.BranchID != "" {
		rec.AddAttributes(otellog.String("branch_id", event.BranchID))
	}
	if event.SubjectID != "" {
		rec.AddAttributes(otellog.String("subject_id", event.SubjectID))
	}
	if event.SubjectType != "" {
		rec.AddAttributes(otellog.String("subject_type", event.SubjectType))
	}
	if event.Action != "" {
		rec.AddAttributes(otellog.String("action", event.Action))
	}
	if event.Reason != "" {
		rec.AddAttributes(otellog.String("reason", event.Reason))
	}
	if event.ScannedBy != "" {
		rec.AddAttributes(otellog.String("scanned_by", event.ScannedBy))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
