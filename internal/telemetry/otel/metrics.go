package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"gymgate/backend/internal/telemetry"
	"gymgate/backend/internal/telemetry/domain"
)

// NewMetricsEmitter returns an EventEmitter that counts scan outcomes on the
// given MeterProvider. If provider is nil, returns a no-op emitter.
func NewMetricsEmitter(provider *sdkmetric.MeterProvider) (telemetry.EventEmitter, error) {
	if provider == nil {
		return noopEmitter{}, nil
	}
	meter := provider.Meter("gymgate.scans")
	scans, err := meter.Int64Counter("gymgate_scans_total",
		otelmetric.WithDescription("Processed QR scans by outcome and action"))
	if err != nil {
		return nil, err
	}
	return &metricsEmitter{scans: scans}, nil
}

type metricsEmitter struct {
	scans otelmetric.Int64Counter
}

func (m *metricsEmitter) Emit(ctx context.Context, event domain.Event) error {
	attrs := []attribute.KeyValue{
		attribute.String("kind", string(event.Kind)),
	}
	if event.Action != "" {
		attrs = append(attrs, attribute.String("action", event.Action))
	}
	if event.BranchID != "" {
		attrs = append(attrs, attribute.String("branch_id", event.BranchID))
	}
	m.scans.Add(ctx, 1, otelmetric.WithAttributes(attrs...))
	return nil
}
