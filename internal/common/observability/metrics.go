package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter provider and the wizard step
// instruments. A zero value records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	stepEntries   otelmetric.Int64Counter
	stepDuration  otelmetric.Float64Histogram
}

// New registers a Prometheus-backed meter provider globally. On exporter
// failure it returns a no-op instance.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	stepEntries, _ := meter.Int64Counter(
		"wizard.step.entries",
		otelmetric.WithDescription("Number of times a wizard step was entered"),
	)

	stepDuration, _ := meter.Float64Histogram(
		"wizard.step.duration",
		otelmetric.WithDescription("Time spent fetching data on step entry"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		stepEntries:   stepEntries,
		stepDuration:  stepDuration,
	}
}

// RecordStepEntered counts an Enter call for step; blocked marks entries that
// stopped at a precondition message.
func (o *Observability) RecordStepEntered(ctx context.Context, step string, blocked bool) {
	if o == nil || o.stepEntries == nil {
		return
	}
	o.stepEntries.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("step", step),
		attribute.Bool("blocked", blocked),
	))
}

func (o *Observability) RecordStepDuration(ctx context.Context, step string, d time.Duration) {
	if o == nil || o.stepDuration == nil {
		return
	}
	o.stepDuration.Record(ctx, float64(d.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("step", step),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
