package licensegate

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "licensegate"
	MeterName  = "licensegate"
)

// clientMetrics holds the OpenTelemetry instruments recorded per
// license operation.
type clientMetrics struct {
	Attempts        metric.Int64Counter
	Failures        metric.Int64Counter
	RateLimitHits   metric.Int64Counter
	RequestDuration metric.Float64Histogram
}

func newClientMetrics(meter metric.Meter) (*clientMetrics, error) {
	m := &clientMetrics{}

	var err error
	m.Attempts, err = meter.Int64Counter(
		"license_client_attempts_total",
		metric.WithDescription("Total number of license validation and activation attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attempts counter: %w", err)
	}

	m.Failures, err = meter.Int64Counter(
		"license_client_failures_total",
		metric.WithDescription("Total number of failed license operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}

	m.RateLimitHits, err = meter.Int64Counter(
		"license_client_rate_limit_hits_total",
		metric.WithDescription("Total number of rate-limited license operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit counter: %w", err)
	}

	m.RequestDuration, err = meter.Float64Histogram(
		"license_client_request_duration_seconds",
		metric.WithDescription("License server round-trip duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return m, nil
}

func (m *clientMetrics) recordAttempt(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.Attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

func (m *clientMetrics) recordOutcome(ctx context.Context, operation string, duration time.Duration, err *Error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("operation", operation)}
	m.RequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if err == nil {
		return
	}
	m.Failures.Add(ctx, 1, metric.WithAttributes(append(attrs,
		attribute.String("error_kind", err.Kind.String()),
	)...))
	if err.Kind == KindRateLimit {
		m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// startSpan opens a client span for one license operation.
func (c *Client) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "licensegate."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("license.operation", operation)),
	)
}

func endSpan(span trace.Span, err *Error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Message)
		span.SetAttributes(
			attribute.String("license.error_kind", err.Kind.String()),
			attribute.String("license.error_code", err.Code),
		)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

func defaultMeter() metric.Meter {
	return otel.Meter(MeterName)
}
