package core

import (
	"context"
	"time"
)

// MetricsRecorder receives operation timings and per-validation outcomes.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
	ObserveValidation(ctx context.Context, result ValidationResult)
}

// Tracer starts spans around validator operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended exactly once with the operation error, if any.
type TraceSpan interface {
	End(err error)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

func (noopMetrics) ObserveValidation(context.Context, ValidationResult) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// MultiRecorder fans out to several recorders in order.
type MultiRecorder []MetricsRecorder

// Observe implements MetricsRecorder.
func (m MultiRecorder) Observe(ctx context.Context, operation string, success bool, duration time.Duration) {
	for _, r := range m {
		r.Observe(ctx, operation, success, duration)
	}
}

// ObserveValidation implements MetricsRecorder.
func (m MultiRecorder) ObserveValidation(ctx context.Context, result ValidationResult) {
	for _, r := range m {
		r.ObserveValidation(ctx, result)
	}
}
