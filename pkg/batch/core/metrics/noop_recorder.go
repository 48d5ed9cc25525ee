package metrics

import (
	"context"
	"time"

	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
)

// NoOpMetricRecorder is an implementation of MetricRecorder that does nothing.
// It is used when metrics are disabled or during testing.
type NoOpMetricRecorder struct{}

// NewNoOpMetricRecorder creates a new instance of NoOpMetricRecorder.
func NewNoOpMetricRecorder() MetricRecorder {
	return &NoOpMetricRecorder{}
}

// RecordJobStart does nothing.
func (r *NoOpMetricRecorder) RecordJobStart(ctx context.Context, jobName string) {}

// RecordJobEnd does nothing.
func (r *NoOpMetricRecorder) RecordJobEnd(ctx context.Context, jobName string, duration time.Duration, err error) {
}

// RecordStepStart does nothing.
func (r *NoOpMetricRecorder) RecordStepStart(ctx context.Context, execution *model.StepExecution) {}

// RecordStepEnd does nothing.
func (r *NoOpMetricRecorder) RecordStepEnd(ctx context.Context, execution *model.StepExecution) {}

// RecordItemRead does nothing.
func (r *NoOpMetricRecorder) RecordItemRead(ctx context.Context, stepName string) {}

// RecordItemProcess does nothing.
func (r *NoOpMetricRecorder) RecordItemProcess(ctx context.Context, stepName string) {}

// RecordItemWrite does nothing.
func (r *NoOpMetricRecorder) RecordItemWrite(ctx context.Context, stepName string, count int) {}

// RecordItemSkip does nothing.
func (r *NoOpMetricRecorder) RecordItemSkip(ctx context.Context, stepName string, phase string) {}

var _ MetricRecorder = (*NoOpMetricRecorder)(nil)

// NoOpTracer is an implementation of Tracer that does nothing.
type NoOpTracer struct{}

// NewNoOpTracer creates a new instance of NoOpTracer.
func NewNoOpTracer() Tracer {
	return &NoOpTracer{}
}

// StartJobSpan returns the context unchanged and a no-op end function.
func (t *NoOpTracer) StartJobSpan(ctx context.Context, jobName string) (context.Context, func()) {
	return ctx, func() {}
}

// StartStepSpan returns the context unchanged and a no-op end function.
func (t *NoOpTracer) StartStepSpan(ctx context.Context, execution *model.StepExecution) (context.Context, func()) {
	return ctx, func() {}
}

// RecordError does nothing.
func (t *NoOpTracer) RecordError(ctx context.Context, module string, err error) {}

var _ Tracer = (*NoOpTracer)(nil)
