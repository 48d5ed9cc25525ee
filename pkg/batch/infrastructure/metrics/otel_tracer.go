package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	metrics "github.com/tigerroll/riptide/pkg/batch/core/metrics"
)

const tracerName = "github.com/tigerroll/riptide/pkg/batch"

// OpenTelemetryTracer is an implementation of metrics.Tracer using
// OpenTelemetry. Job spans parent the step spans started under them.
type OpenTelemetryTracer struct {
	tracer trace.Tracer
}

// NewOpenTelemetryTracer creates a new OpenTelemetryTracer using the given
// provider (e.g. the SDK provider configured by the application).
func NewOpenTelemetryTracer(provider trace.TracerProvider) *OpenTelemetryTracer {
	return &OpenTelemetryTracer{
		tracer: provider.Tracer(tracerName),
	}
}

// StartJobSpan starts a new span for a job run.
func (t *OpenTelemetryTracer) StartJobSpan(ctx context.Context, jobName string) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "batch.job",
		trace.WithAttributes(attribute.String("batch.job.name", jobName)),
	)
	return ctx, func() { span.End() }
}

// StartStepSpan starts a new span for a StepExecution, nested under the
// current span in ctx.
func (t *OpenTelemetryTracer) StartStepSpan(ctx context.Context, execution *model.StepExecution) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "batch.step",
		trace.WithAttributes(
			attribute.String("batch.step.name", execution.StepName),
			attribute.String("batch.step.execution_id", execution.ID),
		),
	)
	return ctx, func() {
		span.SetAttributes(
			attribute.String("batch.step.status", execution.Status.String()),
			attribute.Int("batch.step.read_count", execution.ReadCount),
			attribute.Int("batch.step.write_count", execution.WriteCount),
			attribute.Int("batch.step.error_count", execution.TotalErrorCount()),
		)
		if execution.Status.IsError() {
			span.SetStatus(codes.Error, execution.Status.String())
		}
		span.End()
	}
}

// RecordError records an error on the span carried by ctx.
func (t *OpenTelemetryTracer) RecordError(ctx context.Context, module string, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err, trace.WithAttributes(attribute.String("batch.module", module)))
}

var _ metrics.Tracer = (*OpenTelemetryTracer)(nil)
