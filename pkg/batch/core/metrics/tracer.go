package metrics

import (
	"context"

	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
)

// Tracer is an abstract interface for tracing job and step execution flows.
// It allows integration with tracing systems like OpenTelemetry without the
// engine depending on a concrete backend.
type Tracer interface {
	// StartJobSpan starts a span for a job run.
	//
	// Returns a context carrying the new span and a function that ends it;
	// the returned function is intended for a defer statement.
	StartJobSpan(ctx context.Context, jobName string) (context.Context, func())

	// StartStepSpan starts a span for a StepExecution, typically nested under
	// a job span.
	StartStepSpan(ctx context.Context, execution *model.StepExecution) (context.Context, func())

	// RecordError records an error on the current span.
	// module names the component where the error occurred (e.g. "reader").
	RecordError(ctx context.Context, module string, err error)
}
