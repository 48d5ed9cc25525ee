package metrics

import (
	"context"
	"time"

	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
)

// MetricRecorder is an abstract interface for recording metrics related to
// batch execution. It provides a standardized way to record job, step and
// item-level events, facilitating integration with different metrics
// backends (e.g. Prometheus).
type MetricRecorder interface {
	// RecordJobStart records the start of a job run.
	RecordJobStart(ctx context.Context, jobName string)

	// RecordJobEnd records the end of a job run with its duration and outcome.
	RecordJobEnd(ctx context.Context, jobName string, duration time.Duration, err error)

	// RecordStepStart records the start of a StepExecution.
	RecordStepStart(ctx context.Context, execution *model.StepExecution)

	// RecordStepEnd records the end of a StepExecution, including its final
	// status and counters.
	RecordStepEnd(ctx context.Context, execution *model.StepExecution)

	// RecordItemRead records the successful reading of an item.
	RecordItemRead(ctx context.Context, stepName string)

	// RecordItemProcess records the successful processing of an item.
	RecordItemProcess(ctx context.Context, stepName string)

	// RecordItemWrite records the successful writing of items.
	RecordItemWrite(ctx context.Context, stepName string, count int)

	// RecordItemSkip records a tolerated item-level error.
	// phase is one of "read", "process", "write".
	RecordItemSkip(ctx context.Context, stepName string, phase string)
}
