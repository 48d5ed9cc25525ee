package tasklet

import (
	"context"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	metrics "github.com/tigerroll/riptide/pkg/batch/core/metrics"
	exception "github.com/tigerroll/riptide/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// TaskletStep is an implementation of port.Step for single-shot units of
// work. The wrapped tasklet owns its own looping and retry behavior; the step
// invokes Execute once and maps any failure to the FAILED status.
type TaskletStep struct {
	id      string
	name    string
	tasklet port.Tasklet

	stepExecutionListeners []port.StepExecutionListener

	metricRecorder metrics.MetricRecorder
	tracer         metrics.Tracer
}

// Verify that TaskletStep implements the port.Step interface.
var _ port.Step = (*TaskletStep)(nil)

// NewTaskletStep creates a new TaskletStep instance.
// metricRecorder and tracer may be nil; no-op implementations are substituted.
func NewTaskletStep(
	name string,
	tasklet port.Tasklet,
	stepExecutionListeners []port.StepExecutionListener,
	metricRecorder metrics.MetricRecorder,
	tracer metrics.Tracer,
) (*TaskletStep, error) {
	if name == "" {
		return nil, exception.NewBatchErrorf("step", "step name must not be empty")
	}
	if tasklet == nil {
		return nil, exception.NewBatchErrorf("step", "step '%s' requires a Tasklet", name)
	}
	if metricRecorder == nil {
		metricRecorder = metrics.NewNoOpMetricRecorder()
	}
	if tracer == nil {
		tracer = metrics.NewNoOpTracer()
	}

	return &TaskletStep{
		id:                     model.NewID(),
		name:                   name,
		tasklet:                tasklet,
		stepExecutionListeners: stepExecutionListeners,
		metricRecorder:         metricRecorder,
		tracer:                 tracer,
	}, nil
}

// ID returns the unique ID of the step definition.
func (s *TaskletStep) ID() string {
	return s.id
}

// StepName returns the step name.
func (s *TaskletStep) StepName() string {
	return s.name
}

// Execute runs the wrapped tasklet once against the given StepExecution.
// On return the StepExecution is in a terminal status with end time and
// duration stamped: SUCCESS when the tasklet returned without error, FAILED
// otherwise.
func (s *TaskletStep) Execute(ctx context.Context, stepExecution *model.StepExecution) error {
	logger.Infof("TaskletStep '%s' executing.", s.name)

	ctx, endSpan := s.tracer.StartStepSpan(ctx, stepExecution)
	defer endSpan()

	s.metricRecorder.RecordStepStart(ctx, stepExecution)
	for _, l := range s.stepExecutionListeners {
		l.BeforeStep(ctx, stepExecution)
	}

	stepExecution.MarkAsStarted()

	var stepError error
	chunkStatus, err := s.tasklet.Execute(ctx, stepExecution)
	if err != nil {
		stepError = exception.NewBatchError("tasklet", "tasklet execution failed", err)
		s.tracer.RecordError(ctx, "tasklet", stepError)
		stepExecution.MarkAsFailed(model.StepStatusFailed, stepError)
	} else {
		logger.Debugf("TaskletStep '%s': tasklet returned status %s.", s.name, chunkStatus)
		stepExecution.MarkAsSucceeded()
	}

	for _, l := range s.stepExecutionListeners {
		l.AfterStep(ctx, stepExecution)
	}
	s.metricRecorder.RecordStepEnd(ctx, stepExecution)

	logger.Infof("TaskletStep '%s' finished. Status: %s", s.name, stepExecution.Status)
	return stepError
}
