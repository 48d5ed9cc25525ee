// Package job implements the job orchestration of the Riptide batch engine.
// A Job runs its steps strictly in order, records a completed snapshot of
// every step execution and short-circuits on the first step failure.
package job

import (
	"context"
	"time"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	metrics "github.com/tigerroll/riptide/pkg/batch/core/metrics"
	exception "github.com/tigerroll/riptide/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// Job is a named, ordered sequence of steps. Each Run creates a fresh
// StepExecution per step, stores its completed snapshot in a name-keyed map
// regardless of outcome and stops at the first step that does not end in
// SUCCESS.
type Job struct {
	instance *model.JobInstance
	steps    []port.Step

	// stepExecutions maps step name to the snapshot taken when that step
	// finished. Steps never reached by a run have no entry.
	stepExecutions map[string]*model.StepExecution

	jobExecutionListeners []port.JobExecutionListener

	metricRecorder metrics.MetricRecorder
	tracer         metrics.Tracer
}

// NewJob creates a new Job instance.
//
// jobName must be non-empty, every step must be non-nil and step names must
// be unique within the job. Validation failures are aggregated so a
// misconfigured job reports everything wrong at once.
// metricRecorder and tracer may be nil; no-op implementations are substituted.
func NewJob(
	jobName string,
	steps []port.Step,
	jobExecutionListeners []port.JobExecutionListener,
	metricRecorder metrics.MetricRecorder,
	tracer metrics.Tracer,
) (*Job, error) {
	var errs []error
	if jobName == "" {
		errs = append(errs, exception.NewBatchErrorf("job", "job name must not be empty"))
	}
	if len(steps) == 0 {
		errs = append(errs, exception.NewBatchErrorf("job", "job '%s' requires at least one step", jobName))
	}

	seen := make(map[string]struct{}, len(steps))
	for i, step := range steps {
		if step == nil {
			errs = append(errs, exception.NewBatchErrorf("job", "job '%s': step at index %d is nil", jobName, i))
			continue
		}
		if _, dup := seen[step.StepName()]; dup {
			errs = append(errs, exception.NewBatchErrorf("job", "job '%s': duplicate step name '%s'", jobName, step.StepName()))
		}
		seen[step.StepName()] = struct{}{}
	}

	if err := exception.Combine(errs...); err != nil {
		return nil, err
	}

	if metricRecorder == nil {
		metricRecorder = metrics.NewNoOpMetricRecorder()
	}
	if tracer == nil {
		tracer = metrics.NewNoOpTracer()
	}

	return &Job{
		instance:              model.NewJobInstance(jobName),
		steps:                 steps,
		stepExecutions:        make(map[string]*model.StepExecution, len(steps)),
		jobExecutionListeners: jobExecutionListeners,
		metricRecorder:        metricRecorder,
		tracer:                tracer,
	}, nil
}

// JobName returns the logical name of the job.
func (j *Job) JobName() string {
	return j.instance.JobName
}

// Instance returns the identity of this job definition.
func (j *Job) Instance() *model.JobInstance {
	return j.instance
}

// StepExecution returns the snapshot of the named step's most recent
// execution, or false when the step has not run (never reached, or unknown).
func (j *Job) StepExecution(stepName string) (*model.StepExecution, bool) {
	se, ok := j.stepExecutions[stepName]
	return se, ok
}

// Run executes the job's steps in order.
//
// Every step that runs gets a fresh StepExecution; its snapshot is stored
// unconditionally once the step finishes. The first step that does not end in
// SUCCESS aborts the run with a StepFailureError naming it; later steps never
// start and have no snapshot. On success Run returns a JobExecution with the
// run's overall timing.
func (j *Job) Run(ctx context.Context) (*model.JobExecution, error) {
	jobName := j.instance.JobName
	logger.Infof("Job '%s' starting with %d step(s).", jobName, len(j.steps))
	startTime := time.Now()

	ctx, endSpan := j.tracer.StartJobSpan(ctx, jobName)
	defer endSpan()

	j.metricRecorder.RecordJobStart(ctx, jobName)
	for _, l := range j.jobExecutionListeners {
		l.BeforeJob(ctx, jobName)
	}

	var runErr error
	for _, step := range j.steps {
		stepExecution := model.NewStepExecution(step.StepName())
		stepErr := step.Execute(ctx, stepExecution)

		j.stepExecutions[step.StepName()] = stepExecution.Snapshot()

		if stepErr != nil || stepExecution.Status != model.StepStatusSuccess {
			if stepErr == nil {
				stepErr = exception.NewBatchErrorf("job", "step ended in status %s", stepExecution.Status)
			}
			runErr = exception.NewStepFailure(step.StepName(), stepErr)
			logger.Errorf("Job '%s': step '%s' failed, aborting remaining steps: %v", jobName, step.StepName(), stepErr)
			break
		}
	}

	endTime := time.Now()
	duration := endTime.Sub(startTime)

	for _, l := range j.jobExecutionListeners {
		l.AfterJob(ctx, jobName, runErr)
	}
	j.metricRecorder.RecordJobEnd(ctx, jobName, duration, runErr)

	if runErr != nil {
		j.tracer.RecordError(ctx, "job", runErr)
		logger.Infof("Job '%s' failed after %s.", jobName, duration)
		return nil, runErr
	}

	logger.Infof("Job '%s' completed successfully in %s.", jobName, duration)
	return &model.JobExecution{
		JobName:   jobName,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  duration,
	}, nil
}
