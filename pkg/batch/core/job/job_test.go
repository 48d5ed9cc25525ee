package job_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	"github.com/tigerroll/riptide/pkg/batch/core/job"
	"github.com/tigerroll/riptide/pkg/batch/support/util/exception"
)

// stubStep is a step whose execution outcome is scripted.
type stubStep struct {
	name     string
	fail     bool
	failWith model.StepStatus
	calls    int
}

func (s *stubStep) Execute(ctx context.Context, stepExecution *model.StepExecution) error {
	s.calls++
	stepExecution.MarkAsStarted()
	stepExecution.ReadCount = 5
	if s.fail {
		err := errors.New("step blew up")
		stepExecution.MarkAsFailed(s.failWith, err)
		return err
	}
	stepExecution.MarkAsSucceeded()
	return nil
}

func (s *stubStep) StepName() string { return s.name }
func (s *stubStep) ID() string       { return s.name + "-id" }

var _ port.Step = (*stubStep)(nil)

type recordingJobListener struct {
	beforeCalls int
	afterCalls  int
	afterErr    error
}

func (l *recordingJobListener) BeforeJob(ctx context.Context, jobName string) { l.beforeCalls++ }
func (l *recordingJobListener) AfterJob(ctx context.Context, jobName string, err error) {
	l.afterCalls++
	l.afterErr = err
}

var _ port.JobExecutionListener = (*recordingJobListener)(nil)

func TestNewJob_Validation(t *testing.T) {
	stepA := &stubStep{name: "a"}

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := job.NewJob("", []port.Step{stepA}, nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects no steps", func(t *testing.T) {
		_, err := job.NewJob("nightly", nil, nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil step", func(t *testing.T) {
		_, err := job.NewJob("nightly", []port.Step{stepA, nil}, nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects duplicate step names", func(t *testing.T) {
		_, err := job.NewJob("nightly", []port.Step{stepA, &stubStep{name: "a"}}, nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("aggregates all validation failures", func(t *testing.T) {
		_, err := job.NewJob("", nil, nil, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "job name")
		assert.Contains(t, err.Error(), "at least one step")
	})
}

func TestJob_RunAllStepsInOrder(t *testing.T) {
	stepA := &stubStep{name: "a"}
	stepB := &stubStep{name: "b"}
	j, err := job.NewJob("nightly", []port.Step{stepA, stepB}, nil, nil, nil)
	require.NoError(t, err)

	execution, err := j.Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, execution)
	assert.Equal(t, "nightly", execution.JobName)
	assert.False(t, execution.EndTime.Before(execution.StartTime))
	assert.Equal(t, execution.EndTime.Sub(execution.StartTime), execution.Duration)
	assert.Equal(t, 1, stepA.calls)
	assert.Equal(t, 1, stepB.calls)

	seA, ok := j.StepExecution("a")
	require.True(t, ok)
	assert.Equal(t, model.StepStatusSuccess, seA.Status)
	assert.Equal(t, 5, seA.ReadCount)

	_, ok = j.StepExecution("unknown")
	assert.False(t, ok)
}

func TestJob_ShortCircuitsOnFirstFailure(t *testing.T) {
	stepA := &stubStep{name: "a", fail: true, failWith: model.StepStatusWriteError}
	stepB := &stubStep{name: "b"}
	j, err := job.NewJob("nightly", []port.Step{stepA, stepB}, nil, nil, nil)
	require.NoError(t, err)

	execution, err := j.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, execution)

	failedStep, ok := exception.IsStepFailure(err)
	require.True(t, ok)
	assert.Equal(t, "a", failedStep)

	// The failed step has a snapshot; the step that never ran has none.
	seA, ok := j.StepExecution("a")
	require.True(t, ok)
	assert.Equal(t, model.StepStatusWriteError, seA.Status)

	_, ok = j.StepExecution("b")
	assert.False(t, ok)
	assert.Equal(t, 0, stepB.calls)
}

func TestJob_SnapshotIsDetachedFromLaterRuns(t *testing.T) {
	stepA := &stubStep{name: "a"}
	j, err := job.NewJob("nightly", []port.Step{stepA}, nil, nil, nil)
	require.NoError(t, err)

	_, err = j.Run(context.Background())
	require.NoError(t, err)

	first, ok := j.StepExecution("a")
	require.True(t, ok)

	_, err = j.Run(context.Background())
	require.NoError(t, err)

	second, ok := j.StepExecution("a")
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID, "each run creates a fresh StepExecution")
}

func TestJob_ListenersObserveOutcome(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		listener := &recordingJobListener{}
		j, err := job.NewJob("nightly", []port.Step{&stubStep{name: "a"}},
			[]port.JobExecutionListener{listener}, nil, nil)
		require.NoError(t, err)

		_, err = j.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, listener.beforeCalls)
		assert.Equal(t, 1, listener.afterCalls)
		assert.NoError(t, listener.afterErr)
	})

	t.Run("failure", func(t *testing.T) {
		listener := &recordingJobListener{}
		j, err := job.NewJob("nightly", []port.Step{&stubStep{name: "a", fail: true, failWith: model.StepStatusFailed}},
			[]port.JobExecutionListener{listener}, nil, nil)
		require.NoError(t, err)

		_, err = j.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, listener.afterCalls)
		assert.Error(t, listener.afterErr)
	})
}
