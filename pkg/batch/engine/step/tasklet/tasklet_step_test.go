package tasklet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	"github.com/tigerroll/riptide/pkg/batch/engine/step/tasklet"
)

type fakeTasklet struct {
	status model.ChunkStatus
	err    error
	calls  int
}

func (t *fakeTasklet) Execute(ctx context.Context, stepExecution *model.StepExecution) (model.ChunkStatus, error) {
	t.calls++
	return t.status, t.err
}

var _ port.Tasklet = (*fakeTasklet)(nil)

func TestNewTaskletStep_Validation(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		_, err := tasklet.NewTaskletStep("", &fakeTasklet{}, nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil tasklet", func(t *testing.T) {
		_, err := tasklet.NewTaskletStep("cleanup", nil, nil, nil, nil)
		assert.Error(t, err)
	})
}

func TestTaskletStep_Success(t *testing.T) {
	work := &fakeTasklet{status: model.ChunkFinished}
	step, err := tasklet.NewTaskletStep("cleanup", work, nil, nil, nil)
	require.NoError(t, err)
	execution := model.NewStepExecution("cleanup")

	err = step.Execute(context.Background(), execution)

	require.NoError(t, err)
	assert.Equal(t, model.StepStatusSuccess, execution.Status)
	assert.Equal(t, 1, work.calls)
	assert.NotNil(t, execution.EndTime)
}

func TestTaskletStep_FailureMarksStepFailed(t *testing.T) {
	work := &fakeTasklet{status: model.ChunkError, err: errors.New("disk full")}
	step, err := tasklet.NewTaskletStep("cleanup", work, nil, nil, nil)
	require.NoError(t, err)
	execution := model.NewStepExecution("cleanup")

	err = step.Execute(context.Background(), execution)

	require.Error(t, err)
	assert.Equal(t, model.StepStatusFailed, execution.Status)
	assert.Equal(t, 1, work.calls)
	assert.NotEmpty(t, execution.Failures)
	assert.NotNil(t, execution.EndTime)
}

func TestTaskletStep_InvokedExactlyOnce(t *testing.T) {
	// A tasklet reporting CONTINUABLE is not re-invoked; looping is the
	// tasklet's own responsibility.
	work := &fakeTasklet{status: model.ChunkContinuable}
	step, err := tasklet.NewTaskletStep("cleanup", work, nil, nil, nil)
	require.NoError(t, err)
	execution := model.NewStepExecution("cleanup")

	err = step.Execute(context.Background(), execution)

	require.NoError(t, err)
	assert.Equal(t, 1, work.calls)
	assert.Equal(t, model.StepStatusSuccess, execution.Status)
}
