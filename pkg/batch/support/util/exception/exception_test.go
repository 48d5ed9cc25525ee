package exception_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tigerroll/riptide/pkg/batch/support/util/exception"

	"github.com/stretchr/testify/assert"
)

func TestNewBatchError(t *testing.T) {
	originalErr := errors.New("connection refused")
	be := exception.NewBatchError("writer", "failed to persist batch", originalErr)

	assert.Equal(t, "writer", be.Module)
	assert.Equal(t, "failed to persist batch", be.Message)
	assert.Equal(t, originalErr, be.Unwrap())
	assert.Contains(t, be.Error(), "[writer] failed to persist batch: connection refused")
	assert.NotEmpty(t, be.StackTrace)
}

func TestNewBatchErrorf(t *testing.T) {
	be := exception.NewBatchErrorf("reader", "item %d not found", 10)

	assert.Nil(t, be.Unwrap())
	assert.Contains(t, be.Error(), "[reader] item 10 not found")
}

func TestPhaseConstructors(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, exception.ModuleReader, exception.NewReaderError("read failed", cause).Module)
	assert.Equal(t, exception.ModuleProcessor, exception.NewProcessorError("process failed", cause).Module)
	assert.Equal(t, exception.ModuleWriter, exception.NewWriterError("write failed", cause).Module)
}

func TestIsBatchError(t *testing.T) {
	be := exception.NewBatchError("reader", "read failed", nil)

	assert.True(t, exception.IsBatchError(be))
	assert.True(t, exception.IsBatchError(fmt.Errorf("wrapped: %w", be)))
	assert.False(t, exception.IsBatchError(errors.New("plain")))
	assert.False(t, exception.IsBatchError(nil))
}

func TestStepFailureError(t *testing.T) {
	cause := exception.NewReaderError("read failed", errors.New("bad record"))
	sf := exception.NewStepFailure("import-step", cause)

	assert.Equal(t, "import-step", sf.StepName)
	assert.Contains(t, sf.Error(), "step 'import-step' failed")
	assert.Equal(t, cause, sf.Unwrap())

	name, ok := exception.IsStepFailure(fmt.Errorf("job aborted: %w", sf))
	assert.True(t, ok)
	assert.Equal(t, "import-step", name)

	_, ok = exception.IsStepFailure(errors.New("plain"))
	assert.False(t, ok)
}

func TestCombine(t *testing.T) {
	assert.NoError(t, exception.Combine(nil, nil))

	err1 := errors.New("first")
	err2 := errors.New("second")
	combined := exception.Combine(err1, nil, err2)

	assert.Error(t, combined)
	assert.Contains(t, combined.Error(), "first")
	assert.Contains(t, combined.Error(), "second")
}

func TestExtractErrorMessage(t *testing.T) {
	assert.Equal(t, "", exception.ExtractErrorMessage(nil))
	assert.Equal(t, "plain", exception.ExtractErrorMessage(errors.New("plain")))

	be := exception.NewBatchError("writer", "clean message", errors.New("noisy cause"))
	assert.Equal(t, "clean message", exception.ExtractErrorMessage(be))
}
