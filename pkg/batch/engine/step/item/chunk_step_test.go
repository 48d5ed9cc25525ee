package item_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	"github.com/tigerroll/riptide/pkg/batch/engine/step/item"
	"github.com/tigerroll/riptide/pkg/batch/engine/step/skip"
	"github.com/tigerroll/riptide/pkg/batch/support/util/exception"
)

// readOutcome scripts a single Read call: either an item or an error.
type readOutcome struct {
	item int
	err  error
}

// scriptedReader replays a fixed sequence of read outcomes, then reports end
// of data forever.
type scriptedReader struct {
	outcomes []readOutcome
	pos      int
}

func (r *scriptedReader) Read(ctx context.Context) (int, error) {
	if r.pos >= len(r.outcomes) {
		return 0, port.ErrNoMoreItems
	}
	out := r.outcomes[r.pos]
	r.pos++
	return out.item, out.err
}

var _ port.ItemReader[int] = (*scriptedReader)(nil)

// recordingWriter captures written batches and counts lifecycle calls.
// writeErrs is consumed one entry per Write call; a nil entry (or running out
// of entries) means the call succeeds.
type recordingWriter struct {
	batches    [][]int
	openCount  int
	flushCount int
	closeCount int
	openErr    error
	closeErr   error
	writeErrs  []error
	writeCalls int
}

func (w *recordingWriter) Open(ctx context.Context) error {
	w.openCount++
	return w.openErr
}

func (w *recordingWriter) Write(ctx context.Context, items []int) error {
	call := w.writeCalls
	w.writeCalls++
	if call < len(w.writeErrs) && w.writeErrs[call] != nil {
		return w.writeErrs[call]
	}
	batch := make([]int, len(items))
	copy(batch, items)
	w.batches = append(w.batches, batch)
	return nil
}

func (w *recordingWriter) Flush(ctx context.Context) error {
	w.flushCount++
	return nil
}

func (w *recordingWriter) Close(ctx context.Context) error {
	w.closeCount++
	return w.closeErr
}

var _ port.ItemWriter[int] = (*recordingWriter)(nil)

// funcProcessor adapts a function to port.ItemProcessor.
type funcProcessor struct {
	fn func(int) (int, error)
}

func (p *funcProcessor) Process(ctx context.Context, input int) (int, error) {
	return p.fn(input)
}

var _ port.ItemProcessor[int, int] = (*funcProcessor)(nil)

func newStep(t *testing.T, reader port.ItemReader[int], processor port.ItemProcessor[int, int], writer port.ItemWriter[int], chunkSize, skipLimit int) *item.ChunkStep[int, int] {
	t.Helper()
	policy, err := skip.NewLimitPolicy(skipLimit)
	require.NoError(t, err)
	step, err := item.NewChunkStep[int, int]("test-step", reader, processor, writer, chunkSize, policy, nil, nil, nil, nil)
	require.NoError(t, err)
	return step
}

func itemsOf(values ...int) []readOutcome {
	outcomes := make([]readOutcome, len(values))
	for i, v := range values {
		outcomes[i] = readOutcome{item: v}
	}
	return outcomes
}

func TestNewChunkStep_Validation(t *testing.T) {
	policy, err := skip.NewLimitPolicy(0)
	require.NoError(t, err)
	reader := &scriptedReader{}
	writer := &recordingWriter{}

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := item.NewChunkStep[int, int]("", reader, nil, writer, 1, policy, nil, nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil reader", func(t *testing.T) {
		_, err := item.NewChunkStep[int, int]("s", nil, nil, writer, 1, policy, nil, nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil writer", func(t *testing.T) {
		_, err := item.NewChunkStep[int, int]("s", reader, nil, nil, 1, policy, nil, nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects chunk size below one", func(t *testing.T) {
		_, err := item.NewChunkStep[int, int]("s", reader, nil, writer, 0, policy, nil, nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil skip policy", func(t *testing.T) {
		_, err := item.NewChunkStep[int, int]("s", reader, nil, writer, 1, nil, nil, nil, nil, nil)
		assert.Error(t, err)
	})
}

func TestChunkStep_EmptySource(t *testing.T) {
	reader := &scriptedReader{}
	writer := &recordingWriter{}
	step := newStep(t, reader, nil, writer, 5, 0)
	execution := model.NewStepExecution("test-step")

	err := step.Execute(context.Background(), execution)

	require.NoError(t, err)
	assert.Equal(t, model.StepStatusSuccess, execution.Status)
	assert.Equal(t, 0, execution.ReadCount)
	assert.Equal(t, 0, execution.WriteCount)
	assert.Equal(t, 0, execution.TotalErrorCount())
	assert.Empty(t, writer.batches)
	assert.Equal(t, 1, writer.openCount)
	assert.Equal(t, 1, writer.closeCount)
	assert.NotNil(t, execution.EndTime)
}

func TestChunkStep_BatchBoundaries(t *testing.T) {
	// 7 items with chunk size 3 yield batches of 3, 3 and 1.
	reader := &scriptedReader{outcomes: itemsOf(1, 2, 3, 4, 5, 6, 7)}
	writer := &recordingWriter{}
	step := newStep(t, reader, nil, writer, 3, 0)
	execution := model.NewStepExecution("test-step")

	err := step.Execute(context.Background(), execution)

	require.NoError(t, err)
	assert.Equal(t, model.StepStatusSuccess, execution.Status)
	assert.Equal(t, 7, execution.ReadCount)
	assert.Equal(t, 7, execution.WriteCount)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, writer.batches)
	assert.Equal(t, 3, writer.flushCount)
}

func TestChunkStep_ExactMultipleOfChunkSize(t *testing.T) {
	// The final empty chunk after an exact multiple must not produce a write.
	reader := &scriptedReader{outcomes: itemsOf(1, 2, 3, 4)}
	writer := &recordingWriter{}
	step := newStep(t, reader, nil, writer, 2, 0)
	execution := model.NewStepExecution("test-step")

	err := step.Execute(context.Background(), execution)

	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, writer.batches)
	assert.Equal(t, 2, writer.flushCount)
}

func TestChunkStep_ZeroSkipLimitTripsOnFirstReadError(t *testing.T) {
	readErr := errors.New("boom")
	reader := &scriptedReader{outcomes: []readOutcome{{item: 1}, {err: readErr}, {item: 2}}}
	writer := &recordingWriter{}
	step := newStep(t, reader, nil, writer, 10, 0)
	execution := model.NewStepExecution("test-step")

	err := step.Execute(context.Background(), execution)

	require.Error(t, err)
	assert.True(t, exception.IsBatchError(err))
	assert.Equal(t, model.StepStatusReadError, execution.Status)
	assert.Equal(t, 1, execution.ReadCount)
	assert.Equal(t, 1, execution.ReadErrorCount)
	assert.Empty(t, writer.batches)
	assert.Equal(t, 1, writer.openCount)
	assert.Equal(t, 1, writer.closeCount)
	assert.NotNil(t, execution.EndTime)
}

func TestChunkStep_ToleratesExactlySkipLimitErrors(t *testing.T) {
	e1, e2 := errors.New("first"), errors.New("second")

	t.Run("exactly k errors succeed", func(t *testing.T) {
		reader := &scriptedReader{outcomes: []readOutcome{{item: 1}, {err: e1}, {item: 2}, {err: e2}, {item: 3}}}
		writer := &recordingWriter{}
		step := newStep(t, reader, nil, writer, 10, 2)
		execution := model.NewStepExecution("test-step")

		err := step.Execute(context.Background(), execution)

		require.NoError(t, err)
		assert.Equal(t, model.StepStatusSuccess, execution.Status)
		assert.Equal(t, 3, execution.ReadCount)
		assert.Equal(t, 2, execution.ReadErrorCount)
		assert.Equal(t, [][]int{{1, 2, 3}}, writer.batches)
	})

	t.Run("k plus one errors trip", func(t *testing.T) {
		reader := &scriptedReader{outcomes: []readOutcome{{err: e1}, {err: e2}, {err: errors.New("third")}}}
		writer := &recordingWriter{}
		step := newStep(t, reader, nil, writer, 10, 2)
		execution := model.NewStepExecution("test-step")

		err := step.Execute(context.Background(), execution)

		require.Error(t, err)
		assert.Equal(t, model.StepStatusReadError, execution.Status)
		assert.Equal(t, 3, execution.ReadErrorCount)
	})
}

func TestChunkStep_ReadErrorScenario(t *testing.T) {
	// chunk size 2, skip limit 1, items 1, 2, error, 3 then end of data.
	readErr := errors.New("transient source failure")
	reader := &scriptedReader{outcomes: []readOutcome{{item: 1}, {item: 2}, {err: readErr}, {item: 3}}}
	writer := &recordingWriter{}
	step := newStep(t, reader, nil, writer, 2, 1)
	execution := model.NewStepExecution("test-step")

	err := step.Execute(context.Background(), execution)

	require.NoError(t, err)
	assert.Equal(t, model.StepStatusSuccess, execution.Status)
	assert.Equal(t, 3, execution.ReadCount)
	assert.Equal(t, 1, execution.ReadErrorCount)
	assert.Equal(t, 3, execution.WriteCount)
	assert.Equal(t, [][]int{{1, 2}, {3}}, writer.batches)
}

func TestChunkStep_ProcessErrorDropsItem(t *testing.T) {
	processor := &funcProcessor{fn: func(v int) (int, error) {
		if v == 2 {
			return 0, errors.New("cannot process two")
		}
		return v * 10, nil
	}}

	t.Run("tolerated error drops only the failed item", func(t *testing.T) {
		reader := &scriptedReader{outcomes: itemsOf(1, 2, 3)}
		writer := &recordingWriter{}
		step := newStep(t, reader, processor, writer, 3, 1)
		execution := model.NewStepExecution("test-step")

		err := step.Execute(context.Background(), execution)

		require.NoError(t, err)
		assert.Equal(t, model.StepStatusSuccess, execution.Status)
		assert.Equal(t, 3, execution.ReadCount)
		assert.Equal(t, 1, execution.ProcessErrorCount)
		assert.Equal(t, 2, execution.WriteCount)
		assert.Equal(t, [][]int{{10, 30}}, writer.batches)
	})

	t.Run("trip yields processor error status", func(t *testing.T) {
		reader := &scriptedReader{outcomes: itemsOf(1, 2, 3)}
		writer := &recordingWriter{}
		step := newStep(t, reader, processor, writer, 3, 0)
		execution := model.NewStepExecution("test-step")

		err := step.Execute(context.Background(), execution)

		require.Error(t, err)
		assert.Equal(t, model.StepStatusProcessorError, execution.Status)
		assert.Equal(t, 1, execution.ProcessErrorCount)
		assert.Empty(t, writer.batches)
	})
}

func TestChunkStep_WriteErrorCountsWholeBatch(t *testing.T) {
	t.Run("tolerated batch failure skips the batch", func(t *testing.T) {
		reader := &scriptedReader{outcomes: itemsOf(1, 2, 3, 4)}
		writer := &recordingWriter{writeErrs: []error{errors.New("sink unavailable")}}
		step := newStep(t, reader, nil, writer, 2, 2)
		execution := model.NewStepExecution("test-step")

		err := step.Execute(context.Background(), execution)

		require.NoError(t, err)
		assert.Equal(t, model.StepStatusSuccess, execution.Status)
		assert.Equal(t, 2, execution.WriteErrorCount)
		assert.Equal(t, 2, execution.WriteCount)
		assert.Equal(t, [][]int{{3, 4}}, writer.batches)
	})

	t.Run("batch failure beyond the limit trips", func(t *testing.T) {
		reader := &scriptedReader{outcomes: itemsOf(1, 2)}
		writer := &recordingWriter{writeErrs: []error{errors.New("sink unavailable")}}
		step := newStep(t, reader, nil, writer, 2, 1)
		execution := model.NewStepExecution("test-step")

		err := step.Execute(context.Background(), execution)

		require.Error(t, err)
		assert.Equal(t, model.StepStatusWriteError, execution.Status)
		assert.Equal(t, 2, execution.WriteErrorCount)
		assert.Equal(t, 0, execution.WriteCount)
		assert.Equal(t, 1, writer.closeCount)
	})
}

func TestChunkStep_OpenAndCloseFailuresAreNotFatal(t *testing.T) {
	reader := &scriptedReader{outcomes: itemsOf(1, 2)}
	writer := &recordingWriter{
		openErr:  errors.New("open failed"),
		closeErr: errors.New("close failed"),
	}
	step := newStep(t, reader, nil, writer, 2, 0)
	execution := model.NewStepExecution("test-step")

	err := step.Execute(context.Background(), execution)

	require.NoError(t, err)
	assert.Equal(t, model.StepStatusSuccess, execution.Status)
	assert.Equal(t, [][]int{{1, 2}}, writer.batches)
	assert.Equal(t, 1, writer.openCount)
	assert.Equal(t, 1, writer.closeCount)
}

func TestChunkStep_SkipListenerNotified(t *testing.T) {
	readErr := errors.New("boom")
	listener := &recordingSkipListener{}
	reader := &scriptedReader{outcomes: []readOutcome{{err: readErr}, {item: 1}}}
	writer := &recordingWriter{}
	policy, err := skip.NewLimitPolicy(1)
	require.NoError(t, err)
	step, err := item.NewChunkStep[int, int]("test-step", reader, nil, writer, 2, policy,
		nil, []port.SkipListener{listener}, nil, nil)
	require.NoError(t, err)
	execution := model.NewStepExecution("test-step")

	err = step.Execute(context.Background(), execution)

	require.NoError(t, err)
	assert.Equal(t, 1, listener.readSkips)
	assert.Equal(t, 0, listener.processSkips)
	assert.Equal(t, 0, listener.writeSkips)
}

type recordingSkipListener struct {
	readSkips    int
	processSkips int
	writeSkips   int
}

func (l *recordingSkipListener) OnSkipRead(ctx context.Context, err error) { l.readSkips++ }
func (l *recordingSkipListener) OnSkipProcess(ctx context.Context, item interface{}, err error) {
	l.processSkips++
}
func (l *recordingSkipListener) OnSkipWrite(ctx context.Context, items interface{}, err error) {
	l.writeSkips++
}

var _ port.SkipListener = (*recordingSkipListener)(nil)

func TestNewChunkStepFromProperties(t *testing.T) {
	reader := &scriptedReader{outcomes: itemsOf(1, 2, 3)}
	writer := &recordingWriter{}

	step, err := item.NewChunkStepFromProperties[int, int]("test-step", reader, nil, writer,
		map[string]string{"chunk_size": "2", "skip_limit": "1"}, nil, nil, nil, nil)
	require.NoError(t, err)

	execution := model.NewStepExecution("test-step")
	require.NoError(t, step.Execute(context.Background(), execution))
	assert.Equal(t, [][]int{{1, 2}, {3}}, writer.batches)
}

func TestNewChunkStepFromProperties_InvalidSkipLimit(t *testing.T) {
	reader := &scriptedReader{}
	writer := &recordingWriter{}

	_, err := item.NewChunkStepFromProperties[int, int]("test-step", reader, nil, writer,
		map[string]string{"skip_limit": "-1"}, nil, nil, nil, nil)
	assert.Error(t, err)
}
