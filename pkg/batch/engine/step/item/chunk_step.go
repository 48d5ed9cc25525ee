package item

import (
	"context"
	"errors"
	"io"

	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	metrics "github.com/tigerroll/riptide/pkg/batch/core/metrics"
	"github.com/tigerroll/riptide/pkg/batch/engine/step/skip"
	"github.com/tigerroll/riptide/pkg/batch/support/util/configbinder"
	exception "github.com/tigerroll/riptide/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// ChunkProperties holds the tunable settings of a chunk-oriented step as they
// appear in a job definition's property bag.
type ChunkProperties struct {
	// ChunkSize is the number of items buffered per read phase. Must be >= 1.
	ChunkSize int `yaml:"chunk_size"`
	// SkipLimit is the number of item-level errors tolerated across all
	// phases before the step trips. Must be >= 0.
	SkipLimit int `yaml:"skip_limit"`
}

// ChunkStep is an implementation of port.Step for chunk-oriented processing.
// Each iteration reads up to chunkSize items, processes them one by one and
// writes the surviving outputs as a single batch. Item-level errors are
// counted on the StepExecution and checked against the skip policy after
// every increment; the first total that exceeds the limit trips the step into
// the phase-specific error status.
type ChunkStep[I, O any] struct {
	id        string
	name      string
	reader    port.ItemReader[I]
	processor port.ItemProcessor[I, O]
	writer    port.ItemWriter[O]
	chunkSize int

	skipPolicy skip.Policy

	stepExecutionListeners []port.StepExecutionListener
	skipListeners          []port.SkipListener

	metricRecorder metrics.MetricRecorder
	tracer         metrics.Tracer
}

// Verify that ChunkStep implements the port.Step interface.
var _ port.Step = (*ChunkStep[any, any])(nil)

// NewChunkStep creates a new ChunkStep instance.
//
// reader and writer are required. processor may be nil, in which case items
// pass through unchanged; this requires I and O to be the same type.
// chunkSize must be at least 1 and skipPolicy must be non-nil.
// metricRecorder and tracer may be nil; no-op implementations are substituted.
func NewChunkStep[I, O any](
	name string,
	reader port.ItemReader[I],
	processor port.ItemProcessor[I, O],
	writer port.ItemWriter[O],
	chunkSize int,
	skipPolicy skip.Policy,
	stepExecutionListeners []port.StepExecutionListener,
	skipListeners []port.SkipListener,
	metricRecorder metrics.MetricRecorder,
	tracer metrics.Tracer,
) (*ChunkStep[I, O], error) {
	if name == "" {
		return nil, exception.NewBatchErrorf("step", "step name must not be empty")
	}
	if reader == nil {
		return nil, exception.NewBatchErrorf("step", "step '%s' requires an ItemReader", name)
	}
	if writer == nil {
		return nil, exception.NewBatchErrorf("step", "step '%s' requires an ItemWriter", name)
	}
	if chunkSize < 1 {
		return nil, exception.NewBatchErrorf("step", "step '%s': chunk size must be at least 1, got %d", name, chunkSize)
	}
	if skipPolicy == nil {
		return nil, exception.NewBatchErrorf("step", "step '%s' requires a skip policy", name)
	}
	if metricRecorder == nil {
		metricRecorder = metrics.NewNoOpMetricRecorder()
	}
	if tracer == nil {
		tracer = metrics.NewNoOpTracer()
	}

	return &ChunkStep[I, O]{
		id:                     model.NewID(),
		name:                   name,
		reader:                 reader,
		processor:              processor,
		writer:                 writer,
		chunkSize:              chunkSize,
		skipPolicy:             skipPolicy,
		stepExecutionListeners: stepExecutionListeners,
		skipListeners:          skipListeners,
		metricRecorder:         metricRecorder,
		tracer:                 tracer,
	}, nil
}

// NewChunkStepFromProperties creates a ChunkStep configured from a job
// definition's property bag. Unset properties fall back to a chunk size of 1
// and a skip limit of 0.
func NewChunkStepFromProperties[I, O any](
	name string,
	reader port.ItemReader[I],
	processor port.ItemProcessor[I, O],
	writer port.ItemWriter[O],
	props map[string]string,
	stepExecutionListeners []port.StepExecutionListener,
	skipListeners []port.SkipListener,
	metricRecorder metrics.MetricRecorder,
	tracer metrics.Tracer,
) (*ChunkStep[I, O], error) {
	cp := ChunkProperties{ChunkSize: 1, SkipLimit: 0}
	if err := configbinder.BindProperties(props, &cp); err != nil {
		return nil, exception.NewBatchError("step", "failed to bind chunk step properties", err)
	}

	policy, err := skip.NewLimitPolicy(cp.SkipLimit)
	if err != nil {
		return nil, err
	}

	return NewChunkStep(name, reader, processor, writer, cp.ChunkSize, policy,
		stepExecutionListeners, skipListeners, metricRecorder, tracer)
}

// ID returns the unique ID of the step definition.
func (s *ChunkStep[I, O]) ID() string {
	return s.id
}

// StepName returns the step name.
func (s *ChunkStep[I, O]) StepName() string {
	return s.name
}

// --- Listener Notifiers ---

func (s *ChunkStep[I, O]) notifySkipRead(ctx context.Context, err error) {
	s.tracer.RecordError(ctx, exception.ModuleReader, err)
	s.metricRecorder.RecordItemSkip(ctx, s.name, "read")
	for _, l := range s.skipListeners {
		l.OnSkipRead(ctx, err)
	}
}

func (s *ChunkStep[I, O]) notifySkipProcess(ctx context.Context, item I, err error) {
	s.tracer.RecordError(ctx, exception.ModuleProcessor, err)
	s.metricRecorder.RecordItemSkip(ctx, s.name, "process")
	for _, l := range s.skipListeners {
		l.OnSkipProcess(ctx, item, err)
	}
}

func (s *ChunkStep[I, O]) notifySkipWrite(ctx context.Context, items []O, err error) {
	s.tracer.RecordError(ctx, exception.ModuleWriter, err)
	s.metricRecorder.RecordItemSkip(ctx, s.name, "write")
	for _, l := range s.skipListeners {
		l.OnSkipWrite(ctx, items, err)
	}
}

// Execute runs the chunk-oriented step logic against the given StepExecution.
//
// The writer is opened before the first chunk and closed after the last,
// exactly once each; failures of either are logged and never abort the step.
// On return the StepExecution is in a terminal status with end time and
// duration stamped. The returned error is non-nil exactly when the step
// tripped its skip limit.
func (s *ChunkStep[I, O]) Execute(ctx context.Context, stepExecution *model.StepExecution) error {
	logger.Infof("ChunkStep '%s' executing.", s.name)

	ctx, endSpan := s.tracer.StartStepSpan(ctx, stepExecution)
	defer endSpan()

	s.metricRecorder.RecordStepStart(ctx, stepExecution)
	for _, l := range s.stepExecutionListeners {
		l.BeforeStep(ctx, stepExecution)
	}

	stepExecution.MarkAsStarted()

	if err := s.writer.Open(ctx); err != nil {
		logger.Warnf("ChunkStep '%s': failed to open ItemWriter: %v", s.name, err)
	}

	stepError := s.runChunkLoop(ctx, stepExecution)

	if err := s.writer.Close(ctx); err != nil {
		logger.Warnf("ChunkStep '%s': failed to close ItemWriter: %v", s.name, err)
	}

	if stepError == nil {
		stepExecution.MarkAsSucceeded()
	}

	for _, l := range s.stepExecutionListeners {
		l.AfterStep(ctx, stepExecution)
	}
	s.metricRecorder.RecordStepEnd(ctx, stepExecution)

	logger.Infof("ChunkStep '%s' finished. Status: %s", s.name, stepExecution.Status)
	return stepError
}

// runChunkLoop drives the read/process/write cycle until the reader is
// exhausted or the skip limit trips. On a trip it marks the StepExecution
// with the phase-specific error status and returns the tripping error.
func (s *ChunkStep[I, O]) runChunkLoop(ctx context.Context, stepExecution *model.StepExecution) error {
	for {
		chunk := NewChunk[I](s.chunkSize)

		chunkStatus, readErr := s.readChunk(ctx, stepExecution, chunk)
		if readErr != nil {
			stepExecution.MarkAsFailed(model.StepStatusReadError, readErr)
			return readErr
		}

		outputs, processErr := s.processChunk(ctx, stepExecution, chunk)
		if processErr != nil {
			stepExecution.MarkAsFailed(model.StepStatusProcessorError, processErr)
			return processErr
		}

		if writeErr := s.writeChunk(ctx, stepExecution, outputs); writeErr != nil {
			stepExecution.MarkAsFailed(model.StepStatusWriteError, writeErr)
			return writeErr
		}

		if chunkStatus == model.ChunkFinished {
			return nil
		}
	}
}

// readChunk fills the buffer until it is full or the reader signals end of
// data. Each read error increments ReadErrorCount and is checked against the
// skip limit immediately; a tolerated error moves on to the next item, a trip
// aborts the phase.
func (s *ChunkStep[I, O]) readChunk(ctx context.Context, stepExecution *model.StepExecution, chunk *Chunk[I]) (model.ChunkStatus, error) {
	for !chunk.IsFull() {
		item, err := s.reader.Read(ctx)
		if err != nil {
			if errors.Is(err, port.ErrNoMoreItems) || errors.Is(err, io.EOF) {
				return model.ChunkFinished, nil
			}

			stepExecution.ReadErrorCount++
			stepExecution.AddFailureException(err)
			if !s.skipPolicy.WithinLimit(stepExecution.TotalErrorCount()) {
				return model.ChunkError, exception.NewReaderError("item read failed and skip limit exceeded", err)
			}

			logger.Warnf("ChunkStep '%s': item read failed, skipping (errors: %d/%d): %v",
				s.name, stepExecution.TotalErrorCount(), s.skipPolicy.SkipLimit(), err)
			s.notifySkipRead(ctx, err)
			continue
		}

		stepExecution.ReadCount++
		s.metricRecorder.RecordItemRead(ctx, s.name)
		chunk.Add(item)
	}
	return model.ChunkFull, nil
}

// processChunk transforms the buffered items one by one. A process error
// increments ProcessErrorCount, is checked against the skip limit and, when
// tolerated, drops that single item from the output batch.
func (s *ChunkStep[I, O]) processChunk(ctx context.Context, stepExecution *model.StepExecution, chunk *Chunk[I]) ([]O, error) {
	outputs := make([]O, 0, chunk.Size())
	for _, input := range chunk.Items() {
		output, err := s.processItem(ctx, input)
		if err != nil {
			stepExecution.ProcessErrorCount++
			stepExecution.AddFailureException(err)
			if !s.skipPolicy.WithinLimit(stepExecution.TotalErrorCount()) {
				return nil, exception.NewProcessorError("item processing failed and skip limit exceeded", err)
			}

			logger.Warnf("ChunkStep '%s': item processing failed, dropping item (errors: %d/%d): %v",
				s.name, stepExecution.TotalErrorCount(), s.skipPolicy.SkipLimit(), err)
			s.notifySkipProcess(ctx, input, err)
			continue
		}

		s.metricRecorder.RecordItemProcess(ctx, s.name)
		outputs = append(outputs, output)
	}
	return outputs, nil
}

// processItem applies the processor, or passes the item through unchanged
// when no processor is configured.
func (s *ChunkStep[I, O]) processItem(ctx context.Context, input I) (O, error) {
	if s.processor != nil {
		return s.processor.Process(ctx, input)
	}
	output, ok := any(input).(O)
	if !ok {
		return output, exception.NewProcessorError("no processor configured and item type does not match output type", nil)
	}
	return output, nil
}

// writeChunk persists the output batch via Write followed by Flush. A failure
// of either counts the whole batch against the skip limit; a tolerated
// failure drops the batch, a trip aborts the step.
func (s *ChunkStep[I, O]) writeChunk(ctx context.Context, stepExecution *model.StepExecution, outputs []O) error {
	if len(outputs) == 0 {
		return nil
	}

	err := s.writer.Write(ctx, outputs)
	if err == nil {
		err = s.writer.Flush(ctx)
	}
	if err != nil {
		stepExecution.WriteErrorCount += len(outputs)
		stepExecution.AddFailureException(err)
		if !s.skipPolicy.WithinLimit(stepExecution.TotalErrorCount()) {
			return exception.NewWriterError("batch write failed and skip limit exceeded", err)
		}

		logger.Warnf("ChunkStep '%s': batch write failed, skipping %d items (errors: %d/%d): %v",
			s.name, len(outputs), stepExecution.TotalErrorCount(), s.skipPolicy.SkipLimit(), err)
		s.notifySkipWrite(ctx, outputs, err)
		return nil
	}

	stepExecution.WriteCount += len(outputs)
	s.metricRecorder.RecordItemWrite(ctx, s.name, len(outputs))
	return nil
}
