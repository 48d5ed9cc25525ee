// Package step provides the application-specific batch components of the
// numbers example: a range reader, a doubling processor, a logging writer and
// a summary tasklet.
package step

import (
	"context"
	"strconv"

	componentitem "github.com/tigerroll/riptide/pkg/batch/component/item"
	port "github.com/tigerroll/riptide/pkg/batch/core/application/port"
	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
	exception "github.com/tigerroll/riptide/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

// NewRangeReader creates a reader over the integers 1..count.
func NewRangeReader(count int) (port.ItemReader[any], error) {
	if count < 0 {
		return nil, exception.NewBatchErrorf("numbers", "count must be non-negative, got %d", count)
	}
	items := make([]any, count)
	for i := range items {
		items[i] = i + 1
	}
	return componentitem.NewSliceItemReader(items), nil
}

// NewRangeReaderFromProperties creates a range reader from a JSL property bag.
// The "count" property is required.
func NewRangeReaderFromProperties(properties map[string]string) (port.ItemReader[any], error) {
	raw, ok := properties["count"]
	if !ok {
		return nil, exception.NewBatchErrorf("numbers", "rangeReader requires a 'count' property")
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return nil, exception.NewBatchError("numbers", "invalid 'count' property", err)
	}
	return NewRangeReader(count)
}

// NewDoubleProcessor creates a processor that doubles each integer item.
func NewDoubleProcessor() port.ItemProcessor[any, any] {
	return componentitem.ProcessorFunc[any, any](func(ctx context.Context, item any) (any, error) {
		n, ok := item.(int)
		if !ok {
			return nil, exception.NewBatchErrorf("numbers", "expected int item, got %T", item)
		}
		return n * 2, nil
	})
}

// LogWriter is an ItemWriter that logs every flushed batch.
type LogWriter struct {
	staged  [][]any
	batches int
	items   int
}

// NewLogWriter creates a new LogWriter.
func NewLogWriter() *LogWriter {
	return &LogWriter{}
}

// Open does nothing; the log sink needs no setup.
func (w *LogWriter) Open(ctx context.Context) error {
	return nil
}

// Write stages a batch for the next Flush.
func (w *LogWriter) Write(ctx context.Context, items []any) error {
	batch := make([]any, len(items))
	copy(batch, items)
	w.staged = append(w.staged, batch)
	return nil
}

// Flush logs all staged batches.
func (w *LogWriter) Flush(ctx context.Context) error {
	for _, batch := range w.staged {
		w.batches++
		w.items += len(batch)
		logger.Infof("LogWriter: batch %d -> %v", w.batches, batch)
	}
	w.staged = nil
	return nil
}

// Close logs the final totals.
func (w *LogWriter) Close(ctx context.Context) error {
	logger.Infof("LogWriter: wrote %d item(s) in %d batch(es).", w.items, w.batches)
	return nil
}

var _ port.ItemWriter[any] = (*LogWriter)(nil)

// ReportTasklet is a Tasklet that logs a short completion summary.
type ReportTasklet struct{}

// NewReportTasklet creates a new ReportTasklet.
func NewReportTasklet() port.Tasklet {
	return &ReportTasklet{}
}

// Execute logs the summary and finishes immediately.
func (t *ReportTasklet) Execute(ctx context.Context, stepExecution *model.StepExecution) (model.ChunkStatus, error) {
	logger.Infof("ReportTasklet: numbers job finished its chunk work, reporting step is '%s'.", stepExecution.StepName)
	return model.ChunkFinished, nil
}

var _ port.Tasklet = (*ReportTasklet)(nil)
