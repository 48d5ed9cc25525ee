// Package port defines the core interfaces (ports) for the batch engine.
// These interfaces abstract the engine's collaborators — item readers,
// processors, writers and tasklets — allowing any concrete data source or
// sink to participate in a step without contributing orchestration logic.
package port

import (
	"context"
	"errors"

	model "github.com/tigerroll/riptide/pkg/batch/core/domain/model"
)

// ErrNoMoreItems is the sentinel a reader returns when no further items
// remain. Once returned, every subsequent Read call must return it again
// (idempotent exhaustion — no item resurrection). io.EOF is honored as an
// equivalent signal.
var ErrNoMoreItems = errors.New("no more items to read")

// ItemReader is the interface for a data reading collaborator.
// O is the type of item produced.
type ItemReader[O any] interface {
	// Read reads the next item. It returns ErrNoMoreItems (or io.EOF) once the
	// source is exhausted, and must keep doing so on every subsequent call.
	// Any other error marks the attempted item as failed; the engine counts it
	// against the step's skip limit.
	Read(ctx context.Context) (O, error)
}

// ItemProcessor is the interface for an item transforming collaborator.
// I is the input item type, O the output item type. The engine treats Process
// as a pure, non-retried transformation: a failure drops that single item
// from the output batch.
type ItemProcessor[I, O any] interface {
	Process(ctx context.Context, item I) (O, error)
}

// ItemWriter is the interface for a data writing collaborator.
// I is the type of item persisted.
//
// Open and Close are lifecycle hooks called exactly once each, around the
// whole step, independent of per-chunk outcomes; their failures are logged
// but never abort the step. Write and Flush form the per-chunk persistence
// sequence; a failure of either counts the whole batch against the skip limit.
type ItemWriter[I any] interface {
	Open(ctx context.Context) error
	Write(ctx context.Context, items []I) error
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

// Tasklet is the interface for a single-shot unit of work wrapped by a
// tasklet-oriented step. A tasklet owns its own looping and retry behavior;
// the engine invokes Execute once and maps any failure to a step failure.
type Tasklet interface {
	// Execute runs the tasklet's business logic against the given
	// StepExecution and reports ChunkFinished (or ChunkContinuable for a
	// tasklet that chose to yield early) on success.
	Execute(ctx context.Context, stepExecution *model.StepExecution) (model.ChunkStatus, error)
}

// Step is the interface for a single step executed within a job.
// It is implemented by the chunk-oriented and tasklet-oriented variants.
type Step interface {
	// Execute runs the step against the given StepExecution. The step has
	// exclusive ownership of the StepExecution for the duration of the call
	// and must leave it in a terminal status with end time and duration set.
	Execute(ctx context.Context, stepExecution *model.StepExecution) error
	// StepName returns the logical name of the step.
	StepName() string
	// ID returns the unique ID of the step definition.
	ID() string
}

// StepExecutionListener is an interface for observing step execution events.
type StepExecutionListener interface {
	// BeforeStep is called just before a step execution starts.
	BeforeStep(ctx context.Context, stepExecution *model.StepExecution)
	// AfterStep is called after a step execution completes, regardless of outcome.
	AfterStep(ctx context.Context, stepExecution *model.StepExecution)
}

// JobExecutionListener is an interface for observing job execution events.
type JobExecutionListener interface {
	// BeforeJob is called just before the first step starts.
	BeforeJob(ctx context.Context, jobName string)
	// AfterJob is called after the job finishes, regardless of outcome.
	AfterJob(ctx context.Context, jobName string, err error)
}

// SkipListener is an interface for observing item skip events. The engine
// notifies it after every tolerated (non-tripping) item-level error.
type SkipListener interface {
	// OnSkipRead is called after a read error is counted and tolerated.
	OnSkipRead(ctx context.Context, err error)
	// OnSkipProcess is called after a process error drops an item.
	OnSkipProcess(ctx context.Context, item interface{}, err error)
	// OnSkipWrite is called after a write error skips a whole batch.
	OnSkipWrite(ctx context.Context, items interface{}, err error)
}
