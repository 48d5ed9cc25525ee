package model

import (
	"fmt"
	"time"

	"github.com/tigerroll/riptide/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"

	"github.com/google/uuid"
)

// StepStatus represents the state of a step execution.
type StepStatus string

const (
	// StepStatusStarting is the initial status assigned when a StepExecution is created.
	StepStatusStarting StepStatus = "STARTING"
	// StepStatusStarted is the status while the step's loop is running.
	StepStatusStarted StepStatus = "STARTED"
	// StepStatusSuccess is the terminal status of a step that exhausted its reader
	// and wrote every surviving item.
	StepStatusSuccess StepStatus = "SUCCESS"
	// StepStatusReadError is the terminal status of a step aborted by a skip-limit
	// trip during the read phase.
	StepStatusReadError StepStatus = "READ_ERROR"
	// StepStatusProcessorError is the terminal status of a step aborted by a
	// skip-limit trip during the process phase.
	StepStatusProcessorError StepStatus = "PROCESSOR_ERROR"
	// StepStatusWriteError is the terminal status of a step aborted by a
	// skip-limit trip during the write phase.
	StepStatusWriteError StepStatus = "WRITE_ERROR"
	// StepStatusFailed is the terminal status of a step whose failure is not
	// attributable to one of the three chunk phases (e.g. a tasklet failure).
	StepStatusFailed StepStatus = "FAILED"
)

// String returns the string representation of the StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// IsTerminal checks whether the StepStatus represents a finished state.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusSuccess, StepStatusReadError, StepStatusProcessorError, StepStatusWriteError, StepStatusFailed:
		return true
	default:
		return false
	}
}

// IsError checks whether the StepStatus represents a failed terminal state.
func (s StepStatus) IsError() bool {
	switch s {
	case StepStatusReadError, StepStatusProcessorError, StepStatusWriteError, StepStatusFailed:
		return true
	default:
		return false
	}
}

// ChunkStatus tags the transient state of the chunk buffer inside the
// chunk-oriented loop. It only drives loop control and is never persisted.
type ChunkStatus string

const (
	// ChunkContinuable means the buffer has room and the reader is not exhausted.
	ChunkContinuable ChunkStatus = "CONTINUABLE"
	// ChunkFull means the buffer reached the configured chunk size.
	ChunkFull ChunkStatus = "FULL"
	// ChunkFinished means the reader signalled end of data.
	ChunkFinished ChunkStatus = "FINISHED"
	// ChunkError means the current chunk was aborted by a skip-limit trip.
	ChunkError ChunkStatus = "ERROR"
)

// String returns the string representation of the ChunkStatus.
func (s ChunkStatus) String() string {
	return string(s)
}

// FailureList holds a list of error messages accumulated on an execution.
type FailureList []string

// JobInstance is a structure representing the logical identity of a job.
type JobInstance struct {
	ID         string
	JobName    string
	CreateTime time.Time
}

// NewJobInstance creates a new instance of JobInstance.
func NewJobInstance(jobName string) *JobInstance {
	return &JobInstance{
		ID:         NewID(),
		JobName:    jobName,
		CreateTime: time.Now(),
	}
}

// JobExecution is a lightweight result value describing one successful run of
// a Job: overall start, end and duration.
type JobExecution struct {
	JobName   string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// StepExecution is the mutable record of a single step run: identity,
// per-phase counters, status and timing. It is exclusively owned and mutated
// by the executing step; the Job only ever stores completed snapshots.
type StepExecution struct {
	ID                string
	StepName          string
	Status            StepStatus
	StartTime         time.Time
	EndTime           *time.Time
	Duration          time.Duration
	ReadCount         int
	WriteCount        int
	ReadErrorCount    int
	ProcessErrorCount int
	WriteErrorCount   int
	Failures          FailureList
	LastUpdated       time.Time
}

// NewStepExecution creates a new StepExecution in the STARTING state.
func NewStepExecution(stepName string) *StepExecution {
	now := time.Now()
	return &StepExecution{
		ID:          NewID(),
		StepName:    stepName,
		Status:      StepStatusStarting,
		StartTime:   now,
		Failures:    make(FailureList, 0),
		LastUpdated: now,
	}
}

// isValidStepTransition checks if the state transition for StepExecution is valid.
func isValidStepTransition(current, next StepStatus) bool {
	switch current {
	case StepStatusStarting:
		return next == StepStatusStarted || next.IsError()
	case StepStatusStarted:
		return next.IsTerminal()
	default:
		// Terminal states admit no further transitions.
		return false
	}
}

// TransitionTo safely transitions the state of the StepExecution.
func (se *StepExecution) TransitionTo(newStatus StepStatus) error {
	if !isValidStepTransition(se.Status, newStatus) {
		return fmt.Errorf("StepExecution (ID: %s): invalid state transition: %s -> %s", se.ID, se.Status, newStatus)
	}
	se.Status = newStatus
	se.LastUpdated = time.Now()
	return nil
}

// MarkAsStarted updates the StepExecution status to STARTED.
func (se *StepExecution) MarkAsStarted() {
	if err := se.TransitionTo(StepStatusStarted); err != nil {
		logger.Warnf("Could not update StepExecution (ID: %s) status to STARTED: %v", se.ID, err)
		se.Status = StepStatusStarted
	}
}

// MarkAsSucceeded updates the StepExecution status to SUCCESS and stamps the
// end time and duration.
func (se *StepExecution) MarkAsSucceeded() {
	if err := se.TransitionTo(StepStatusSuccess); err != nil {
		logger.Warnf("Could not update StepExecution (ID: %s) status to SUCCESS: %v", se.ID, err)
		se.Status = StepStatusSuccess
	}
	se.stampEnd()
}

// MarkAsFailed writes the given terminal error status, records the failure and
// stamps the end time and duration.
func (se *StepExecution) MarkAsFailed(status StepStatus, err error) {
	if !status.IsError() {
		logger.Warnf("StepExecution (ID: %s): MarkAsFailed called with non-error status %s; using FAILED.", se.ID, status)
		status = StepStatusFailed
	}
	if terr := se.TransitionTo(status); terr != nil {
		logger.Warnf("Could not update StepExecution (ID: %s) status to %s: %v", se.ID, status, terr)
		se.Status = status
	}
	se.stampEnd()
	se.AddFailureException(err)
}

// stampEnd records the end time and duration. Called once per run, from the
// MarkAs* terminal helpers.
func (se *StepExecution) stampEnd() {
	now := time.Now()
	se.EndTime = &now
	se.Duration = now.Sub(se.StartTime)
	se.LastUpdated = now
}

// AddFailureException adds error information to the StepExecution,
// skipping duplicates.
func (se *StepExecution) AddFailureException(err error) {
	if err == nil {
		return
	}
	errMsg := exception.ExtractErrorMessage(err)

	for _, existing := range se.Failures {
		if existing == errMsg {
			logger.Debugf("Skipped adding duplicate error '%s' to StepExecution (ID: %s).", errMsg, se.ID)
			return
		}
	}

	se.Failures = append(se.Failures, errMsg)
	se.LastUpdated = time.Now()
}

// TotalErrorCount returns the sum of the three per-phase error counters.
// The skip policy evaluates this sum after every increment.
func (se *StepExecution) TotalErrorCount() int {
	return se.ReadErrorCount + se.ProcessErrorCount + se.WriteErrorCount
}

// Snapshot returns a read-only copy of the StepExecution for storage in the
// Job's lookup map. The copy shares no mutable state with the original.
func (se *StepExecution) Snapshot() *StepExecution {
	copied := *se
	if se.EndTime != nil {
		end := *se.EndTime
		copied.EndTime = &end
	}
	copied.Failures = make(FailureList, len(se.Failures))
	copy(copied.Failures, se.Failures)
	return &copied
}

// DebugString returns a compact debug representation of the StepExecution.
func (se *StepExecution) DebugString() string {
	endTimeStr := "nil"
	if se.EndTime != nil {
		endTimeStr = se.EndTime.Format(time.RFC3339Nano)
	}
	return fmt.Sprintf(
		"&{ID:%s StepName:%s Status:%s StartTime:%s EndTime:%s ReadCount:%d WriteCount:%d ReadErrorCount:%d ProcessErrorCount:%d WriteErrorCount:%d Failures:%v}",
		se.ID, se.StepName, se.Status, se.StartTime.Format(time.RFC3339Nano), endTimeStr,
		se.ReadCount, se.WriteCount, se.ReadErrorCount, se.ProcessErrorCount, se.WriteErrorCount, se.Failures,
	)
}

// NewID generates a new UUID string.
func NewID() string {
	return uuid.New().String()
}
