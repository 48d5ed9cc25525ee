// Package exception provides the error types used by the Riptide batch engine.
// Item-level errors from readers, processors and writers are wrapped into
// BatchError values tagged with the failing phase; step-level failures are
// surfaced to callers as StepFailureError values naming the failed step.
package exception

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-multierror"
)

// Phase module names used by the engine when wrapping collaborator errors.
const (
	ModuleReader    = "reader"
	ModuleProcessor = "processor"
	ModuleWriter    = "writer"
)

// BatchError is a custom error type for failures raised during batch
// processing. It carries the module where the error occurred, a concise
// message and the wrapped original error.
type BatchError struct {
	// Module indicates where the error occurred (e.g. "reader", "writer", "config").
	Module string
	// Message is a concise description of the error.
	Message string
	// OriginalErr is the wrapped original error.
	OriginalErr error
	// StackTrace is the stack trace captured at creation (for debugging).
	StackTrace string
}

// NewBatchError creates a new BatchError instance.
func NewBatchError(module, message string, originalErr error) *BatchError {
	buf := make([]byte, 2048)
	n := runtime.Stack(buf, false)

	return &BatchError{
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
		StackTrace:  string(buf[:n]),
	}
}

// NewBatchErrorf creates a new BatchError with a formatted message.
func NewBatchErrorf(module, format string, a ...interface{}) *BatchError {
	return NewBatchError(module, fmt.Sprintf(format, a...), nil)
}

// NewReaderError wraps an item read failure.
func NewReaderError(message string, err error) *BatchError {
	return NewBatchError(ModuleReader, message, err)
}

// NewProcessorError wraps an item processing failure.
func NewProcessorError(message string, err error) *BatchError {
	return NewBatchError(ModuleProcessor, message, err)
}

// NewWriterError wraps a batch write failure.
func NewWriterError(message string, err error) *BatchError {
	return NewBatchError(ModuleWriter, message, err)
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap returns the original error for errors.Unwrap.
func (e *BatchError) Unwrap() error {
	return e.OriginalErr
}

// IsBatchError determines if the given error is of type BatchError.
func IsBatchError(err error) bool {
	if err == nil {
		return false
	}
	var be *BatchError
	return errors.As(err, &be)
}

// StepFailureError is raised by a Job when a step execution fails.
// It names the failed step and wraps the error that aborted it.
type StepFailureError struct {
	// StepName is the name of the step that failed.
	StepName string
	// Err is the error that aborted the step.
	Err error
}

// NewStepFailure creates a new StepFailureError for the named step.
func NewStepFailure(stepName string, err error) *StepFailureError {
	return &StepFailureError{StepName: stepName, Err: err}
}

// Error implements the error interface.
func (e *StepFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step '%s' failed: %v", e.StepName, e.Err)
	}
	return fmt.Sprintf("step '%s' failed", e.StepName)
}

// Unwrap returns the wrapped step error.
func (e *StepFailureError) Unwrap() error {
	return e.Err
}

// IsStepFailure reports whether err is (or wraps) a StepFailureError, and
// returns the failed step's name when it is.
func IsStepFailure(err error) (string, bool) {
	var sf *StepFailureError
	if errors.As(err, &sf) {
		return sf.StepName, true
	}
	return "", false
}

// Combine aggregates multiple errors into one, dropping nils.
// It returns nil when every argument is nil.
func Combine(errs ...error) error {
	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// ExtractErrorMessage extracts a concise message string from an error.
// For BatchError it returns the cleaner Message field; otherwise the
// standard Error() string.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *BatchError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
