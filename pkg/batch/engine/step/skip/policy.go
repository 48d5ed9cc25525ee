package skip

import (
	"github.com/tigerroll/riptide/pkg/batch/support/util/exception"
)

// Policy is an interface that defines the fault tolerance of a chunk-oriented
// step. The step sums its read, process and write error counters and consults
// the policy after every increment; the first total that exceeds the limit
// trips the step into an error status.
type Policy interface {
	// SkipLimit returns the maximum number of item-level errors tolerated
	// across all phases. 0 means the first error trips the step.
	SkipLimit() int
	// WithinLimit reports whether the given cumulative error total is still
	// tolerated. The boundary is inclusive: a total equal to the limit is
	// within it, a total of limit+1 is not.
	WithinLimit(totalErrors int) bool
}

// limitPolicy is the default Policy implementation, a pure threshold over the
// combined error total. It holds no counters of its own; the StepExecution is
// the single source of truth for error counts.
type limitPolicy struct {
	skipLimit int
}

// NewLimitPolicy creates a Policy that tolerates up to skipLimit item-level
// errors. skipLimit must be non-negative.
func NewLimitPolicy(skipLimit int) (Policy, error) {
	if skipLimit < 0 {
		return nil, exception.NewBatchErrorf("skip", "skip limit must be non-negative, got %d", skipLimit)
	}
	return &limitPolicy{skipLimit: skipLimit}, nil
}

// SkipLimit returns the configured limit.
func (p *limitPolicy) SkipLimit() int {
	return p.skipLimit
}

// WithinLimit reports whether totalErrors is still tolerated.
func (p *limitPolicy) WithinLimit(totalErrors int) bool {
	return totalErrors <= p.skipLimit
}

// Verify interfaces
var _ Policy = (*limitPolicy)(nil)
