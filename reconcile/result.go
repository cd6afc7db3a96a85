package reconcile

import (
	"time"

	"cosmossdk.io/math"
	"github.com/tessellated-io/feeband-go/feeband"
)

// Outcome of a single reconciliation run.
type Outcome string

const (
	// Updated means a new fee band was written (or would have been, in dry run).
	Updated Outcome = "updated"
	// NoOpNeeded means the stored band already matches the derived one.
	NoOpNeeded Outcome = "noop"
	// TransientFailure means the run was aborted. The next run starts from scratch.
	TransientFailure Outcome = "failure"
)

// Result describes one run. Previous, Derived and BaseFee are only set once they are known.
type Result struct {
	Outcome Outcome
	Err     error
	DryRun  bool

	BaseFee  math.LegacyDec
	Previous *feeband.GasPriceStep
	Derived  *feeband.GasPriceStep

	Duration time.Duration
}

func (r *Result) Succeeded() bool {
	return r.Outcome != TransientFailure
}
