package primary

import "context"

// SweepService defines the primary port for the overdue reassignment
// sweep, a periodic single-pass batch job.
type SweepService interface {
	// Run executes one sweep pass: skipped entirely outside office
	// hours, otherwise every overdue unprocessed task is either
	// reassigned to a not-yet-tried user or marked final overdue with
	// an administrator notification. A failure on one task never aborts
	// the others.
	Run(ctx context.Context) (*SweepResult, error)
}

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	// Checked is the number of candidate tasks examined.
	Checked int
	// Reassigned is the number of tasks moved to a new user.
	Reassigned int
	// Exhausted is the number of tasks marked final overdue.
	Exhausted int
	// Skipped is true when the whole pass was skipped (office closed).
	Skipped bool
}
