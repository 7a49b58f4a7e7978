package harness

import (
	"github.com/roach88/roommates/internal/roommates"
)

// Snapshot is the preference table at one checkpoint.
type Snapshot struct {
	// Checkpoint is "initial", "phase1", "phase1b", "rotation N" or "phase2".
	Checkpoint string `json:"checkpoint"`

	// Table is the rendered table (see roommates.WriteTable).
	Table string `json:"table"`

	// Lists holds every participant's remaining entries in preference order.
	Lists map[string][]string `json:"lists"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if the outcome matches and every assertion holds.
	Pass bool `json:"pass"`

	// Outcome is "success", "failure" or "malformed".
	Outcome string `json:"outcome"`

	// Reason is the failure reason or the input error code.
	Reason string `json:"reason,omitempty"`

	// Pairs is the matching, one pair per couple, in instance order.
	Pairs []roommates.Pair `json:"pairs,omitempty"`

	// Rotations is the number of rotations eliminated.
	Rotations int `json:"rotations"`

	// Trace contains every solver event in order.
	Trace []roommates.Event `json:"trace"`

	// Snapshots holds the table at each checkpoint, in order.
	Snapshots []Snapshot `json:"snapshots"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Trace:     []roommates.Event{},
		Snapshots: []Snapshot{},
		Errors:    []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Snapshot returns the last snapshot taken at checkpoint.
func (r *Result) Snapshot(checkpoint string) (Snapshot, bool) {
	for i := len(r.Snapshots) - 1; i >= 0; i-- {
		if r.Snapshots[i].Checkpoint == checkpoint {
			return r.Snapshots[i], true
		}
	}
	return Snapshot{}, false
}

// Matching returns the pairs as a symmetric partner map.
func (r *Result) Matching() map[string]string {
	if len(r.Pairs) == 0 {
		return nil
	}
	m := make(map[string]string, 2*len(r.Pairs))
	for _, p := range r.Pairs {
		m[p.A] = p.B
		m[p.B] = p.A
	}
	return m
}
