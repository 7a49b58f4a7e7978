package ir

// NOTE: These are run-log records, not part of the canonical instance form.
// Ordering uses seq (logical position in the batch), never timestamps.

// Outcome values recorded for a run.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Batch describes one batch of solved instances.
type Batch struct {
	ID            string `json:"id"`     // UUIDv7
	Source        string `json:"source"` // "exhaustive", "random" or "files"
	Size          int    `json:"size"`   // participants per instance, 0 if mixed
	Seed          uint64 `json:"seed"`   // random source seed, 0 otherwise
	SolverVersion string `json:"solver_version"`
	FormatVersion string `json:"format_version"`
}

// Run is the recorded outcome of solving one instance.
type Run struct {
	BatchID    string            `json:"batch_id"`
	Seq        int64             `json:"seq"`         // position within the batch, from 1
	InstanceID string            `json:"instance_id"` // content-addressed, see InstanceID
	Instance   Instance          `json:"instance"`
	Outcome    string            `json:"outcome"`          // OutcomeSuccess or OutcomeFailure
	Reason     string            `json:"reason,omitempty"` // failure reason
	Matching   map[string]string `json:"matching,omitempty"`
	Rotations  int               `json:"rotations"`
}
