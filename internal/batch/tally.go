package batch

import (
	"slices"
	"strings"

	"github.com/roach88/roommates/internal/ir"
	"github.com/roach88/roommates/internal/roommates"
)

// Tally summarizes one batch.
type Tally struct {
	BatchID string `json:"batch_id"`

	// Total is the number of instances solved.
	Total int `json:"total"`

	// Success counts instances with a stable matching.
	Success int `json:"success"`

	// Failures counts failed instances by reason.
	Failures map[roommates.Reason]int `json:"failures"`

	// Rotations is the number of rotations eliminated over all instances.
	Rotations int `json:"rotations"`

	// Unstable lists the seq of every successful run whose matching failed
	// verification. Always empty unless verification is enabled.
	Unstable []int64 `json:"unstable,omitempty"`
}

func newTally(batchID string) *Tally {
	return &Tally{
		BatchID:  batchID,
		Failures: make(map[roommates.Reason]int),
	}
}

func (t *Tally) add(res *roommates.Result) {
	t.Total++
	t.Rotations += res.Rotations
	if res.Stable() {
		t.Success++
		return
	}
	t.Failures[res.Reason]++
}

// Failed returns the number of instances without a stable matching.
func (t *Tally) Failed() int {
	return t.Total - t.Success
}

// Counts returns the tally keyed the way the run log keys it: "success" for
// successes and the reason string for each failure kind.
func (t *Tally) Counts() map[string]int {
	counts := map[string]int{}
	if t.Success > 0 {
		counts[ir.OutcomeSuccess] = t.Success
	}
	for reason, n := range t.Failures {
		if n > 0 {
			counts[string(reason)] = n
		}
	}
	return counts
}

// SortedKeys returns count keys with "success" first and failure reasons in
// phase order. Unknown keys sort last, alphabetically.
func SortedKeys(counts map[string]int) []string {
	rank := map[string]int{ir.OutcomeSuccess: 0}
	for i, r := range roommates.Reasons {
		rank[string(r)] = i + 1
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ra, oka := rank[a]
		rb, okb := rank[b]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}
