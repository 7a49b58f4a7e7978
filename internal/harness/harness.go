package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/roach88/roommates/internal/ir"
	"github.com/roach88/roommates/internal/roommates"
)

// Harness runs one scenario. It records a snapshot of the preference table
// at every solver checkpoint.
type Harness struct {
	result    *Result
	rotations int
	logger    *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Build the preference table (malformed instances stop here)
//  2. Snapshot the initial table
//  3. Solve with tracing, snapshotting each checkpoint
//  4. Compare the outcome with the scenario's expectations
//  5. Evaluate assertions
//
// The returned error is non-nil only for internal solver faults; a
// mismatch is reported through Result.Pass and Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	h := &Harness{
		result: NewResult(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	if err := h.solve(scenario.Preferences); err != nil {
		return nil, err
	}

	checkExpect(h.result, scenario.Expect)

	for _, errMsg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(errMsg)
	}

	return h.result, nil
}

func (h *Harness) solve(inst ir.Instance) error {
	store, err := roommates.NewStore(inst)
	if err != nil {
		var inputErr *roommates.InputError
		if errors.As(err, &inputErr) {
			h.result.Outcome = OutcomeMalformed
			h.result.Reason = string(inputErr.Code)
			return nil
		}
		return fmt.Errorf("failed to build store: %w", err)
	}

	h.snapshot("initial", store)

	solver := roommates.NewSolver(store,
		roommates.WithTrace(),
		roommates.WithCheckpoint(h.observe),
		roommates.WithLogger(h.logger),
	)
	res, err := solver.Run()
	if err != nil {
		return fmt.Errorf("solver failed: %w", err)
	}

	h.result.Rotations = res.Rotations
	if res.Trace != nil {
		h.result.Trace = res.Trace
	}
	if res.Stable() {
		h.result.Outcome = OutcomeSuccess
		h.result.Pairs = pairsInOrder(inst, res.Matching)
	} else {
		h.result.Outcome = OutcomeFailure
		h.result.Reason = string(res.Reason)
	}
	return nil
}

func (h *Harness) observe(cp roommates.Checkpoint, s *roommates.Store) {
	name := string(cp)
	if cp == roommates.CheckpointRotation {
		h.rotations++
		name = fmt.Sprintf("rotation %d", h.rotations)
	}
	h.snapshot(name, s)
}

func (h *Harness) snapshot(name string, s *roommates.Store) {
	lists := make(map[string][]string, s.Len())
	for _, id := range s.IDs() {
		lists[id] = s.Remaining(id)
	}
	h.result.Snapshots = append(h.result.Snapshots, Snapshot{
		Checkpoint: name,
		Table:      roommates.FormatTable(s),
		Lists:      lists,
	})
}

// pairsInOrder lists each couple once, led by whichever partner comes first
// in instance order.
func pairsInOrder(inst ir.Instance, matching map[string]string) []roommates.Pair {
	seen := make(map[string]bool, len(matching))
	var pairs []roommates.Pair
	for _, id := range inst.Participants {
		if seen[id] {
			continue
		}
		partner := matching[id]
		seen[id], seen[partner] = true, true
		pairs = append(pairs, roommates.Pair{A: id, B: partner})
	}
	return pairs
}

// checkExpect compares the outcome with the expectation.
func checkExpect(result *Result, expect Expect) {
	if result.Outcome != expect.Outcome {
		result.AddError(fmt.Sprintf("outcome mismatch: expected %s, got %s", expect.Outcome, describe(result)))
		return
	}
	if result.Reason != expect.Reason {
		result.AddError(fmt.Sprintf("reason mismatch: expected %q, got %q", expect.Reason, result.Reason))
	}

	if len(expect.Matching) > 0 {
		matching := result.Matching()
		ids := make([]string, 0, len(expect.Matching))
		for id := range expect.Matching {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			want := expect.Matching[id]
			if got := matching[id]; got != want {
				result.AddError(fmt.Sprintf("matching mismatch for %s: expected %q, got %q", id, want, got))
			}
		}
	}

	if expect.Rotations != nil && result.Rotations != *expect.Rotations {
		result.AddError(fmt.Sprintf("rotations mismatch: expected %d, got %d", *expect.Rotations, result.Rotations))
	}
}

func describe(r *Result) string {
	if r.Reason == "" {
		return r.Outcome
	}
	return fmt.Sprintf("%s (%s)", r.Outcome, r.Reason)
}
