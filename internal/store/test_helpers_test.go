package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/roommates/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestBatch writes a batch with minimal required fields.
func createTestBatch(t *testing.T, s *Store, id string) ir.Batch {
	t.Helper()
	b := ir.Batch{
		ID:            id,
		Source:        "exhaustive",
		Size:          4,
		SolverVersion: ir.SolverVersion,
		FormatVersion: ir.FormatVersion,
	}
	if err := s.WriteBatch(context.Background(), b); err != nil {
		t.Fatalf("WriteBatch() failed: %v", err)
	}
	return b
}

// testInstance is a solvable four-participant instance.
func testInstance() ir.Instance {
	return ir.NewInstance(
		[]string{"A", "B", "C", "D"},
		map[string][]string{
			"A": {"B", "C", "D"},
			"B": {"A", "C", "D"},
			"C": {"D", "A", "B"},
			"D": {"C", "A", "B"},
		},
	)
}

// createTestRun builds a successful run of testInstance.
func createTestRun(t *testing.T, batchID string, seq int64) ir.Run {
	t.Helper()
	inst := testInstance()
	id, err := ir.InstanceID(inst)
	if err != nil {
		t.Fatalf("InstanceID() failed: %v", err)
	}
	return ir.Run{
		BatchID:    batchID,
		Seq:        seq,
		InstanceID: id,
		Instance:   inst,
		Outcome:    ir.OutcomeSuccess,
		Matching:   map[string]string{"A": "B", "B": "A", "C": "D", "D": "C"},
	}
}

// createFailedRun builds a failed run with the given reason.
func createFailedRun(t *testing.T, batchID string, seq int64, reason string) ir.Run {
	t.Helper()
	r := createTestRun(t, batchID, seq)
	r.Outcome = ir.OutcomeFailure
	r.Reason = reason
	r.Matching = nil
	return r
}
