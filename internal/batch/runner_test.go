package batch

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roommates/internal/generate"
	"github.com/roach88/roommates/internal/ir"
	"github.com/roach88/roommates/internal/roommates"
	"github.com/roach88/roommates/internal/testutil"
)

// memRecorder is an in-memory Recorder.
type memRecorder struct {
	batches []ir.Batch
	runs    []ir.Run
	failRun int64 // seq at which WriteRun fails, 0 for never
}

func (m *memRecorder) WriteBatch(_ context.Context, b ir.Batch) error {
	m.batches = append(m.batches, b)
	return nil
}

func (m *memRecorder) WriteRun(_ context.Context, r ir.Run) error {
	if r.Seq == m.failRun {
		return errors.New("disk full")
	}
	m.runs = append(m.runs, r)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seqOf(instances ...ir.Instance) iter.Seq[ir.Instance] {
	return func(yield func(ir.Instance) bool) {
		for _, inst := range instances {
			if !yield(inst) {
				return
			}
		}
	}
}

func TestRunner_ExhaustiveFour(t *testing.T) {
	r := NewRunner(
		WithVerify(),
		WithIDGenerator(NewFixedGenerator("batch-1")),
		WithLogger(quietLogger()),
	)

	tally, err := r.Run(context.Background(), generate.Exhaustive(4), 0)
	require.NoError(t, err)

	assert.Equal(t, "batch-1", tally.BatchID)
	assert.Equal(t, 1296, tally.Total)
	assert.Equal(t, 1248, tally.Success)
	assert.Equal(t, 48, tally.Failed())
	assert.Equal(t, 48, tally.Failures[roommates.ReasonPhase1Unresolved])
	assert.Empty(t, tally.Unstable)
}

func TestRunner_RandomVerified(t *testing.T) {
	for _, n := range []int{6, 8, 10} {
		r := NewRunner(WithVerify(), WithLogger(quietLogger()))

		tally, err := r.Run(context.Background(), generate.Random(n, 7), 200)
		require.NoError(t, err)

		assert.Equal(t, 200, tally.Total, "n=%d", n)
		assert.Empty(t, tally.Unstable, "n=%d", n)
		assert.Equal(t, tally.Total, tally.Success+tally.Failed())
	}
}

func TestRunner_Limit(t *testing.T) {
	r := NewRunner(WithLogger(quietLogger()))

	tally, err := r.Run(context.Background(), generate.Random(4, 1), 25)
	require.NoError(t, err)
	assert.Equal(t, 25, tally.Total)
}

func TestRunner_RecordsRuns(t *testing.T) {
	rec := &memRecorder{}
	r := NewRunner(
		WithRecorder(rec),
		WithSource(Source{Name: "files", Size: 0}),
		WithIDGenerator(NewFixedGenerator("batch-1")),
		WithLogger(quietLogger()),
	)

	_, err := r.Run(context.Background(), seqOf(testutil.Pair(), testutil.Unsolvable()), 0)
	require.NoError(t, err)

	require.Len(t, rec.batches, 1)
	assert.Equal(t, ir.Batch{
		ID:            "batch-1",
		Source:        "files",
		SolverVersion: ir.SolverVersion,
		FormatVersion: ir.FormatVersion,
	}, rec.batches[0])

	require.Len(t, rec.runs, 2)

	first := rec.runs[0]
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, ir.OutcomeSuccess, first.Outcome)
	assert.Empty(t, first.Reason)
	assert.Equal(t, map[string]string{"A": "B", "B": "A"}, first.Matching)

	wantID, err := ir.InstanceID(testutil.Pair())
	require.NoError(t, err)
	assert.Equal(t, wantID, first.InstanceID)

	second := rec.runs[1]
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, ir.OutcomeFailure, second.Outcome)
	assert.Equal(t, string(roommates.ReasonPhase1Unresolved), second.Reason)
	assert.Nil(t, second.Matching)
}

func TestRunner_RecorderFailureStops(t *testing.T) {
	rec := &memRecorder{failRun: 2}
	r := NewRunner(WithRecorder(rec), WithLogger(quietLogger()))

	tally, err := r.Run(context.Background(), generate.Random(4, 3), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record run 2")
	assert.Equal(t, 2, tally.Total)
	assert.Len(t, rec.runs, 1)
}

func TestRunner_MalformedInstanceStops(t *testing.T) {
	bad := ir.NewInstance([]string{"A"}, map[string][]string{"A": {}})
	r := NewRunner(WithLogger(quietLogger()))

	tally, err := r.Run(context.Background(), seqOf(testutil.Pair(), bad, testutil.Pair()), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, roommates.ErrInputMalformed)
	assert.Contains(t, err.Error(), "instance 2")
	assert.Equal(t, 1, tally.Total)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(WithLogger(quietLogger()))
	tally, err := r.Run(ctx, generate.Random(4, 1), 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, tally.Total)
}

func TestRunner_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	instances := func(yield func(ir.Instance) bool) {
		for i := 0; ; i++ {
			if i == 3 {
				cancel()
			}
			if !yield(testutil.Pair()) {
				return
			}
		}
	}

	r := NewRunner(WithLogger(quietLogger()))
	tally, err := r.Run(ctx, instances, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, tally.Total)
}

func TestTally_Counts(t *testing.T) {
	tally := newTally("b")
	tally.Success = 3
	tally.Total = 5
	tally.Failures[roommates.ReasonPhase2CycleBroken] = 2
	tally.Failures[roommates.ReasonPhase1Unresolved] = 0

	assert.Equal(t, map[string]int{
		"success":             3,
		"PHASE2_CYCLE_BROKEN": 2,
	}, tally.Counts())
}

func TestSortedKeys(t *testing.T) {
	counts := map[string]int{
		"zeta":                   1,
		"PHASE2_INCOMPLETE":      1,
		"success":                1,
		"PHASE1_UNRESOLVED":      1,
		"alpha":                  1,
		"PHASE1_REDUCTION_EMPTY": 1,
	}
	assert.Equal(t, []string{
		"success",
		"PHASE1_UNRESOLVED",
		"PHASE1_REDUCTION_EMPTY",
		"PHASE2_INCOMPLETE",
		"alpha",
		"zeta",
	}, SortedKeys(counts))
}
