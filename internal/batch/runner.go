package batch

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/roach88/roommates/internal/ir"
	"github.com/roach88/roommates/internal/roommates"
)

// Recorder persists batches and runs. *store.Store implements it.
type Recorder interface {
	WriteBatch(ctx context.Context, b ir.Batch) error
	WriteRun(ctx context.Context, r ir.Run) error
}

// Source describes where a batch's instances come from. It is recorded with
// the batch.
type Source struct {
	Name string // "exhaustive", "random" or "files"
	Size int    // participants per instance, 0 if mixed
	Seed uint64 // random seed, 0 otherwise
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder records the batch and every run.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithSource sets the source recorded with the batch.
func WithSource(src Source) Option {
	return func(r *Runner) {
		r.source = src
	}
}

// WithVerify checks every successful matching for stability.
func WithVerify() Option {
	return func(r *Runner) {
		r.verify = true
	}
}

// WithIDGenerator sets the batch id generator (default: UUIDv7Generator).
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Runner) {
		r.ids = gen
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// WithProgress logs progress at Info level every n instances. Zero disables it.
func WithProgress(n int) Option {
	return func(r *Runner) {
		r.progress = n
	}
}

// Runner solves instances one after another and tallies the outcomes.
type Runner struct {
	recorder Recorder
	source   Source
	verify   bool
	ids      IDGenerator
	log      *slog.Logger
	progress int
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		ids: UUIDv7Generator{},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run solves up to limit instances from seq (all of them if limit <= 0) and
// returns the tally.
//
// Returns the partial tally and ctx.Err() if ctx is cancelled between
// instances. A malformed instance or a recorder failure stops the batch with
// an error; algorithmic failures are counted, not returned.
func (r *Runner) Run(ctx context.Context, instances iter.Seq[ir.Instance], limit int) (*Tally, error) {
	batchID := r.ids.Generate()
	tally := newTally(batchID)
	log := r.log.With("batch", batchID)

	if r.recorder != nil {
		b := ir.Batch{
			ID:            batchID,
			Source:        r.source.Name,
			Size:          r.source.Size,
			Seed:          r.source.Seed,
			SolverVersion: ir.SolverVersion,
			FormatVersion: ir.FormatVersion,
		}
		if err := r.recorder.WriteBatch(ctx, b); err != nil {
			return tally, fmt.Errorf("record batch: %w", err)
		}
	}

	log.Debug("batch started", "source", r.source.Name, "size", r.source.Size, "limit", limit)

	var seq int64
	for inst := range instances {
		if limit > 0 && tally.Total >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			log.Info("batch cancelled", "solved", tally.Total)
			return tally, err
		}
		seq++

		res, err := roommates.Solve(inst, roommates.WithLogger(r.log))
		if err != nil {
			return tally, fmt.Errorf("instance %d: %w", seq, err)
		}
		tally.add(res)

		if r.verify && res.Stable() && !roommates.IsStable(inst, res.Matching) {
			log.Warn("unstable matching", "seq", seq, "blocking", roommates.BlockingPairs(inst, res.Matching))
			tally.Unstable = append(tally.Unstable, seq)
		}

		if r.recorder != nil {
			if err := r.record(ctx, batchID, seq, inst, res); err != nil {
				return tally, err
			}
		}

		if r.progress > 0 && tally.Total%r.progress == 0 {
			log.Info("batch progress", "solved", tally.Total, "success", tally.Success)
		}
	}

	log.Debug("batch finished", "solved", tally.Total, "success", tally.Success, "failed", tally.Failed())
	return tally, nil
}

func (r *Runner) record(ctx context.Context, batchID string, seq int64, inst ir.Instance, res *roommates.Result) error {
	id, err := ir.InstanceID(inst)
	if err != nil {
		return fmt.Errorf("instance %d: %w", seq, err)
	}

	run := ir.Run{
		BatchID:    batchID,
		Seq:        seq,
		InstanceID: id,
		Instance:   inst,
		Outcome:    ir.OutcomeSuccess,
		Matching:   res.Matching,
		Rotations:  res.Rotations,
	}
	if !res.Stable() {
		run.Outcome = ir.OutcomeFailure
		run.Reason = string(res.Reason)
	}

	if err := r.recorder.WriteRun(ctx, run); err != nil {
		return fmt.Errorf("record run %d: %w", seq, err)
	}
	return nil
}
