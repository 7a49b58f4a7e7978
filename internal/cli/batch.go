package cli

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/roommates/internal/batch"
	"github.com/roach88/roommates/internal/ir"
	"github.com/roach88/roommates/internal/roommates"
	"github.com/roach88/roommates/internal/store"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	SourceFlags
	Database string
	Verify   bool
	Progress int

	// IDGenerator allows overriding the batch id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator batch.IDGenerator
}

// BatchResult is the JSON output of the batch command.
type BatchResult struct {
	BatchID   string         `json:"batch_id"`
	Source    string         `json:"source"`
	Size      int            `json:"size"`
	Seed      uint64         `json:"seed,omitempty"`
	Total     int            `json:"total"`
	Counts    map[string]int `json:"counts"`
	Rotations int            `json:"rotations"`
	Unstable  []int64        `json:"unstable,omitempty"`
	Database  string         `json:"database,omitempty"`
	Cancelled bool           `json:"cancelled,omitempty"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	return newBatchCommand(&BatchOptions{RootOptions: rootOpts})
}

func newBatchCommand(opts *BatchOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [path]",
		Short: "Solve many instances and tally the outcomes",
		Long: `Solve a stream of instances and tally how many have a stable matching,
grouped by failure reason.

Instances come from the given file or directory, or, without a path, from
the generator (--size, --random, --count, --seed). With --db every run is
recorded in a SQLite run log that "srp report" reads back. With --verify
every matching is checked for blocking pairs.

Exit codes:
  0 - Batch completed
  1 - A matching failed verification, or the batch was interrupted
  2 - Command error

Examples:
  srp batch --size 4 --verify
  srp batch --size 8 --random --count 10000 --seed 1 --db runs.db
  srp batch ./instances --db runs.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args, cmd)
		},
	}

	opts.SourceFlags.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (optional)")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "check every matching for blocking pairs")
	cmd.Flags().IntVar(&opts.Progress, "progress", 0, "log progress every n instances (0 disables)")

	return cmd
}

func runBatch(opts *BatchOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var (
		instances iter.Seq[ir.Instance]
		src       batch.Source
		err       error
	)
	if len(args) == 1 {
		instances, src, err = fileSource(args[0])
		if err != nil {
			return reportLoadError(formatter, err)
		}
	} else {
		instances, src, err = opts.instances(cmd)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid generator flags", err)
		}
	}

	runnerOpts := []batch.Option{
		batch.WithSource(src),
		batch.WithProgress(opts.Progress),
		batch.WithLogger(slog.Default()),
	}
	if opts.Verify {
		runnerOpts = append(runnerOpts, batch.WithVerify())
	}
	if opts.IDGenerator != nil {
		runnerOpts = append(runnerOpts, batch.WithIDGenerator(opts.IDGenerator))
	}

	if opts.Database != "" {
		slog.Debug("opening run log", "path", opts.Database)
		st, err := store.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		runnerOpts = append(runnerOpts, batch.WithRecorder(st))
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping batch", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// Limit is already applied by the source.
	tally, runErr := batch.NewRunner(runnerOpts...).Run(ctx, instances, 0)
	cancelled := errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded)
	if runErr != nil && !cancelled {
		code := ErrCodeDatabase
		if roommates.IsInputError(runErr) {
			code = ErrCodeInvalid
		}
		_ = formatter.Error(code, runErr.Error(), map[string]int{"solved": tally.Total})
		return WrapExitError(ExitCommandError, "batch failed", runErr)
	}

	result := BatchResult{
		BatchID:   tally.BatchID,
		Source:    src.Name,
		Size:      src.Size,
		Seed:      src.Seed,
		Total:     tally.Total,
		Counts:    tally.Counts(),
		Rotations: tally.Rotations,
		Unstable:  tally.Unstable,
		Database:  opts.Database,
		Cancelled: cancelled,
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		writeBatchText(formatter, result)
	}

	switch {
	case cancelled:
		return WrapExitError(ExitFailure, "batch interrupted", runErr)
	case len(tally.Unstable) > 0:
		return NewExitError(ExitFailure, fmt.Sprintf("%d matching(s) failed verification", len(tally.Unstable)))
	}
	return nil
}

// fileSource loads every instance under path up front. Size is 0 unless all
// instances have the same number of participants.
func fileSource(path string) (iter.Seq[ir.Instance], batch.Source, error) {
	loadResult, loadErrors := LoadInstances(path, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return nil, batch.Source{}, loadErrors[0]
	}

	size := -1
	for _, f := range loadResult.Files {
		n := len(f.Instance.Participants)
		switch {
		case size == -1:
			size = n
		case size != n:
			size = 0
		}
	}

	instances := func(yield func(ir.Instance) bool) {
		for _, f := range loadResult.Files {
			if !yield(f.Instance) {
				return
			}
		}
	}
	return instances, batch.Source{Name: "files", Size: max(size, 0)}, nil
}

func writeBatchText(f *OutputFormatter, r BatchResult) {
	w := f.Writer

	desc := fmt.Sprintf("%s, size %d", r.Source, r.Size)
	if r.Source == "random" {
		desc += fmt.Sprintf(", seed %d", r.Seed)
	}
	fmt.Fprintf(w, "Batch %s (%s)\n", r.BatchID, desc)

	writeCounts(f, r.Counts, r.Total)
	fmt.Fprintf(w, "Rotations eliminated: %d\n", r.Rotations)

	if r.Database != "" {
		fmt.Fprintf(w, "Recorded in %s\n", r.Database)
	}
	if len(r.Unstable) > 0 {
		fmt.Fprintf(w, "%s %d matching(s) failed verification: %v\n", f.Paint(redAttr, "✗"), len(r.Unstable), r.Unstable)
	}
	if r.Cancelled {
		fmt.Fprintln(w, f.Paint(redAttr, "Interrupted; tally is partial"))
	}
}

// writeCounts prints one aligned line per outcome and a total.
func writeCounts(f *OutputFormatter, counts map[string]int, total int) {
	width := len("total")
	for k := range counts {
		width = max(width, len(k))
	}
	for _, k := range batch.SortedKeys(counts) {
		label := fmt.Sprintf("%-*s", width, k)
		if k == ir.OutcomeSuccess {
			label = f.Paint(greenAttr, label)
		}
		fmt.Fprintf(f.Writer, "  %s  %d\n", label, counts[k])
	}
	fmt.Fprintf(f.Writer, "  %-*s  %d\n", width, "total", total)
}
