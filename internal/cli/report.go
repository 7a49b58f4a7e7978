package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/roommates/internal/ir"
	"github.com/roach88/roommates/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
	BatchID  string // optional - report one batch
	Instance string // optional - list runs of one instance id
}

// BatchReport summarizes one recorded batch.
type BatchReport struct {
	ir.Batch
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

// InstanceReport lists every recorded run of one instance.
type InstanceReport struct {
	InstanceID string   `json:"instance_id"`
	Runs       []ir.Run `json:"runs"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize batches recorded in a run log",
		Long: `Read a run log written by "srp batch --db" and print the outcome tally
of every batch, or of one batch with --batch. With --instance, list every
recorded run of one instance id across batches.

Examples:
  srp report --db runs.db
  srp report --db runs.db --batch 0192f0c4-...
  srp report --db runs.db --instance 9f86d0... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.BatchID, "batch", "", "report only this batch")
	cmd.Flags().StringVar(&opts.Instance, "instance", "", "list runs of this instance id")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Open would create an empty run log; a missing one is a user error.
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.Instance != "" {
		return reportInstance(ctx, st, opts.Instance, formatter)
	}

	var batches []ir.Batch
	if opts.BatchID != "" {
		b, err := st.ReadBatch(ctx, opts.BatchID)
		if errors.Is(err, sql.ErrNoRows) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("batch not found: %s", opts.BatchID), nil)
			return WrapExitError(ExitCommandError, "batch not found", err)
		}
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read batch", err)
		}
		batches = []ir.Batch{b}
	} else {
		batches, err = st.ReadBatches(ctx)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read batches", err)
		}
	}

	reports := make([]BatchReport, 0, len(batches))
	for _, b := range batches {
		counts, err := st.Tally(ctx, b.ID)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to tally batch", err)
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		reports = append(reports, BatchReport{Batch: b, Total: total, Counts: counts})
	}

	if formatter.JSON() {
		return formatter.Success(reports)
	}

	if len(reports) == 0 {
		fmt.Fprintf(formatter.Writer, "No batches recorded in %s\n", opts.Database)
		return nil
	}
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "Batch %s (%s, size %d", r.ID, r.Source, r.Size)
		if r.Source == "random" {
			fmt.Fprintf(formatter.Writer, ", seed %d", r.Seed)
		}
		fmt.Fprintf(formatter.Writer, ", solver %s)\n", r.SolverVersion)
		writeCounts(formatter, r.Counts, r.Total)
	}
	return nil
}

func reportInstance(ctx context.Context, st *store.Store, instanceID string, formatter *OutputFormatter) error {
	runs, err := st.ReadRunsByInstance(ctx, instanceID)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}
	if runs == nil {
		runs = []ir.Run{}
	}

	if formatter.JSON() {
		return formatter.Success(InstanceReport{InstanceID: instanceID, Runs: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintf(formatter.Writer, "No runs found for instance: %s\n", instanceID)
		return nil
	}
	for _, r := range runs {
		outcome := r.Outcome
		if r.Reason != "" {
			outcome += " " + r.Reason
		}
		fmt.Fprintf(formatter.Writer, "%s #%d: %s rotations=%d\n", r.BatchID, r.Seq, outcome, r.Rotations)
	}
	return nil
}
