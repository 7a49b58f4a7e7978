package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/roommates/internal/ir"
	"github.com/roach88/roommates/internal/roommates"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Trace  bool // print every solver event
	Tables bool // print the table at every checkpoint
}

// SolveOutput is the result of solving one instance file.
type SolveOutput struct {
	File         string            `json:"file"`
	InstanceID   string            `json:"instance_id"`
	Outcome      string            `json:"outcome"`
	Reason       string            `json:"reason,omitempty"`
	Matching     map[string]string `json:"matching,omitempty"`
	MatchingHash string            `json:"matching_hash,omitempty"`
	Rotations    int               `json:"rotations"`
	Trace        []roommates.Event `json:"trace,omitempty"`

	pairs  []roommates.Pair
	tables []checkpointTable
}

type checkpointTable struct {
	name  string
	table string
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve <path>...",
		Short: "Solve instance files",
		Long: `Solve one or more stable roommates instances.

Each path is an instance file (.json, .yaml, .yml or .cue) or a directory of
them. For every instance srp prints the initial table, the outcome and the
final table. "No stable matching" is a normal outcome, not an error.

Exit codes:
  0 - Every instance was solved (with or without a stable matching)
  2 - Command error (unreadable or malformed instance)

Examples:
  srp solve instance.json
  srp solve ./instances --tables
  srp solve instance.yaml --trace --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print every solver event")
	cmd.Flags().BoolVar(&opts.Tables, "tables", false, "print the table after every phase and rotation")

	return cmd
}

func runSolve(opts *SolveOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var files []InstanceFile
	for _, path := range paths {
		loadResult, loadErrors := LoadInstances(path, LoadModeFailFast)
		if len(loadErrors) > 0 {
			return reportLoadError(formatter, loadErrors[0])
		}
		files = append(files, loadResult.Files...)
	}

	outputs := make([]SolveOutput, 0, len(files))
	for _, file := range files {
		out, err := solveFile(file, opts)
		if err != nil {
			var inputErr *roommates.InputError
			if errors.As(err, &inputErr) {
				_ = formatter.Error(ErrCodeInvalid, fmt.Sprintf("%s: %v", file.Path, err), map[string]string{
					"file":        file.Path,
					"code":        string(inputErr.Code),
					"participant": inputErr.Participant,
				})
				return WrapExitError(ExitCommandError, "invalid instance "+file.Path, err)
			}
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "solve failed", err)
		}
		outputs = append(outputs, out)

		if !formatter.JSON() {
			writeSolveText(formatter, out, opts, len(files) > 1)
		}
	}

	if formatter.JSON() {
		return formatter.Success(outputs)
	}
	return nil
}

func solveFile(file InstanceFile, opts *SolveOptions) (SolveOutput, error) {
	out := SolveOutput{File: file.Path}

	store, err := roommates.NewStore(file.Instance)
	if err != nil {
		return out, err
	}

	id, err := ir.InstanceID(file.Instance)
	if err != nil {
		return out, fmt.Errorf("instance id: %w", err)
	}
	out.InstanceID = id

	out.tables = append(out.tables, checkpointTable{name: "initial", table: roommates.FormatTable(store)})
	rotation := 0
	observe := func(cp roommates.Checkpoint, s *roommates.Store) {
		name := string(cp)
		if cp == roommates.CheckpointRotation {
			rotation++
			name = fmt.Sprintf("rotation %d", rotation)
		}
		out.tables = append(out.tables, checkpointTable{name: name, table: roommates.FormatTable(s)})
	}

	solverOpts := []roommates.Option{
		roommates.WithCheckpoint(observe),
		roommates.WithLogger(slog.Default().With("file", file.Path)),
	}
	if opts.Trace {
		solverOpts = append(solverOpts, roommates.WithTrace())
	}

	res, err := roommates.NewSolver(store, solverOpts...).Run()
	if err != nil {
		return out, err
	}

	out.Rotations = res.Rotations
	out.Trace = res.Trace
	if !res.Stable() {
		out.Outcome = ir.OutcomeFailure
		out.Reason = string(res.Reason)
		return out, nil
	}

	out.Outcome = ir.OutcomeSuccess
	out.Matching = res.Matching
	out.MatchingHash, err = ir.MatchingHash(res.Matching)
	if err != nil {
		return out, fmt.Errorf("matching hash: %w", err)
	}
	out.pairs = couples(file.Instance, res.Matching)
	return out, nil
}

// couples lists each pair once, in instance order.
func couples(inst ir.Instance, matching map[string]string) []roommates.Pair {
	seen := make(map[string]bool, len(matching))
	var pairs []roommates.Pair
	for _, id := range inst.Participants {
		if seen[id] {
			continue
		}
		seen[id], seen[matching[id]] = true, true
		pairs = append(pairs, roommates.Pair{A: id, B: matching[id]})
	}
	return pairs
}

func writeSolveText(f *OutputFormatter, out SolveOutput, opts *SolveOptions, header bool) {
	w := f.Writer

	if header {
		fmt.Fprintf(w, "== %s ==\n", out.File)
	}
	f.VerboseLog("instance %s", out.InstanceID)

	tables := out.tables
	if !opts.Tables {
		// initial and final only
		tables = []checkpointTable{tables[0]}
		if len(out.tables) > 1 {
			final := out.tables[len(out.tables)-1]
			final.name = "final"
			tables = append(tables, final)
		}
	}

	fmt.Fprintf(w, "%s:\n%s", tables[0].name, tables[0].table)

	if out.Outcome == ir.OutcomeSuccess {
		fmt.Fprintf(w, "%s (%d rotation(s))\n", f.Paint(greenAttr, "stable matching found"), out.Rotations)
		for _, p := range out.pairs {
			fmt.Fprintf(w, "  %s - %s\n", p.A, p.B)
		}
	} else {
		fmt.Fprintf(w, "%s: %s\n", f.Paint(redAttr, "no stable matching"), out.Reason)
	}

	for _, t := range tables[1:] {
		fmt.Fprintf(w, "%s:\n%s", t.name, t.table)
	}

	if opts.Trace {
		fmt.Fprintln(w, "trace:")
		writeTrace(w, out.Trace)
	}
}

func writeTrace(w io.Writer, trace []roommates.Event) {
	for _, ev := range trace {
		fmt.Fprintf(w, "  [%d] %s %s", ev.Seq, ev.Phase, ev.Kind)
		if ev.From != "" || ev.To != "" {
			fmt.Fprintf(w, " %s -> %s", ev.From, ev.To)
		}
		for _, p := range ev.Pairs {
			fmt.Fprintf(w, " (%s,%s)", p.A, p.B)
		}
		fmt.Fprintln(w)
	}
}

// reportLoadError writes a load error and converts it to a command error.
func reportLoadError(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = f.Error(loadErr.Code, loadErr.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load instances", err)
	}
	_ = f.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to load instances", err)
}
