package cli

import (
	"fmt"
	"iter"
	"log/slog"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/roommates/internal/batch"
	"github.com/roach88/roommates/internal/generate"
	"github.com/roach88/roommates/internal/ir"
)

// maxExhaustive is the largest exhaustive enumeration run without --count.
var maxExhaustive = big.NewInt(1_000_000)

// SourceFlags selects generated instances, shared by generate and batch.
type SourceFlags struct {
	Size   int
	Random bool
	Count  int
	Seed   uint64
}

func (f *SourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.Size, "size", 4, "participants per instance (even, at least 2)")
	cmd.Flags().BoolVar(&f.Random, "random", false, "generate random instances instead of enumerating all of them")
	cmd.Flags().IntVar(&f.Count, "count", 0, "number of instances (required with --random)")
	cmd.Flags().Uint64Var(&f.Seed, "seed", 0, "random seed (default: derived from the clock)")
}

// instances returns the instance stream and its batch source description.
// The stream is already limited to Count.
func (f *SourceFlags) instances(cmd *cobra.Command) (iter.Seq[ir.Instance], batch.Source, error) {
	if f.Size < 2 || f.Size%2 != 0 {
		return nil, batch.Source{}, fmt.Errorf("--size must be an even number of at least 2, got %d", f.Size)
	}
	if f.Count < 0 {
		return nil, batch.Source{}, fmt.Errorf("--count must not be negative, got %d", f.Count)
	}

	if f.Random {
		if f.Count == 0 {
			return nil, batch.Source{}, fmt.Errorf("--random needs --count")
		}
		if !cmd.Flags().Changed("seed") {
			f.Seed = uint64(time.Now().UnixNano())
			slog.Info("using clock seed", "seed", f.Seed)
		}
		src := batch.Source{Name: "random", Size: f.Size, Seed: f.Seed}
		return generate.Limit(generate.Random(f.Size, f.Seed), f.Count), src, nil
	}

	total := generate.Count(f.Size)
	if f.Count == 0 && total.Cmp(maxExhaustive) > 0 {
		return nil, batch.Source{}, fmt.Errorf("exhaustive enumeration of size %d yields %s instances; pass --count to take a prefix", f.Size, total)
	}
	src := batch.Source{Name: "exhaustive", Size: f.Size}
	return generate.Limit(generate.Exhaustive(f.Size), f.Count), src, nil
}
