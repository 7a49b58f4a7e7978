package generate

import (
	"encoding/json"
	"fmt"
	"iter"
	"math/big"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/roach88/roommates/internal/ir"
)

// IDs returns the participant ids "1".."n".
func IDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}
	return ids
}

// baseLists returns, for every id, the other ids in ascending order.
func baseLists(ids []string) [][]string {
	lists := make([][]string, len(ids))
	for i, id := range ids {
		for _, other := range ids {
			if other != id {
				lists[i] = append(lists[i], other)
			}
		}
	}
	return lists
}

// Count returns the number of instances Exhaustive(n) yields: ((n-1)!)^n.
func Count(n int) *big.Int {
	if n < 1 {
		return big.NewInt(0)
	}
	fact := new(big.Int).MulRange(1, int64(n-1))
	return new(big.Int).Exp(fact, big.NewInt(int64(n)), nil)
}

// Exhaustive yields every instance with n participants: the cartesian product
// of all permutations of every participant's list. The first participant's
// list varies slowest; permutations come in lexicographic order.
//
// The yielded instance is freshly allocated and may be retained.
func Exhaustive(n int) iter.Seq[ir.Instance] {
	return func(yield func(ir.Instance) bool) {
		if n < 1 {
			return
		}
		ids := IDs(n)
		lists := baseLists(ids)
		current := make([][]string, n)

		var product func(i int) bool
		product = func(i int) bool {
			if i == n {
				return yield(build(ids, current))
			}
			for perm := range Permutations(lists[i]) {
				current[i] = perm
				if !product(i + 1) {
					return false
				}
			}
			return true
		}
		product(0)
	}
}

// Random yields an endless stream of uniformly random instances with n
// participants. The same seed always yields the same stream.
func Random(n int, seed uint64) iter.Seq[ir.Instance] {
	return func(yield func(ir.Instance) bool) {
		if n < 1 {
			return
		}
		r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		ids := IDs(n)
		lists := baseLists(ids)
		for {
			current := make([][]string, n)
			for i, list := range lists {
				perm := append([]string(nil), list...)
				r.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
				current[i] = perm
			}
			if !yield(build(ids, current)) {
				return
			}
		}
	}
}

// Limit stops a sequence after n items. n <= 0 means no limit.
func Limit[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	if n <= 0 {
		return seq
	}
	return func(yield func(T) bool) {
		count := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}

// Permutations yields every ordering of items in lexicographic order of
// positions. Each yielded slice is a fresh copy.
func Permutations(items []string) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		idx := make([]int, len(items))
		for i := range idx {
			idx[i] = i
		}
		for {
			perm := make([]string, len(items))
			for i, j := range idx {
				perm[i] = items[j]
			}
			if !yield(perm) {
				return
			}
			if !nextPermutation(idx) {
				return
			}
		}
	}
}

// nextPermutation advances idx to the next lexicographic permutation.
// Returns false once idx is the last one.
func nextPermutation(idx []int) bool {
	i := len(idx) - 2
	for i >= 0 && idx[i] >= idx[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(idx) - 1
	for idx[j] <= idx[i] {
		j--
	}
	idx[i], idx[j] = idx[j], idx[i]
	for l, r := i+1, len(idx)-1; l < r; l, r = l+1, r-1 {
		idx[l], idx[r] = idx[r], idx[l]
	}
	return true
}

func build(ids []string, lists [][]string) ir.Instance {
	prefs := make(map[string][]string, len(ids))
	for i, id := range ids {
		prefs[id] = lists[i]
	}
	return ir.NewInstance(ids, prefs)
}

// WriteFiles writes each instance as "<k>.test.json" (k from 1) into dir,
// creating it if needed. Returns the number of files written.
func WriteFiles(dir string, instances iter.Seq[ir.Instance]) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	written := 0
	for inst := range instances {
		data, err := json.MarshalIndent(inst, "", "  ")
		if err != nil {
			return written, fmt.Errorf("encode instance %d: %w", written+1, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%d.test.json", written+1))
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written++
	}
	return written, nil
}
