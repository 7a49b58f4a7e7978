package testutil

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/roach88/roommates/internal/ir"
)

// Parse builds an instance from rows of the form "A: B C D", keeping row order.
func Parse(rows ...string) ir.Instance {
	var order []string
	prefs := make(map[string][]string, len(rows))
	for _, row := range rows {
		id, rest, _ := strings.Cut(row, ":")
		id = strings.TrimSpace(id)
		order = append(order, id)
		prefs[id] = strings.Fields(rest)
	}
	return ir.NewInstance(order, prefs)
}

// Pair is the smallest solvable instance.
func Pair() ir.Instance {
	return Parse("A: B", "B: A")
}

// Irving is the six-participant example from Irving (1985). Its stable
// matching {1-6, 2-3, 4-5} is found after one rotation.
func Irving() ir.Instance {
	return Parse(
		"1: 4 6 2 5 3",
		"2: 6 3 5 1 4",
		"3: 4 5 1 6 2",
		"4: 2 6 5 1 3",
		"5: 4 2 3 6 1",
		"6: 5 1 4 2 3",
	)
}

// Driver is solvable with one rotation: {A-F, B-E, C-D}.
func Driver() ir.Instance {
	return Parse(
		"A: B D F C E",
		"B: D E F A C",
		"C: D E F A B",
		"D: F C A E B",
		"E: F C D B A",
		"F: A B D C E",
	)
}

// Unsolvable has A, B and C in a preference cycle and D ranked last by all
// three, so D holds no offer after phase 1.
func Unsolvable() ir.Instance {
	return Parse(
		"A: B C D",
		"B: C A D",
		"C: A B D",
		"D: A B C",
	)
}

// BrokenRotation has no stable matching; phase 1 and 1b succeed and phase 2
// runs out of entries while eliminating a rotation.
func BrokenRotation() ir.Instance {
	return Parse(
		"A: D C E F B",
		"B: E F C A D",
		"C: E B D F A",
		"D: E A C F B",
		"E: A F D C B",
		"F: C B E A D",
	)
}

// Odd has three participants and is rejected before solving.
func Odd() ir.Instance {
	return Parse("A: B C", "B: C A", "C: A B")
}

// Random draws a uniformly random instance with ids "1".."n".
func Random(r *rand.Rand, n int) ir.Instance {
	order := make([]string, n)
	for i := range order {
		order[i] = strconv.Itoa(i + 1)
	}
	prefs := make(map[string][]string, n)
	for _, id := range order {
		var others []string
		for _, other := range order {
			if other != id {
				others = append(others, other)
			}
		}
		r.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
		prefs[id] = others
	}
	return ir.NewInstance(order, prefs)
}
