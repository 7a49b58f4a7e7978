package roommates

import (
	"github.com/roach88/roommates/internal/ir"
)

// Pair is an unordered couple of participants.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// BlockingPairs returns every pair (x, y), not matched to each other, where
// both x and y prefer each other to their assigned partners. Each pair is
// reported once, with A earlier than B in instance order.
//
// The matching must be total over the instance; a participant missing from
// the matching is treated as unmatched and prefers anyone it ranks.
func BlockingPairs(inst ir.Instance, matching map[string]string) []Pair {
	pos := make(map[string]map[string]int, len(inst.Participants))
	for _, id := range inst.Participants {
		ranks := make(map[string]int, len(inst.Preferences[id]))
		for i, other := range inst.Preferences[id] {
			ranks[other] = i
		}
		pos[id] = ranks
	}

	// prefers reports whether x ranks y above its partner.
	prefers := func(x, y string) bool {
		partner, ok := matching[x]
		if !ok {
			return true
		}
		py, oky := pos[x][y]
		pp, okp := pos[x][partner]
		return oky && (!okp || py < pp)
	}

	order := make(map[string]int, len(inst.Participants))
	for i, id := range inst.Participants {
		order[id] = i
	}

	var blocking []Pair
	for _, x := range inst.Participants {
		for _, y := range inst.Preferences[x] {
			if order[y] <= order[x] || matching[x] == y {
				continue
			}
			if prefers(x, y) && prefers(y, x) {
				blocking = append(blocking, Pair{A: x, B: y})
			}
		}
	}
	return blocking
}

// IsStable reports whether the matching is symmetric, covers every
// participant and admits no blocking pair.
func IsStable(inst ir.Instance, matching map[string]string) bool {
	if len(matching) != len(inst.Participants) {
		return false
	}
	for _, id := range inst.Participants {
		partner, ok := matching[id]
		if !ok || partner == id || matching[partner] != id {
			return false
		}
	}
	return len(BlockingPairs(inst, matching)) == 0
}
