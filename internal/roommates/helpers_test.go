package roommates

import (
	"github.com/roach88/roommates/internal/ir"
)

// stableMatchings enumerates every stable matching by brute force.
func stableMatchings(inst ir.Instance) []map[string]string {
	var out []map[string]string
	var walk func(rest []string, m map[string]string)
	walk = func(rest []string, m map[string]string) {
		if len(rest) == 0 {
			if IsStable(inst, m) {
				cp := make(map[string]string, len(m))
				for k, v := range m {
					cp[k] = v
				}
				out = append(out, cp)
			}
			return
		}
		a := rest[0]
		for i := 1; i < len(rest); i++ {
			b := rest[i]
			next := make([]string, 0, len(rest)-2)
			next = append(next, rest[1:i]...)
			next = append(next, rest[i+1:]...)
			m[a], m[b] = b, a
			walk(next, m)
			delete(m, a)
			delete(m, b)
		}
	}
	walk(inst.Participants, map[string]string{})
	return out
}
