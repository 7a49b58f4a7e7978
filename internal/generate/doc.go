// Package generate produces stable roommates instances for batch runs:
// every instance of a given size (Exhaustive) or an endless seeded stream of
// uniformly random ones (Random).
//
// Participants are named "1".."n" and appear in that order.
package generate
