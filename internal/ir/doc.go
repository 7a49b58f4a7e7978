// Package ir defines the instance representation shared by every layer of the
// roommates module: the ordered preference profile handed to the solver, plus
// the canonical JSON and content hashes used to identify instances and
// matchings in the run log.
//
// ir imports nothing internal. The solver, generators, loaders, store and CLI
// all build on it.
//
// Key design constraints:
//   - Participant order is part of the instance. Every phase of the solver
//     iterates in this order, so two instances with the same preferences but
//     a different order are distinct (and hash differently).
//   - Canonical JSON follows RFC 8785: sorted keys by UTF-16 code units, NFC
//     normalized strings, no HTML escaping, no floats, no null.
package ir
