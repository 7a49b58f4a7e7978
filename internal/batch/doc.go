// Package batch solves streams of instances and tallies their outcomes.
//
// A Runner pulls instances from an iter.Seq (typically one of the
// internal/generate sources), solves each with a fresh roommates.Solver and
// counts successes and per-reason failures. Optionally it verifies every
// matching with roommates.IsStable and records each run through a Recorder
// (internal/store implements it).
//
// Runs are strictly sequential. Cancellation is checked between instances;
// a solve in progress always completes.
package batch
