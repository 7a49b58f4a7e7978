// Package roommates decides the stable roommates problem with Irving's
// algorithm.
//
// Given an even number of participants, each ranking every other participant,
// Solve either returns a stable matching (a pairing in which no two
// participants both prefer each other to their partners) or reports the check
// at which the instance was shown to have none.
//
// ARCHITECTURE:
//
// All phases operate on one caller-owned Store, the preference table:
//
//  1. Proposal (phase 1): participants propose down their lists; a
//     participant holding an offer keeps the best one and rejects the rest.
//     Every rejection removes the pair from both lists.
//  2. Reduction (phase 1b): each participant drops everyone ranked below the
//     offer it holds, and everyone who holds an offer they prefer to it.
//  3. Rotation elimination (phase 2): while some list has more than one
//     entry, find a rotation (a_i, b_i) and eliminate it as one unit.
//
// A stable matching exists iff every list ends with exactly one entry.
//
// Removal is always mutual and never reorders surviving entries, so the
// total number of entries strictly decreases with every rotation and phase 2
// terminates.
//
// The solver is single-threaded and deterministic: participants are always
// scanned in instance order, and traced events are stamped by a logical
// Clock, never wall time.
package roommates
