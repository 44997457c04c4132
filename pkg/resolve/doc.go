// Package resolve repairs diagram layouts through a bounded iterative
// loop: scan for conflicts, fix exactly one by shifting its owning group
// right, rescan.
//
// # State machine
//
// A run moves Scanning → (Converged | Fixing) → Scanning → … and always
// terminates in one of three states:
//
//   - Converged: a scan found zero conflicts.
//   - Stuck: conflicts remain but no flagged party maps to a group.
//   - Exhausted: the iteration cap (default 10) was reached.
//
// Stuck and Exhausted are reported outcomes, not errors - the caller's
// quality gate decides whether an unresolved layout is acceptable.
//
// # Priority and determinism
//
// Fixes follow strict category priority (text overlaps, arrow crossings,
// arrows through text) and, within a category, detection order. Only one
// group shift happens per iteration, which bounds oscillation and keeps
// every fix attributable to one conflict. Because detection order follows
// declaration order, a run over the same input is fully reproducible.
//
// The always-shift-first-party, always-shift-right heuristic is carried
// over from the tool's established behavior; it has no termination proof,
// which is exactly why the iteration cap exists.
package resolve
