// Package checkout turns a structural diff between two tree snapshots
// into a plan of filesystem actions and applies that plan to a working
// directory.
//
// The package implements three layers:
//
//   - Classification of one diff entry into exactly one action
//     (remove, update content, or update metadata only)
//   - The Plan, an immutable aggregate of the three action lists built
//     once over a whole diff
//   - The Executor, which applies a plan with bounded concurrency,
//     fail-fast error propagation, and atomic progress counters that
//     are returned only on full success
//
// Content bytes are resolved through the store package; filesystem
// mutation goes through the vfs package. The engine owns neither.
package checkout
