// Package merge builds per-field comparisons between a new observation and an
// existing individual's record, applies deterministic default selections, and
// collapses the (possibly user-adjusted) selections into one final field map.
// The same defaulting runs for auto-merge and manual review; only whether a
// human gets to adjust the selections differs.
package merge
