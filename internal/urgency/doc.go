// Package urgency derives a 0-100 priority score from an individual's
// interaction history. The score is a pure fold over the ordered encounters:
// recent and danger-flagged encounters weigh more than old or mild ones. A
// manual override masks the computed value while set but never freezes it;
// clearing the override reveals the live computed score.
package urgency
