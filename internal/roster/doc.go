// Package roster persists individuals and their interaction histories in
// SQLite. It is the system of record for identity fields, photos, and
// urgency scores: every create or merge runs in one transaction that also
// appends the interaction and refreshes the stored base urgency score.
package roster
