// Command beacon is the outreach roster CLI: it resolves new field
// observations against the shared roster, reconciles field conflicts, and
// manages urgency scores and photos.
package main
