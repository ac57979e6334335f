// Package match scores a normalized observation against candidate individuals
// and classifies the best candidate into a response tier. Scoring is a pure
// weighted combination of per-field agreement signals normalized to 0-100;
// fields unknown on either side are excluded entirely so incomplete
// observations are never penalized. Tier thresholds live on Policy so they can
// be tuned and tested without touching the scoring code.
package match
