// Package services defines the shared failure taxonomy and context plumbing
// used at collaborator boundaries. Expected failures are wrapped with one of
// the exported sentinel markers and translated into a transport-friendly
// {code, userMessage, retryable} shape before they reach a caller; only
// invariant violations propagate untagged.
package services
