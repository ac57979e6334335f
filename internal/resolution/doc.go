// Package resolution runs the identity resolution pass: normalize an
// observation, score it against roster candidates, classify the confidence
// tier, and drive the merge or create decision through its collaborators.
// The engine is synchronous and holds no state between passes; all I/O goes
// through the collaborator interfaces so failures can be translated at the
// boundary instead of leaking upward.
package resolution
