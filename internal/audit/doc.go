// Package audit writes an append-only jsonl trail of vault operations.
//
// Entries record who did what to which artifacts and when. The trail
// lives inside the vault directory, one JSON object per line, and is
// best-effort: a failed append never fails the operation that produced
// it. Callers pass the vault directory explicitly; there is no ambient
// log destination.
package audit
