// Package errors defines sentinel errors for sealcrate operations.
//
// Errors are organized by category: cryptographic failures, vault state
// issues, and input problems. Workflows wrap these sentinels with
// contextual detail using fmt.Errorf and %w, so callers can both match
// with errors.Is and see which artifact or step failed.
//
// # Usage
//
// Wrap sentinels when returning errors:
//
//	return fmt.Errorf("%w: reading %s: %v", kerrors.ErrArtifactNotFound, name, err)
//
// Check for specific errors:
//
//	if errors.Is(err, kerrors.ErrPrivateKeyUnavailable) {
//	    // wrong passphrase or corrupted container
//	}
package errors
