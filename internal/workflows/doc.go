// Package workflows provides high-level orchestration for sealcrate
// commands.
//
// Workflows coordinate the crypto packages (identity, hybrid, codec)
// with the vault, configs, and audit packages to implement complete
// user-facing operations, independent of CLI concerns like flag
// parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Resolving and validating the vault
//   - Performing the core operation in the required order
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Provision: creates a passphrase, key pair, and key container
//   - Seal: encrypts a file or directory into the vault
//   - Unseal: imports the key and decrypts the payload
//   - Status: inventories vault artifacts
//   - Clean: removes artifacts, payload-only or the whole session
//
// Operations against one vault directory must not run concurrently;
// callers serialize externally, one vault per protection session.
package workflows
