// Package utils provides shared utility functions for sealcrate.
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - FormatByteSize: renders byte counts for status output
//
// # Terminal Utilities
//
//   - ReadPassphrase / ReadPassphraseFromTTY: no-echo passphrase prompts
//   - IsTerminal: checks whether stdin is a terminal
//
// # Memory Hygiene
//
//   - Zero: best-effort zeroing of key material
package utils
