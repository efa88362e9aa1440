// Package configs manages sealcrate configuration files.
//
// Two TOML documents exist:
//
//   - config.toml under the OS config directory: the user's UUID and
//     the vaults they have provisioned
//   - vault.toml inside each vault directory: session metadata (UUID,
//     subject label, certificate thumbprint, key length, creation time)
//
// Settings are initialized at package load; tests override
// UserSealcrateSettings to point at temporary directories.
package configs
