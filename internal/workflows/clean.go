package workflows

import (
	"context"
	"fmt"

	"github.com/oakmoss-dev/sealcrate/internal/audit"
	"github.com/oakmoss-dev/sealcrate/internal/configs"
	"github.com/oakmoss-dev/sealcrate/internal/vault"
)

// CleanOptions configures the clean workflow.
type CleanOptions struct {
	// VaultPath is an explicit vault root; empty means search upward
	// from the working directory.
	VaultPath string

	// All removes the identity artifacts too, ending the session. The
	// default removes only the sealed payload artifacts.
	All bool
}

// CleanResult contains the outcome of a clean operation.
type CleanResult struct {
	// VaultRoot is the directory containing the vault.
	VaultRoot string

	// RemovedArtifacts lists what was deleted.
	RemovedArtifacts []string

	// All indicates identity artifacts were included.
	All bool
}

// Clean removes sealed payload artifacts from the vault; with All it
// also removes the identity. The passphrase and container are always
// removed together so the vault never holds a container that nothing
// can open, or a passphrase pointing at nothing.
func Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	v, err := resolveVault(opts.VaultPath, true)
	if err != nil {
		return nil, err
	}

	names := []string{
		vault.PayloadFile,
		vault.WrapFile,
		vault.WrapFile + vault.TextSuffix,
	}
	if opts.All {
		names = append(names,
			vault.PassphraseFile,
			vault.ContainerFile,
			vault.ContainerFile+vault.TextSuffix,
			vault.PublicKeyFile,
			vault.MetadataFile,
		)
	}

	var removed []string
	for _, name := range names {
		if !v.Has(name) {
			continue
		}
		if _, err := v.Remove(name); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}

	audit.Append(v.Dir(), audit.Entry{
		User:      configs.UserSealcrateSettings.Username,
		Operation: "clean",
		Artifacts: removed,
	})

	return &CleanResult{
		VaultRoot:        v.Root,
		RemovedArtifacts: removed,
		All:              opts.All,
	}, nil
}
