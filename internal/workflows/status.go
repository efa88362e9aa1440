package workflows

import (
	"context"
	"os"

	"github.com/oakmoss-dev/sealcrate/internal/configs"
	"github.com/oakmoss-dev/sealcrate/internal/vault"
)

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// VaultPath is an explicit vault root; empty means search upward
	// from the working directory.
	VaultPath string
}

// ArtifactStatus describes one vault artifact.
type ArtifactStatus struct {
	Name    string
	Present bool
	Size    int64
}

// StatusResult contains the vault's current artifact inventory.
type StatusResult struct {
	// VaultRoot is the directory containing the vault, empty when no
	// vault was found.
	VaultRoot string

	// Initialized indicates a vault directory exists.
	Initialized bool

	// Session is the vault's metadata, nil when vault.toml is absent.
	Session *configs.Session

	// Artifacts lists the known artifact names in a stable order.
	Artifacts []ArtifactStatus
}

// statusArtifacts is the inventory Status reports on, in display order.
var statusArtifacts = []string{
	vault.PassphraseFile,
	vault.ContainerFile,
	vault.ContainerFile + vault.TextSuffix,
	vault.PublicKeyFile,
	vault.PayloadFile,
	vault.WrapFile,
	vault.WrapFile + vault.TextSuffix,
}

// Status reports which artifacts exist in the vault and the session
// metadata, without touching any key material.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	v, err := resolveVault(opts.VaultPath, false)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		VaultRoot:   v.Root,
		Initialized: v.Exists(),
	}
	if !result.Initialized {
		return result, nil
	}

	result.Session = loadSession(v)

	for _, name := range statusArtifacts {
		st := ArtifactStatus{Name: name}
		if info, err := os.Stat(v.Path(name)); err == nil && !info.IsDir() {
			st.Present = true
			st.Size = info.Size()
		}
		result.Artifacts = append(result.Artifacts, st)
	}

	return result, nil
}
