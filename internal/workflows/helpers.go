package workflows

import (
	"fmt"
	"os"

	"github.com/oakmoss-dev/sealcrate/internal/configs"
	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"github.com/oakmoss-dev/sealcrate/internal/vault"
)

// resolveVault locates the vault to operate on. An explicit path wins;
// otherwise the search walks up from the working directory. When
// requireExisting is false a missing vault resolves to one rooted at
// the working directory, ready for Init.
func resolveVault(path string, requireExisting bool) (*vault.Vault, error) {
	if path != "" {
		v := vault.At(path)
		if requireExisting && !v.Exists() {
			return nil, fmt.Errorf("%w: no vault at %s", kerrors.ErrVaultNotInitialized, path)
		}
		return v, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	found, err := vault.Find(cwd)
	if err != nil {
		return nil, err
	}
	if found != nil {
		return found, nil
	}
	if requireExisting {
		return nil, kerrors.ErrVaultNotInitialized
	}
	return vault.At(cwd), nil
}

// loadSession loads session metadata if present. Vaults reconstructed
// from bare artifacts may not carry vault.toml; callers treat a nil
// session as unknown provenance, not an error.
func loadSession(v *vault.Vault) *configs.Session {
	if !v.Has(vault.MetadataFile) {
		return nil
	}
	meta, err := configs.LoadVaultMetadata(v.Path(vault.MetadataFile))
	if err != nil {
		return nil
	}
	return &meta.Session
}
