package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oakmoss-dev/sealcrate/internal/audit"
	"github.com/oakmoss-dev/sealcrate/internal/bundle"
	"github.com/oakmoss-dev/sealcrate/internal/configs"
	"github.com/oakmoss-dev/sealcrate/internal/hybrid"
	"github.com/oakmoss-dev/sealcrate/internal/identity"
	"github.com/oakmoss-dev/sealcrate/internal/vault"
)

// UnsealOptions configures the unseal workflow.
type UnsealOptions struct {
	// VaultPath is an explicit vault root; empty means search upward
	// from the working directory.
	VaultPath string

	// OutputPath receives the plaintext: a file path, or a directory
	// when Extract applies. Empty selects payload.unsealed (or
	// unsealed/) under the vault root.
	OutputPath string

	// Passphrase overrides the persisted passphrase file, for vaults
	// whose passphrase travelled out of band.
	Passphrase string

	// Extract unpacks the plaintext into OutputPath when it is a
	// bundle produced by seal.
	Extract bool
}

// UnsealResult contains the outcome of an unseal operation.
type UnsealResult struct {
	// VaultRoot is the directory containing the vault.
	VaultRoot string

	// OutputPath is where the plaintext landed.
	OutputPath string

	// PlainSize is the recovered plaintext length in bytes.
	PlainSize int64

	// Extracted indicates the plaintext was a bundle and was unpacked.
	Extracted bool
}

// Unseal reverses Seal: it imports the private key from the vault's
// container using the persisted (or supplied) passphrase, unwraps the
// session key from the wrap package, decrypts the payload, and writes
// the plaintext.
//
// Binary artifacts are read directly when present, falling back to
// their Base64 twins so a vault reconstructed from a text-only channel
// unseals identically.
//
// The imported key lives in a scoped handle that is zeroed before the
// function returns, whatever the outcome.
//
// Returns ErrVaultNotInitialized, ErrArtifactNotFound,
// ErrPrivateKeyUnavailable, ErrMalformedWrapPackage, or
// ErrDecryptionFailed depending on the failing step.
func Unseal(ctx context.Context, opts UnsealOptions) (*UnsealResult, error) {
	v, err := resolveVault(opts.VaultPath, true)
	if err != nil {
		return nil, err
	}

	container, err := v.ReadArtifactOrText(vault.ContainerFile)
	if err != nil {
		return nil, err
	}

	passphrase := opts.Passphrase
	if passphrase == "" {
		passphrase, err = v.ReadPassphrase()
		if err != nil {
			return nil, err
		}
	}

	imported, err := identity.ImportContainer(container, passphrase)
	if err != nil {
		return nil, err
	}
	defer imported.Close()

	priv, err := imported.Key()
	if err != nil {
		return nil, err
	}

	wrapPackage, err := v.ReadArtifactOrText(vault.WrapFile)
	if err != nil {
		return nil, err
	}
	payload, err := v.ReadArtifact(vault.PayloadFile)
	if err != nil {
		return nil, err
	}

	plain, err := hybrid.Decrypt(payload, wrapPackage, priv)
	if err != nil {
		return nil, err
	}

	outputPath := opts.OutputPath
	extracted := false

	if opts.Extract && bundle.IsBundle(plain) {
		if outputPath == "" {
			outputPath = filepath.Join(v.Root, "unsealed")
		}
		if err := bundle.Unpack(plain, outputPath); err != nil {
			return nil, err
		}
		extracted = true
	} else {
		if outputPath == "" {
			outputPath = filepath.Join(v.Root, "payload.unsealed")
		}
		if err := os.WriteFile(outputPath, plain, 0600); err != nil {
			return nil, fmt.Errorf("failed to write plaintext to %s: %w", outputPath, err)
		}
	}

	audit.Append(v.Dir(), audit.Entry{
		User:        configs.UserSealcrateSettings.Username,
		Operation:   "unseal",
		Thumbprint:  imported.Thumbprint(),
		OutputPath:  outputPath,
		PayloadSize: int64(len(payload)),
	})

	return &UnsealResult{
		VaultRoot:  v.Root,
		OutputPath: outputPath,
		PlainSize:  int64(len(plain)),
		Extracted:  extracted,
	}, nil
}
