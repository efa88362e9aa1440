package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/oakmoss-dev/sealcrate/internal/audit"
	"github.com/oakmoss-dev/sealcrate/internal/bundle"
	"github.com/oakmoss-dev/sealcrate/internal/configs"
	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"github.com/oakmoss-dev/sealcrate/internal/hybrid"
	"github.com/oakmoss-dev/sealcrate/internal/identity"
	"github.com/oakmoss-dev/sealcrate/internal/vault"
)

// SealOptions configures the seal workflow.
type SealOptions struct {
	// InputPath is the file or directory to protect. Directories are
	// packed into a tar.gz bundle before encryption.
	InputPath string

	// VaultPath is an explicit vault root; empty means search upward
	// from the working directory.
	VaultPath string

	// Subject is the certificate subject label when a fresh identity
	// is provisioned. Ignored with ReuseIdentity.
	Subject string

	// KeyBits is the RSA modulus length for a fresh identity.
	KeyBits int

	// ReuseIdentity encrypts against the vault's already provisioned
	// identity instead of creating one. The default is one fresh
	// certificate per protection session.
	ReuseIdentity bool
}

// SealResult contains the outcome of a seal operation.
type SealResult struct {
	// VaultRoot is the directory containing the vault.
	VaultRoot string

	// InputPath is the protected file or directory.
	InputPath string

	// Bundled indicates the input was a directory packed to a bundle.
	Bundled bool

	// PayloadPath and WrapPath point at the persisted artifacts.
	PayloadPath string
	WrapPath    string

	// PayloadSize is the sealed payload length in bytes.
	PayloadSize int64

	// Thumbprint identifies the certificate the session key was
	// wrapped for.
	Thumbprint string
}

// Seal encrypts the input under a fresh session key and persists the
// sealed payload plus wrap package to the vault, with a Base64 twin of
// the wrap package for text-only transport.
//
// Unless ReuseIdentity is set, a new identity is provisioned first; a
// vault that already holds one is rejected with
// ErrVaultAlreadyInitialized so sessions stay one-certificate-per-file
// unless the operator explicitly opts out.
//
// Nothing is written if encryption fails.
//
// Returns ErrNoInputFiles if the input path does not exist.
func Seal(ctx context.Context, opts SealOptions) (*SealResult, error) {
	info, err := os.Stat(opts.InputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrNoInputFiles, opts.InputPath)
		}
		return nil, fmt.Errorf("failed to stat input %s: %w", opts.InputPath, err)
	}

	var plain []byte
	bundled := false
	if info.IsDir() {
		plain, err = bundle.Pack(opts.InputPath)
		if err != nil {
			return nil, err
		}
		bundled = true
	} else {
		plain, err = os.ReadFile(opts.InputPath)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrEncryptionFailed, opts.InputPath, err)
		}
	}

	var v *vault.Vault
	var thumbprint string

	if opts.ReuseIdentity {
		v, err = resolveVault(opts.VaultPath, true)
		if err != nil {
			return nil, err
		}
		if session := loadSession(v); session != nil {
			thumbprint = session.Thumbprint
		}
	} else {
		subject := opts.Subject
		if subject == "" {
			subject = "sealcrate"
		}
		provisioned, err := Provision(ctx, ProvisionOptions{
			Subject:   subject,
			KeyBits:   opts.KeyBits,
			VaultPath: opts.VaultPath,
		})
		if err != nil {
			return nil, err
		}
		v = vault.At(provisioned.VaultRoot)
		thumbprint = provisioned.Thumbprint
	}

	pubPEM, err := v.ReadArtifact(vault.PublicKeyFile)
	if err != nil {
		return nil, err
	}
	pub, err := identity.ParsePublicKey(pubPEM)
	if err != nil {
		return nil, err
	}

	payload, wrapPackage, err := hybrid.Encrypt(plain, pub)
	if err != nil {
		return nil, err
	}

	if err := v.WriteArtifact(vault.PayloadFile, payload); err != nil {
		return nil, err
	}
	if err := v.WriteArtifact(vault.WrapFile, wrapPackage); err != nil {
		return nil, err
	}
	if err := v.WriteTextArtifact(vault.WrapFile, wrapPackage); err != nil {
		return nil, err
	}

	audit.Append(v.Dir(), audit.Entry{
		User:        configs.UserSealcrateSettings.Username,
		Operation:   "seal",
		Thumbprint:  thumbprint,
		InputPath:   opts.InputPath,
		PayloadSize: int64(len(payload)),
		Artifacts: []string{
			vault.PayloadFile,
			vault.WrapFile,
			vault.WrapFile + vault.TextSuffix,
		},
	})

	return &SealResult{
		VaultRoot:   v.Root,
		InputPath:   opts.InputPath,
		Bundled:     bundled,
		PayloadPath: v.Path(vault.PayloadFile),
		WrapPath:    v.Path(vault.WrapFile),
		PayloadSize: int64(len(payload)),
		Thumbprint:  thumbprint,
	}, nil
}
