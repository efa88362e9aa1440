package workflows

import (
	"context"
	"fmt"

	"github.com/oakmoss-dev/sealcrate/internal/audit"
	"github.com/oakmoss-dev/sealcrate/internal/configs"
	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"github.com/oakmoss-dev/sealcrate/internal/identity"
	"github.com/oakmoss-dev/sealcrate/internal/vault"
)

// ProvisionOptions configures the provision workflow.
type ProvisionOptions struct {
	// Subject is the label the certificate is bound to.
	Subject string

	// KeyBits is the RSA modulus length. Zero selects the default.
	KeyBits int

	// VaultPath is an explicit vault root. If empty, the vault is
	// searched for from the working directory, falling back to the
	// working directory itself.
	VaultPath string

	// Force replaces an already provisioned identity, removing the old
	// passphrase, container, and any sealed payload they belong to.
	Force bool
}

// ProvisionResult contains the outcome of a provision operation.
type ProvisionResult struct {
	// VaultRoot is the directory containing the vault.
	VaultRoot string

	// Subject is the certificate's subject label.
	Subject string

	// Thumbprint is the certificate's SHA-256 fingerprint.
	Thumbprint string

	// KeyBits is the generated key pair's modulus length.
	KeyBits int

	// SessionUUID identifies this protection session.
	SessionUUID string

	// ContainerPath and PassphrasePath point at the persisted artifacts.
	ContainerPath  string
	PassphrasePath string
	PublicKeyPath  string
}

// Provision creates a protection session: a fresh export passphrase, a
// self-signed RSA key pair bound to the subject label, and the
// password-protected key container, all persisted to the vault.
//
// The passphrase is persisted before key generation begins, so a
// failure partway never leaves a key on disk that nothing can open. If
// key generation or export fails, the passphrase file is removed again
// and no identity artifacts remain.
//
// Returns ErrVaultAlreadyInitialized if an identity exists and Force is
// not set. Returns ErrProvisioningFailed for generation failures.
func Provision(ctx context.Context, opts ProvisionOptions) (*ProvisionResult, error) {
	if opts.Subject == "" {
		return nil, fmt.Errorf("%w: subject label is required", kerrors.ErrProvisioningFailed)
	}

	v, err := resolveVault(opts.VaultPath, false)
	if err != nil {
		return nil, err
	}

	if v.Has(vault.ContainerFile) || v.Has(vault.PassphraseFile) {
		if !opts.Force {
			return nil, fmt.Errorf("%w: identity already provisioned at %s", kerrors.ErrVaultAlreadyInitialized, v.Dir())
		}
		// A replaced identity can never open the old payload; drop the
		// whole artifact set rather than leave an undecryptable pair.
		if _, err := v.Remove(
			vault.PassphraseFile,
			vault.ContainerFile,
			vault.ContainerFile+vault.TextSuffix,
			vault.PublicKeyFile,
			vault.PayloadFile,
			vault.WrapFile,
			vault.WrapFile+vault.TextSuffix,
			vault.MetadataFile,
		); err != nil {
			return nil, fmt.Errorf("%w: clearing previous identity: %v", kerrors.ErrProvisioningFailed, err)
		}
	}

	if err := v.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrProvisioningFailed, err)
	}

	userConfig, err := configs.EnsureUserConfig()
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}

	passphrase, err := identity.GeneratePassphrase()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrProvisioningFailed, err)
	}

	// Passphrase first; the container it protects follows.
	if err := v.WritePassphrase(passphrase); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrProvisioningFailed, err)
	}

	id, priv, err := identity.New(opts.Subject, opts.KeyBits)
	if err != nil {
		_, _ = v.Remove(vault.PassphraseFile)
		return nil, err
	}
	defer identity.ZeroKey(priv)

	container, err := identity.ExportContainer(priv, id.Certificate, passphrase)
	if err != nil {
		_, _ = v.Remove(vault.PassphraseFile)
		return nil, err
	}

	if err := v.WriteArtifact(vault.ContainerFile, container); err != nil {
		_, _ = v.Remove(vault.PassphraseFile)
		return nil, fmt.Errorf("%w: %v", kerrors.ErrProvisioningFailed, err)
	}
	if err := v.WriteTextArtifact(vault.ContainerFile, container); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrProvisioningFailed, err)
	}

	pubPEM, err := identity.EncodePublicKey(id.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrProvisioningFailed, err)
	}
	if err := v.WriteArtifact(vault.PublicKeyFile, pubPEM); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrProvisioningFailed, err)
	}

	meta := configs.NewSessionMetadata(opts.Subject, id.Thumbprint, id.KeyBits)
	if err := configs.SaveVaultMetadata(v.Path(vault.MetadataFile), meta); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrProvisioningFailed, err)
	}

	userConfig.Vaults[meta.Session.UUID] = v.Root
	if err := configs.SaveUserConfig(userConfig); err != nil {
		return nil, fmt.Errorf("saving user config: %w", err)
	}

	audit.Append(v.Dir(), audit.Entry{
		User:        configs.UserSealcrateSettings.Username,
		UserUUID:    userConfig.User.UUID,
		Operation:   "provision",
		Subject:     opts.Subject,
		Thumbprint:  id.Thumbprint,
		SessionUUID: meta.Session.UUID,
		Artifacts: []string{
			vault.PassphraseFile,
			vault.ContainerFile,
			vault.ContainerFile + vault.TextSuffix,
			vault.PublicKeyFile,
		},
	})

	return &ProvisionResult{
		VaultRoot:      v.Root,
		Subject:        opts.Subject,
		Thumbprint:     id.Thumbprint,
		KeyBits:        id.KeyBits,
		SessionUUID:    meta.Session.UUID,
		ContainerPath:  v.Path(vault.ContainerFile),
		PassphrasePath: v.Path(vault.PassphraseFile),
		PublicKeyPath:  v.Path(vault.PublicKeyFile),
	}, nil
}
