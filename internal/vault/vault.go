package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oakmoss-dev/sealcrate/internal/codec"
	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
)

// DirName is the vault directory created under the session root.
const DirName = ".sealcrate"

// Artifact file names inside the vault directory. Binary artifacts get
// a Base64 twin with the TextSuffix appended.
const (
	ContainerFile  = "identity.p12"
	PassphraseFile = "identity.passphrase"
	PublicKeyFile  = "identity.pub"
	PayloadFile    = "payload.sealed"
	WrapFile       = "payload.wrap"
	MetadataFile   = "vault.toml"
	AuditFile      = "audit.jsonl"

	TextSuffix = ".base64"
)

// Vault is one protection session's working directory. Operations on a
// vault are not safe to run concurrently; callers serialize externally,
// one vault per protection session.
type Vault struct {
	// Root is the directory containing the vault directory.
	Root string
}

// At returns a vault rooted at the given directory.
func At(root string) *Vault {
	return &Vault{Root: root}
}

// Find walks up from start looking for a directory that contains a
// vault. It stops above the user's home directory or at the filesystem
// root. Returns an empty-rooted nil vault when nothing is found.
func Find(start string) (*Vault, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve search start %s: %w", start, err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	for {
		if dir == filepath.Dir(homeDir) {
			return nil, nil
		}

		info, err := os.Stat(filepath.Join(dir, DirName))
		if err == nil && info.IsDir() {
			return At(dir), nil
		}
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to check for vault at %s: %w", dir, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Dir returns the vault directory path.
func (v *Vault) Dir() string {
	return filepath.Join(v.Root, DirName)
}

// Path returns the absolute path of a named artifact.
func (v *Vault) Path(name string) string {
	return filepath.Join(v.Dir(), name)
}

// Exists reports whether the vault directory is present.
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.Dir())
	return err == nil && info.IsDir()
}

// Init creates the vault directory with owner-only permissions.
func (v *Vault) Init() error {
	if err := os.MkdirAll(v.Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create vault directory at %s: %w", v.Dir(), err)
	}
	return nil
}

// Has reports whether a named artifact exists.
func (v *Vault) Has(name string) bool {
	info, err := os.Stat(v.Path(name))
	return err == nil && !info.IsDir()
}

// WriteArtifact persists an artifact through a temp-file-then-rename
// sequence so an interrupted write never leaves a plausible-looking
// partial file under the final name.
func (v *Vault) WriteArtifact(name string, data []byte) error {
	final := v.Path(name)
	tmp, err := os.CreateTemp(v.Dir(), name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage artifact %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to restrict artifact %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush artifact %s: %w", name, err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize artifact %s: %w", name, err)
	}
	return nil
}

// ReadArtifact loads a named artifact.
func (v *Vault) ReadArtifact(name string) ([]byte, error) {
	data, err := os.ReadFile(v.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrArtifactNotFound, name)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}
	return data, nil
}

// WriteTextArtifact writes the Base64 twin of a binary artifact.
func (v *Vault) WriteTextArtifact(name string, data []byte) error {
	text := codec.ToText(data) + "\n"
	return v.WriteArtifact(name+TextSuffix, []byte(text))
}

// ReadTextArtifact loads and decodes a Base64 twin.
func (v *Vault) ReadTextArtifact(name string) ([]byte, error) {
	text, err := v.ReadArtifact(name + TextSuffix)
	if err != nil {
		return nil, err
	}
	data, err := codec.FromText(string(text))
	if err != nil {
		return nil, fmt.Errorf("artifact %s%s: %w", name, TextSuffix, err)
	}
	return data, nil
}

// ReadArtifactOrText loads the binary artifact, falling back to its
// Base64 twin when only the text form travelled (e.g. the vault was
// reconstructed from a text-only channel).
func (v *Vault) ReadArtifactOrText(name string) ([]byte, error) {
	if v.Has(name) {
		return v.ReadArtifact(name)
	}
	return v.ReadTextArtifact(name)
}

// WritePassphrase persists the export passphrase. It refuses to
// overwrite an existing passphrase: the passphrase is written exactly
// once per session, before the key pair it protects.
func (v *Vault) WritePassphrase(passphrase string) error {
	if v.Has(PassphraseFile) {
		return fmt.Errorf("%w: passphrase already persisted at %s", kerrors.ErrVaultAlreadyInitialized, v.Path(PassphraseFile))
	}
	return v.WriteArtifact(PassphraseFile, []byte(passphrase+"\n"))
}

// ReadPassphrase loads the persisted export passphrase.
func (v *Vault) ReadPassphrase() (string, error) {
	data, err := v.ReadArtifact(PassphraseFile)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// Remove deletes the named artifacts, ignoring ones already absent.
// Returns the number actually removed.
func (v *Vault) Remove(names ...string) (int, error) {
	removed := 0
	for _, name := range names {
		err := os.Remove(v.Path(name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("failed to remove artifact %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}
