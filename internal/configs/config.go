package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// UserConfig is the per-user configuration stored under the OS config
// directory. It tracks which vaults this user has provisioned.
type UserConfig struct {
	User   User              `toml:"user"`
	Vaults map[string]string `toml:"vaults"` // vault UUID -> vault root path
}

type User struct {
	UUID string `toml:"user_uuid"`
}

// VaultMetadata is the per-session metadata stored inside the vault
// directory as vault.toml.
type VaultMetadata struct {
	Session Session `toml:"session"`
}

type Session struct {
	UUID       string    `toml:"session_uuid"`
	Subject    string    `toml:"subject"`
	Thumbprint string    `toml:"thumbprint"`
	KeyBits    int       `toml:"key_bits"`
	CreatedAt  time.Time `toml:"created_at"`
}

func userConfigPath() string {
	return filepath.Join(UserSealcrateSettings.UserConfigsPath, "config.toml")
}

// LoadUserConfig loads the user configuration, returning an empty
// config if the file does not exist yet.
func LoadUserConfig() (*UserConfig, error) {
	config := &UserConfig{
		Vaults: make(map[string]string),
	}

	configPath := userConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if config.Vaults == nil {
		config.Vaults = make(map[string]string)
	}

	return config, nil
}

// SaveUserConfig persists the user configuration.
func SaveUserConfig(config *UserConfig) error {
	if err := SaveTOML(userConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// EnsureUserConfig loads the user configuration, assigning and
// persisting a user UUID on first use.
func EnsureUserConfig() (*UserConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}

	if config.User.UUID == "" {
		config.User.UUID = uuid.NewString()
		if err := SaveUserConfig(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// NewSessionMetadata builds metadata for a freshly provisioned session.
func NewSessionMetadata(subject, thumbprint string, keyBits int) *VaultMetadata {
	return &VaultMetadata{
		Session: Session{
			UUID:       uuid.NewString(),
			Subject:    subject,
			Thumbprint: thumbprint,
			KeyBits:    keyBits,
			CreatedAt:  time.Now().UTC(),
		},
	}
}

// LoadVaultMetadata reads vault.toml from the given path.
func LoadVaultMetadata(path string) (*VaultMetadata, error) {
	meta := &VaultMetadata{}
	if err := LoadTOML(path, meta); err != nil {
		return nil, fmt.Errorf("failed to load vault metadata: %w", err)
	}
	return meta, nil
}

// SaveVaultMetadata writes vault.toml to the given path.
func SaveVaultMetadata(path string, meta *VaultMetadata) error {
	if err := SaveTOML(path, meta); err != nil {
		return fmt.Errorf("failed to save vault metadata: %w", err)
	}
	return nil
}
