package configs

import (
	"path/filepath"
	"testing"
	"time"
)

// withTempSettings redirects user settings into a temp directory.
func withTempSettings(t *testing.T) {
	t.Helper()
	prev := UserSealcrateSettings
	UserSealcrateSettings = &UserSettings{
		UserConfigsPath: filepath.Join(t.TempDir(), "sealcrate"),
		Username:        "tester",
	}
	t.Cleanup(func() { UserSealcrateSettings = prev })
}

func TestEnsureUserConfig_AssignsUUIDOnce(t *testing.T) {
	withTempSettings(t)

	first, err := EnsureUserConfig()
	if err != nil {
		t.Fatalf("EnsureUserConfig failed: %v", err)
	}
	if first.User.UUID == "" {
		t.Fatal("no UUID assigned on first use")
	}

	second, err := EnsureUserConfig()
	if err != nil {
		t.Fatalf("second EnsureUserConfig failed: %v", err)
	}
	if second.User.UUID != first.User.UUID {
		t.Errorf("UUID changed between loads: %q vs %q", first.User.UUID, second.User.UUID)
	}
}

func TestUserConfig_VaultsRoundTrip(t *testing.T) {
	withTempSettings(t)

	config, err := EnsureUserConfig()
	if err != nil {
		t.Fatalf("EnsureUserConfig failed: %v", err)
	}
	config.Vaults["session-1"] = "/work/release"
	if err := SaveUserConfig(config); err != nil {
		t.Fatalf("SaveUserConfig failed: %v", err)
	}

	loaded, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if loaded.Vaults["session-1"] != "/work/release" {
		t.Errorf("vault entry lost: %v", loaded.Vaults)
	}
}

func TestVaultMetadata_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.toml")

	meta := NewSessionMetadata("release-bundle", "abc123", 2048)
	if meta.Session.UUID == "" {
		t.Fatal("session UUID not assigned")
	}
	if err := SaveVaultMetadata(path, meta); err != nil {
		t.Fatalf("SaveVaultMetadata failed: %v", err)
	}

	loaded, err := LoadVaultMetadata(path)
	if err != nil {
		t.Fatalf("LoadVaultMetadata failed: %v", err)
	}
	if loaded.Session.UUID != meta.Session.UUID {
		t.Errorf("UUID mismatch: %q vs %q", loaded.Session.UUID, meta.Session.UUID)
	}
	if loaded.Session.Subject != "release-bundle" || loaded.Session.KeyBits != 2048 {
		t.Errorf("metadata fields lost: %+v", loaded.Session)
	}
	if loaded.Session.CreatedAt.After(time.Now().Add(time.Minute)) {
		t.Errorf("implausible creation time: %v", loaded.Session.CreatedAt)
	}
}
