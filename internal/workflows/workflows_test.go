package workflows

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oakmoss-dev/sealcrate/internal/configs"
	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"github.com/oakmoss-dev/sealcrate/internal/vault"
)

// withTempSettings keeps user config writes out of the real home
// directory.
func withTempSettings(t *testing.T) {
	t.Helper()
	prev := configs.UserSealcrateSettings
	configs.UserSealcrateSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(t.TempDir(), "sealcrate"),
		Username:        "tester",
	}
	t.Cleanup(func() { configs.UserSealcrateSettings = prev })
}

func writeRandomFile(t *testing.T, path string, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("Failed to generate random data: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return data
}

func TestProvision_CreatesFullIdentity(t *testing.T) {
	withTempSettings(t)
	root := t.TempDir()

	result, err := Provision(context.Background(), ProvisionOptions{
		Subject:   "test",
		VaultPath: root,
	})
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	if result.Subject != "test" || result.KeyBits != 2048 {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(result.Thumbprint) != 64 {
		t.Errorf("thumbprint %q is not a hex SHA-256 digest", result.Thumbprint)
	}

	v := vault.At(root)
	for _, name := range []string{
		vault.PassphraseFile,
		vault.ContainerFile,
		vault.ContainerFile + vault.TextSuffix,
		vault.PublicKeyFile,
		vault.MetadataFile,
	} {
		if !v.Has(name) {
			t.Errorf("artifact %s missing after provision", name)
		}
	}

	// Second provision without force is rejected.
	if _, err := Provision(context.Background(), ProvisionOptions{
		Subject:   "test",
		VaultPath: root,
	}); !errors.Is(err, kerrors.ErrVaultAlreadyInitialized) {
		t.Errorf("got %v, want ErrVaultAlreadyInitialized", err)
	}

	// Force replaces the identity.
	replaced, err := Provision(context.Background(), ProvisionOptions{
		Subject:   "test-2",
		VaultPath: root,
		Force:     true,
	})
	if err != nil {
		t.Fatalf("forced Provision failed: %v", err)
	}
	if replaced.Thumbprint == result.Thumbprint {
		t.Error("forced provision kept the old certificate")
	}
}

func TestProvision_RequiresSubject(t *testing.T) {
	withTempSettings(t)
	if _, err := Provision(context.Background(), ProvisionOptions{
		VaultPath: t.TempDir(),
	}); !errors.Is(err, kerrors.ErrProvisioningFailed) {
		t.Errorf("got %v, want ErrProvisioningFailed", err)
	}
}

// The full transit scenario: provision, seal a 10 KB random file, drop
// the binary forms of the container and wrap package so only their
// Base64 text twins remain, unseal, and compare byte-exact.
func TestSealUnseal_EndToEndViaBase64(t *testing.T) {
	withTempSettings(t)
	root := t.TempDir()

	inputPath := filepath.Join(root, "secrets.kdbx")
	original := writeRandomFile(t, inputPath, 10*1024)

	sealed, err := Seal(context.Background(), SealOptions{
		InputPath: inputPath,
		VaultPath: root,
		Subject:   "test",
	})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if sealed.Bundled {
		t.Error("single file reported as bundled")
	}
	if sealed.PayloadSize <= 10*1024 {
		t.Errorf("payload size %d not greater than input", sealed.PayloadSize)
	}

	// Simulate text-only transport: only the .base64 twins survive.
	v := vault.At(root)
	if _, err := v.Remove(vault.ContainerFile, vault.WrapFile); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	outputPath := filepath.Join(root, "recovered.kdbx")
	unsealed, err := Unseal(context.Background(), UnsealOptions{
		VaultPath:  root,
		OutputPath: outputPath,
	})
	if err != nil {
		t.Fatalf("Unseal failed: %v", err)
	}
	if unsealed.PlainSize != 10*1024 {
		t.Errorf("recovered %d bytes, want %d", unsealed.PlainSize, 10*1024)
	}

	recovered, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read recovered file: %v", err)
	}
	if !bytes.Equal(recovered, original) {
		t.Error("recovered plaintext differs from original")
	}
}

func TestSealUnseal_DirectoryBundle(t *testing.T) {
	withTempSettings(t)
	root := t.TempDir()

	srcDir := filepath.Join(root, "bundle-src")
	if err := os.MkdirAll(filepath.Join(srcDir, "sub"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	fileA := writeRandomFile(t, filepath.Join(srcDir, "a.bin"), 512)
	fileB := writeRandomFile(t, filepath.Join(srcDir, "sub", "b.bin"), 2048)

	sealed, err := Seal(context.Background(), SealOptions{
		InputPath: srcDir,
		VaultPath: root,
		Subject:   "bundle-test",
	})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if !sealed.Bundled {
		t.Error("directory input not reported as bundled")
	}

	outDir := filepath.Join(root, "restored")
	unsealed, err := Unseal(context.Background(), UnsealOptions{
		VaultPath:  root,
		OutputPath: outDir,
		Extract:    true,
	})
	if err != nil {
		t.Fatalf("Unseal failed: %v", err)
	}
	if !unsealed.Extracted {
		t.Error("bundle payload not extracted")
	}

	gotA, err := os.ReadFile(filepath.Join(outDir, "a.bin"))
	if err != nil {
		t.Fatalf("missing extracted a.bin: %v", err)
	}
	gotB, err := os.ReadFile(filepath.Join(outDir, "sub", "b.bin"))
	if err != nil {
		t.Fatalf("missing extracted sub/b.bin: %v", err)
	}
	if !bytes.Equal(gotA, fileA) || !bytes.Equal(gotB, fileB) {
		t.Error("extracted bundle contents differ from originals")
	}
}

func TestSeal_RejectsProvisionedVaultWithoutReuse(t *testing.T) {
	withTempSettings(t)
	root := t.TempDir()

	if _, err := Provision(context.Background(), ProvisionOptions{
		Subject:   "test",
		VaultPath: root,
	}); err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	inputPath := filepath.Join(root, "input.bin")
	writeRandomFile(t, inputPath, 64)

	if _, err := Seal(context.Background(), SealOptions{
		InputPath: inputPath,
		VaultPath: root,
		Subject:   "test",
	}); !errors.Is(err, kerrors.ErrVaultAlreadyInitialized) {
		t.Errorf("got %v, want ErrVaultAlreadyInitialized", err)
	}

	// With ReuseIdentity the existing certificate is used.
	sealed, err := Seal(context.Background(), SealOptions{
		InputPath:     inputPath,
		VaultPath:     root,
		ReuseIdentity: true,
	})
	if err != nil {
		t.Fatalf("Seal with reuse failed: %v", err)
	}
	if sealed.Thumbprint == "" {
		t.Error("reuse seal lost the session thumbprint")
	}
}

func TestSeal_MissingInput(t *testing.T) {
	withTempSettings(t)
	if _, err := Seal(context.Background(), SealOptions{
		InputPath: filepath.Join(t.TempDir(), "absent.bin"),
		VaultPath: t.TempDir(),
		Subject:   "test",
	}); !errors.Is(err, kerrors.ErrNoInputFiles) {
		t.Errorf("got %v, want ErrNoInputFiles", err)
	}
}

func TestUnseal_WrongPassphrase(t *testing.T) {
	withTempSettings(t)
	root := t.TempDir()

	inputPath := filepath.Join(root, "input.bin")
	writeRandomFile(t, inputPath, 256)

	if _, err := Seal(context.Background(), SealOptions{
		InputPath: inputPath,
		VaultPath: root,
		Subject:   "test",
	}); err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if _, err := Unseal(context.Background(), UnsealOptions{
		VaultPath:  root,
		Passphrase: "definitely-not-the-passphrase",
	}); !errors.Is(err, kerrors.ErrPrivateKeyUnavailable) {
		t.Errorf("got %v, want ErrPrivateKeyUnavailable", err)
	}
}

func TestUnseal_RequiresVault(t *testing.T) {
	withTempSettings(t)
	if _, err := Unseal(context.Background(), UnsealOptions{
		VaultPath: t.TempDir(),
	}); !errors.Is(err, kerrors.ErrVaultNotInitialized) {
		t.Errorf("got %v, want ErrVaultNotInitialized", err)
	}
}

func TestStatusAndClean(t *testing.T) {
	withTempSettings(t)
	root := t.TempDir()

	// Before anything exists.
	status, err := Status(context.Background(), StatusOptions{VaultPath: root})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Initialized {
		t.Error("empty directory reported as initialized")
	}

	inputPath := filepath.Join(root, "input.bin")
	writeRandomFile(t, inputPath, 128)
	if _, err := Seal(context.Background(), SealOptions{
		InputPath: inputPath,
		VaultPath: root,
		Subject:   "test",
	}); err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	status, err = Status(context.Background(), StatusOptions{VaultPath: root})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.Initialized {
		t.Fatal("vault not reported as initialized after seal")
	}
	if status.Session == nil || status.Session.Subject != "test" {
		t.Errorf("session metadata missing or wrong: %+v", status.Session)
	}
	present := make(map[string]bool)
	for _, a := range status.Artifacts {
		present[a.Name] = a.Present
	}
	if !present[vault.PayloadFile] || !present[vault.ContainerFile] {
		t.Errorf("expected artifacts not reported present: %v", present)
	}

	// Payload-only clean keeps the identity.
	cleaned, err := Clean(context.Background(), CleanOptions{VaultPath: root})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(cleaned.RemovedArtifacts) != 3 {
		t.Errorf("removed %v, want payload, wrap, and wrap twin", cleaned.RemovedArtifacts)
	}
	v := vault.At(root)
	if !v.Has(vault.ContainerFile) || !v.Has(vault.PassphraseFile) {
		t.Error("payload-only clean removed identity artifacts")
	}

	// Full clean ends the session.
	cleaned, err = Clean(context.Background(), CleanOptions{VaultPath: root, All: true})
	if err != nil {
		t.Fatalf("full Clean failed: %v", err)
	}
	if v.Has(vault.ContainerFile) || v.Has(vault.PassphraseFile) || v.Has(vault.MetadataFile) {
		t.Error("full clean left identity artifacts behind")
	}
}
