package vault

import (
	"bytes"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v := At(t.TempDir())
	if err := v.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return v
}

func TestInit_CreatesRestrictedDir(t *testing.T) {
	v := At(t.TempDir())
	if v.Exists() {
		t.Fatal("vault reported existing before Init")
	}
	if err := v.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !v.Exists() {
		t.Fatal("vault missing after Init")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(v.Dir())
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0700 {
			t.Errorf("vault dir permissions = %o, want 0700", perm)
		}
	}
}

func TestWriteReadArtifact(t *testing.T) {
	v := newTestVault(t)

	data := make([]byte, 1024)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("failed to generate data: %v", err)
	}

	if err := v.WriteArtifact(PayloadFile, data); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}
	if !v.Has(PayloadFile) {
		t.Fatal("artifact missing after write")
	}

	got, err := v.ReadArtifact(PayloadFile)
	if err != nil {
		t.Fatalf("ReadArtifact failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("artifact round trip mismatch")
	}

	// No stale temp files after a successful write.
	entries, err := os.ReadDir(v.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("vault dir has %d entries, want 1", len(entries))
	}
}

func TestReadArtifact_Missing(t *testing.T) {
	v := newTestVault(t)
	if _, err := v.ReadArtifact(WrapFile); !errors.Is(err, kerrors.ErrArtifactNotFound) {
		t.Errorf("got %v, want ErrArtifactNotFound", err)
	}
}

func TestTextArtifact_RoundTrip(t *testing.T) {
	v := newTestVault(t)

	data := make([]byte, 333)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("failed to generate data: %v", err)
	}

	if err := v.WriteTextArtifact(WrapFile, data); err != nil {
		t.Fatalf("WriteTextArtifact failed: %v", err)
	}
	if !v.Has(WrapFile + TextSuffix) {
		t.Fatal("text twin missing after write")
	}

	got, err := v.ReadTextArtifact(WrapFile)
	if err != nil {
		t.Fatalf("ReadTextArtifact failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("text artifact round trip mismatch")
	}
}

func TestReadArtifactOrText_FallsBackToText(t *testing.T) {
	v := newTestVault(t)

	data := []byte("only the text twin travelled")
	if err := v.WriteTextArtifact(ContainerFile, data); err != nil {
		t.Fatalf("WriteTextArtifact failed: %v", err)
	}

	got, err := v.ReadArtifactOrText(ContainerFile)
	if err != nil {
		t.Fatalf("ReadArtifactOrText failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("fallback read mismatch")
	}
}

func TestPassphrase_WriteOnce(t *testing.T) {
	v := newTestVault(t)

	if err := v.WritePassphrase("first-passphrase"); err != nil {
		t.Fatalf("WritePassphrase failed: %v", err)
	}

	got, err := v.ReadPassphrase()
	if err != nil {
		t.Fatalf("ReadPassphrase failed: %v", err)
	}
	if got != "first-passphrase" {
		t.Errorf("passphrase = %q, want first-passphrase", got)
	}

	if err := v.WritePassphrase("second"); !errors.Is(err, kerrors.ErrVaultAlreadyInitialized) {
		t.Errorf("second write: got %v, want ErrVaultAlreadyInitialized", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(v.Path(PassphraseFile))
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("passphrase file permissions = %o, want 0600", perm)
		}
	}
}

func TestRemove(t *testing.T) {
	v := newTestVault(t)

	if err := v.WriteArtifact(PayloadFile, []byte("x")); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}
	if err := v.WriteArtifact(WrapFile, []byte("y")); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}

	removed, err := v.Remove(PayloadFile, WrapFile, ContainerFile)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed %d artifacts, want 2", removed)
	}
	if v.Has(PayloadFile) || v.Has(WrapFile) {
		t.Error("artifacts still present after Remove")
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	v := At(root)
	if err := v.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	found, err := Find(nested)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found == nil {
		t.Fatal("Find returned nil for a nested directory inside a vault root")
	}
	if found.Root != root {
		t.Errorf("Find root = %q, want %q", found.Root, root)
	}
}
