package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	"errors"
	"testing"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"golang.org/x/crypto/ssh"
)

func TestNew_SelfSignedIdentity(t *testing.T) {
	id, priv, err := New("release-bundle", 2048)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if id.Subject != "release-bundle" {
		t.Errorf("subject = %q, want release-bundle", id.Subject)
	}
	if got := id.Certificate.Subject.CommonName; got != "release-bundle" {
		t.Errorf("certificate CN = %q, want release-bundle", got)
	}
	if id.KeyBits != 2048 {
		t.Errorf("key bits = %d, want 2048", id.KeyBits)
	}
	if id.PublicKey.N.Cmp(priv.PublicKey.N) != 0 {
		t.Error("identity public key does not match generated private key")
	}
	if len(id.Thumbprint) != 64 {
		t.Errorf("thumbprint %q is not a hex SHA-256 digest", id.Thumbprint)
	}

	// Self-signed: the signature must verify under the certificate's
	// own key.
	cert := id.Certificate
	if err := cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature); err != nil {
		t.Errorf("certificate is not self-signed: %v", err)
	}
}

func TestNew_RejectsBadInputs(t *testing.T) {
	if _, _, err := New("", 2048); !errors.Is(err, kerrors.ErrProvisioningFailed) {
		t.Errorf("empty subject: got %v, want ErrProvisioningFailed", err)
	}
	if _, _, err := New("weak", 1024); !errors.Is(err, kerrors.ErrProvisioningFailed) {
		t.Errorf("1024 bits: got %v, want ErrProvisioningFailed", err)
	}
}

func TestContainer_ExportImportRoundTrip(t *testing.T) {
	id, priv, err := New("test", 2048)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	passphrase, err := GeneratePassphrase()
	if err != nil {
		t.Fatalf("GeneratePassphrase failed: %v", err)
	}

	container, err := ExportContainer(priv, id.Certificate, passphrase)
	if err != nil {
		t.Fatalf("ExportContainer failed: %v", err)
	}

	imported, err := ImportContainer(container, passphrase)
	if err != nil {
		t.Fatalf("ImportContainer failed: %v", err)
	}
	defer imported.Close()

	key, err := imported.Key()
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if key.N.Cmp(priv.N) != 0 || key.D.Cmp(priv.D) != 0 {
		t.Error("imported key does not match exported key")
	}
	if imported.Thumbprint() != id.Thumbprint {
		t.Errorf("imported thumbprint %q, want %q", imported.Thumbprint(), id.Thumbprint)
	}
}

func TestImportContainer_WrongPassphrase(t *testing.T) {
	id, priv, err := New("test", 2048)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	container, err := ExportContainer(priv, id.Certificate, "correct-passphrase")
	if err != nil {
		t.Fatalf("ExportContainer failed: %v", err)
	}

	if _, err := ImportContainer(container, "wrong-passphrase"); !errors.Is(err, kerrors.ErrPrivateKeyUnavailable) {
		t.Errorf("wrong passphrase: got %v, want ErrPrivateKeyUnavailable", err)
	}
}

func TestImportContainer_Corrupted(t *testing.T) {
	if _, err := ImportContainer([]byte("not a pkcs12 container"), "whatever"); !errors.Is(err, kerrors.ErrPrivateKeyUnavailable) {
		t.Errorf("garbage container: got %v, want ErrPrivateKeyUnavailable", err)
	}
}

func TestPrivateIdentity_Close(t *testing.T) {
	id, priv, err := New("test", 2048)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	container, err := ExportContainer(priv, id.Certificate, "pw")
	if err != nil {
		t.Fatalf("ExportContainer failed: %v", err)
	}
	imported, err := ImportContainer(container, "pw")
	if err != nil {
		t.Fatalf("ImportContainer failed: %v", err)
	}

	imported.Close()
	if _, err := imported.Key(); !errors.Is(err, kerrors.ErrPrivateKeyUnavailable) {
		t.Errorf("Key after Close: got %v, want ErrPrivateKeyUnavailable", err)
	}
	// Second Close must be a no-op.
	imported.Close()
}

func TestGeneratePassphrase(t *testing.T) {
	p1, err := GeneratePassphrase()
	if err != nil {
		t.Fatalf("GeneratePassphrase failed: %v", err)
	}
	if len(p1) != PassphraseLength {
		t.Errorf("passphrase length = %d, want %d", len(p1), PassphraseLength)
	}
	if !containsAllClasses(p1) {
		t.Error("passphrase missing a character class")
	}

	p2, err := GeneratePassphrase()
	if err != nil {
		t.Fatalf("second GeneratePassphrase failed: %v", err)
	}
	if p1 == p2 {
		t.Error("two generated passphrases are identical")
	}
}

func TestParsePublicKey_Formats(t *testing.T) {
	id, priv, err := New("formats", 2048)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	pkixPEM, err := EncodePublicKey(id.PublicKey)
	if err != nil {
		t.Fatalf("EncodePublicKey failed: %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: id.Certificate.Raw})

	sshPub, err := ssh.NewPublicKey(id.PublicKey)
	if err != nil {
		t.Fatalf("ssh.NewPublicKey failed: %v", err)
	}
	sshLine := ssh.MarshalAuthorizedKey(sshPub)

	tests := []struct {
		name string
		data []byte
	}{
		{"pkix pem", pkixPEM},
		{"certificate pem", certPEM},
		{"openssh", sshLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub, err := ParsePublicKey(tt.data)
			if err != nil {
				t.Fatalf("ParsePublicKey failed: %v", err)
			}
			if pub.N.Cmp(priv.N) != 0 {
				t.Error("parsed key does not match original")
			}
		})
	}
}

func TestParsePublicKey_Invalid(t *testing.T) {
	small, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("failed to generate small key: %v", err)
	}
	smallPEM, err := EncodePublicKey(&small.PublicKey)
	if err != nil {
		t.Fatalf("EncodePublicKey failed: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("not a key at all")},
		{"below minimum bits", smallPEM},
		{"unsupported pem type", pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePublicKey(tt.data); !errors.Is(err, kerrors.ErrInvalidPublicKey) {
				t.Errorf("got %v, want ErrInvalidPublicKey", err)
			}
		})
	}
}
