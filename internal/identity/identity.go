package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
)

// MinKeyBits is the smallest RSA modulus accepted for new identities.
const MinKeyBits = 2048

// DefaultKeyBits is used when the caller does not specify a key length.
const DefaultKeyBits = 2048

// certificateLifetime is generous on purpose: the certificate only
// binds the key pair to a subject label, it is not presented to any
// verifier that checks expiry.
const certificateLifetime = 10 * 365 * 24 * time.Hour

// Identity is the public half of a provisioned key pair: a self-signed
// certificate bound to a subject label.
type Identity struct {
	Subject     string
	Certificate *x509.Certificate
	PublicKey   *rsa.PublicKey
	Thumbprint  string
	KeyBits     int
}

// New generates a key pair and self-signed certificate for subject.
// keyBits of zero selects DefaultKeyBits; values below MinKeyBits are
// rejected. The returned private key has not touched disk; callers
// export it with ExportContainer and then discard it.
func New(subject string, keyBits int) (*Identity, *rsa.PrivateKey, error) {
	if subject == "" {
		return nil, nil, fmt.Errorf("%w: subject label is empty", kerrors.ErrProvisioningFailed)
	}
	if keyBits == 0 {
		keyBits = DefaultKeyBits
	}
	if keyBits < MinKeyBits {
		return nil, nil, fmt.Errorf("%w: %d bit keys are below the %d bit minimum", kerrors.ErrProvisioningFailed, keyBits, MinKeyBits)
	}

	priv, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: generating key pair: %v", kerrors.ErrProvisioningFailed, err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: generating certificate serial: %v", kerrors.ErrProvisioningFailed, err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: subject},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(certificateLifetime),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: creating self-signed certificate: %v", kerrors.ErrProvisioningFailed, err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parsing created certificate: %v", kerrors.ErrProvisioningFailed, err)
	}

	return &Identity{
		Subject:     subject,
		Certificate: cert,
		PublicKey:   &priv.PublicKey,
		Thumbprint:  Thumbprint(cert),
		KeyBits:     keyBits,
	}, priv, nil
}

// Thumbprint returns the hex SHA-256 digest of the certificate's DER
// encoding, used as the identity's unique fingerprint.
func Thumbprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	return hex.EncodeToString(sum[:])
}
