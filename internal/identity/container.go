package identity

import (
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"software.sslmate.com/src/go-pkcs12"
)

// ExportContainer serializes the private key and certificate into a
// password-protected PKCS#12 archive. The passphrase must be persisted
// before this container is, so a failure here never leaves an
// unprotected or unopenable key on disk.
func ExportContainer(priv *rsa.PrivateKey, cert *x509.Certificate, passphrase string) ([]byte, error) {
	if priv == nil || cert == nil {
		return nil, fmt.Errorf("%w: missing key or certificate for export", kerrors.ErrProvisioningFailed)
	}
	container, err := pkcs12.Modern.Encode(priv, cert, nil, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding key container: %v", kerrors.ErrProvisioningFailed, err)
	}
	return container, nil
}

// PrivateIdentity is a scoped handle on imported private key material.
// The key lives only in process memory; Close zeroes it. Callers defer
// Close immediately after a successful import.
type PrivateIdentity struct {
	key  *rsa.PrivateKey
	cert *x509.Certificate
}

// ImportContainer opens a PKCS#12 container with the given passphrase.
// The import is in-process only; nothing is written to any OS key
// store, so the key material cannot outlive the returned handle.
//
// Returns ErrPrivateKeyUnavailable for a wrong passphrase, a corrupted
// container, or a key that is not a usable RSA private key.
func ImportContainer(container []byte, passphrase string) (*PrivateIdentity, error) {
	rawKey, cert, err := pkcs12.Decode(container, passphrase)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, fmt.Errorf("%w: incorrect passphrase", kerrors.ErrPrivateKeyUnavailable)
		}
		return nil, fmt.Errorf("%w: decoding container: %v", kerrors.ErrPrivateKeyUnavailable, err)
	}

	priv, ok := rawKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: container holds a %T, not an RSA private key", kerrors.ErrPrivateKeyUnavailable, rawKey)
	}
	if err := priv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: imported key failed validation: %v", kerrors.ErrPrivateKeyUnavailable, err)
	}
	if bits := priv.N.BitLen(); bits < MinKeyBits {
		return nil, fmt.Errorf("%w: imported key is %d bits, need at least %d", kerrors.ErrPrivateKeyUnavailable, bits, MinKeyBits)
	}

	return &PrivateIdentity{key: priv, cert: cert}, nil
}

// Key returns the private key, or ErrPrivateKeyUnavailable if the
// handle has been closed.
func (p *PrivateIdentity) Key() (*rsa.PrivateKey, error) {
	if p == nil || p.key == nil {
		return nil, fmt.Errorf("%w: handle has been closed", kerrors.ErrPrivateKeyUnavailable)
	}
	return p.key, nil
}

// Certificate returns the certificate stored alongside the key, which
// may be nil for containers produced by other tools.
func (p *PrivateIdentity) Certificate() *x509.Certificate {
	if p == nil {
		return nil
	}
	return p.cert
}

// Thumbprint returns the certificate fingerprint, or an empty string if
// the container carried no certificate.
func (p *PrivateIdentity) Thumbprint() string {
	if p == nil || p.cert == nil {
		return ""
	}
	return Thumbprint(p.cert)
}

// Close zeroes the private key material and invalidates the handle.
// Safe to call more than once.
func (p *PrivateIdentity) Close() {
	if p == nil || p.key == nil {
		return
	}
	ZeroKey(p.key)
	p.key = nil
}

// ZeroKey zeroes RSA private key material in place. Best effort, like
// all in-memory zeroing in Go, but it keeps the exposure window down
// to the call that needed the key.
func ZeroKey(k *rsa.PrivateKey) {
	if k == nil {
		return
	}
	k.D.SetInt64(0)
	for _, prime := range k.Primes {
		prime.SetInt64(0)
	}
	k.Precomputed = rsa.PrecomputedValues{}
}
