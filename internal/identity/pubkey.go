package identity

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"golang.org/x/crypto/ssh"
)

// ParsePublicKey parses a recipient public key from any of the formats
// an operator is likely to hand over: PKIX PEM ("PUBLIC KEY"), PKCS#1
// PEM ("RSA PUBLIC KEY"), a PEM certificate, or an OpenSSH
// authorized_keys line.
//
// Returns ErrInvalidPublicKey if the data cannot be parsed as an RSA
// key or the key is below MinKeyBits.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	pub, err := parsePublicKey(data)
	if err != nil {
		return nil, err
	}
	if bits := pub.N.BitLen(); bits < MinKeyBits {
		return nil, fmt.Errorf("%w: key is %d bits, need at least %d", kerrors.ErrInvalidPublicKey, bits, MinKeyBits)
	}
	return pub, nil
}

func parsePublicKey(data []byte) (*rsa.PublicKey, error) {
	if block, _ := pem.Decode(data); block != nil {
		switch block.Type {
		case "PUBLIC KEY":
			parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%w: parsing PKIX key: %v", kerrors.ErrInvalidPublicKey, err)
			}
			rsaPub, ok := parsed.(*rsa.PublicKey)
			if !ok {
				return nil, fmt.Errorf("%w: not an RSA public key", kerrors.ErrInvalidPublicKey)
			}
			return rsaPub, nil
		case "RSA PUBLIC KEY":
			rsaPub, err := x509.ParsePKCS1PublicKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%w: parsing PKCS#1 key: %v", kerrors.ErrInvalidPublicKey, err)
			}
			return rsaPub, nil
		case "CERTIFICATE":
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%w: parsing certificate: %v", kerrors.ErrInvalidPublicKey, err)
			}
			rsaPub, ok := cert.PublicKey.(*rsa.PublicKey)
			if !ok {
				return nil, fmt.Errorf("%w: certificate does not hold an RSA key", kerrors.ErrInvalidPublicKey)
			}
			return rsaPub, nil
		default:
			return nil, fmt.Errorf("%w: unsupported PEM block %q", kerrors.ErrInvalidPublicKey, block.Type)
		}
	}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("ssh-rsa ")) {
		sshKey, _, _, _, err := ssh.ParseAuthorizedKey(data)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing OpenSSH key: %v", kerrors.ErrInvalidPublicKey, err)
		}
		cryptoKey, ok := sshKey.(ssh.CryptoPublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: OpenSSH key has no crypto form", kerrors.ErrInvalidPublicKey)
		}
		rsaPub, ok := cryptoKey.CryptoPublicKey().(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: OpenSSH key is not RSA", kerrors.ErrInvalidPublicKey)
		}
		return rsaPub, nil
	}

	return nil, fmt.Errorf("%w: data is neither PEM nor an OpenSSH public key", kerrors.ErrInvalidPublicKey)
}

// EncodePublicKey renders the public key as PKIX PEM for persisting
// alongside the vault artifacts.
func EncodePublicKey(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
