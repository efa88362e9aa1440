package hybrid

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
)

// MinKeyBits is the minimum accepted RSA modulus length for key
// wrapping.
const MinKeyBits = 2048

// Encrypt encrypts plain under a fresh session key and wraps that key
// with the recipient's public key.
//
// The payload is AES-256-CBC ciphertext with PKCS#7 padding. The wrap
// package is IV (16 bytes) followed by the RSA-OAEP(SHA-256) wrapped
// session key, in that exact order; the layout is the wire contract
// between the encrypt and decrypt sides.
//
// The construction provides confidentiality only. There is no
// authentication tag, so tampering with the payload is not reliably
// detectable at decrypt time.
//
// Returns ErrEncryptionFailed if the public key is absent or below
// MinKeyBits.
func Encrypt(plain []byte, pub *rsa.PublicKey) (payload, wrapPackage []byte, err error) {
	if pub == nil {
		return nil, nil, fmt.Errorf("%w: public key is nil", kerrors.ErrEncryptionFailed)
	}
	if bits := pub.N.BitLen(); bits < MinKeyBits {
		return nil, nil, fmt.Errorf("%w: public key is %d bits, need at least %d", kerrors.ErrEncryptionFailed, bits, MinKeyBits)
	}

	session, err := NewSessionKey()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptionFailed, err)
	}
	defer session.Destroy()

	block, err := aes.NewCipher(session.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptionFailed, err)
	}

	padded := pkcs7Pad(plain)
	payload = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, session.IV).CryptBlocks(payload, padded)

	// Wrap the key bytes only; the IV travels in clear at the front of
	// the package.
	wrappedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, session.Key, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: wrapping session key: %v", kerrors.ErrEncryptionFailed, err)
	}

	wrapPackage = make([]byte, 0, IVSize+len(wrappedKey))
	wrapPackage = append(wrapPackage, session.IV...)
	wrapPackage = append(wrapPackage, wrappedKey...)

	return payload, wrapPackage, nil
}
