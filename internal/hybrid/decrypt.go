package hybrid

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"github.com/oakmoss-dev/sealcrate/internal/utils"
)

// SplitWrapPackage separates a wrap package into its IV and wrapped-key
// parts. The wrapped key must match the modulus size of the key pair
// that will unwrap it; any other length is a contract violation.
//
// Returns ErrMalformedWrapPackage on any layout violation.
func SplitWrapPackage(wrapPackage []byte, modulusSize int) (iv, wrappedKey []byte, err error) {
	if len(wrapPackage) <= IVSize {
		return nil, nil, fmt.Errorf("%w: package is %d bytes, need more than %d", kerrors.ErrMalformedWrapPackage, len(wrapPackage), IVSize)
	}
	if got := len(wrapPackage) - IVSize; got != modulusSize {
		return nil, nil, fmt.Errorf("%w: wrapped key is %d bytes, expected %d for this key pair", kerrors.ErrMalformedWrapPackage, got, modulusSize)
	}
	return wrapPackage[:IVSize], wrapPackage[IVSize:], nil
}

// Decrypt reverses Encrypt: it splits the wrap package, unwraps the
// session key with the private key, and decrypts the payload.
//
// OAEP with SHA-256 is a protocol constant shared with the encrypt
// side, not a parameter.
//
// Returns ErrMalformedWrapPackage for layout violations and
// ErrDecryptionFailed for cipher-level failures. Because the payload
// carries no authentication tag, corrupted ciphertext may also decrypt
// to garbage without any error.
func Decrypt(payload, wrapPackage []byte, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: private key is nil", kerrors.ErrDecryptionFailed)
	}

	iv, wrappedKey, err := SplitWrapPackage(wrapPackage, priv.Size())
	if err != nil {
		return nil, err
	}

	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, wrappedKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrapping session key: %v", kerrors.ErrDecryptionFailed, err)
	}
	defer utils.Zero(key)

	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: unwrapped key is %d bytes, expected %d", kerrors.ErrDecryptionFailed, len(key), KeySize)
	}

	if len(payload) == 0 || len(payload)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: payload length %d is not a positive multiple of the block size", kerrors.ErrDecryptionFailed, len(payload))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptionFailed, err)
	}

	padded := make([]byte, len(payload))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, payload)

	plain, err := pkcs7Unpad(padded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptionFailed, err)
	}
	return plain, nil
}
