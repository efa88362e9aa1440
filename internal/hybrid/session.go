package hybrid

import (
	"crypto/aes"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/oakmoss-dev/sealcrate/internal/utils"
)

const (
	// KeySize is the session key length in bytes (AES-256).
	KeySize = 32

	// IVSize is the initialization vector length in bytes. It equals
	// the AES block size and leads every wrap package.
	IVSize = aes.BlockSize
)

// SessionKey is a one-time symmetric key and IV pair. It is generated
// fresh for every encryption operation and only ever leaves the process
// in wrapped form.
type SessionKey struct {
	Key []byte
	IV  []byte
}

// NewSessionKey generates a fresh key and IV from a cryptographically
// strong random source.
func NewSessionKey() (*SessionKey, error) {
	s := &SessionKey{
		Key: make([]byte, KeySize),
		IV:  make([]byte, IVSize),
	}
	if _, err := io.ReadFull(rand.Reader, s.Key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, s.IV); err != nil {
		return nil, fmt.Errorf("failed to generate initialization vector: %w", err)
	}
	return s, nil
}

// Destroy zeroes the key material. Callers defer this as soon as the
// session key exists so the exposure window stays as small as the
// enclosing call.
func (s *SessionKey) Destroy() {
	if s == nil {
		return
	}
	utils.Zero(s.Key)
	utils.Zero(s.IV)
}
