package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// PassphraseLength is the length of generated export passphrases. The
// passphrase protects the exported private key container and is exactly
// as sensitive as the key itself.
const PassphraseLength = 128

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{}<>?,."
)

// GeneratePassphrase returns a fresh random passphrase of
// PassphraseLength characters drawn from four character classes, with
// every class guaranteed present. The randomness source is crypto/rand.
func GeneratePassphrase() (string, error) {
	alphabet := lowerChars + upperChars + digitChars + symbolChars

	// At 128 characters the odds of missing a class are negligible;
	// the retry loop exists so the guarantee is structural rather than
	// statistical.
	for attempt := 0; attempt < 16; attempt++ {
		var b strings.Builder
		b.Grow(PassphraseLength)
		for i := 0; i < PassphraseLength; i++ {
			idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
			if err != nil {
				return "", fmt.Errorf("failed to draw random passphrase character: %w", err)
			}
			b.WriteByte(alphabet[idx.Int64()])
		}
		passphrase := b.String()
		if containsAllClasses(passphrase) {
			return passphrase, nil
		}
	}
	return "", fmt.Errorf("failed to generate passphrase covering all character classes")
}

func containsAllClasses(s string) bool {
	return strings.ContainsAny(s, lowerChars) &&
		strings.ContainsAny(s, upperChars) &&
		strings.ContainsAny(s, digitChars) &&
		strings.ContainsAny(s, symbolChars)
}
