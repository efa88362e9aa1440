package codec

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// ToText encodes binary artifact bytes as a Base64 string. The encoding
// is pure transport: it round-trips byte-exact through FromText.
func ToText(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromText decodes a Base64 text artifact back to its binary form.
// Surrounding whitespace is tolerated so artifacts survive editors and
// copy-paste through text channels.
func FromText(text string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 text artifact: %w", err)
	}
	return data, nil
}

// WriteTextFile writes the Base64 text view of data to path with a
// trailing newline.
func WriteTextFile(path string, data []byte) error {
	text := ToText(data) + "\n"
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		return fmt.Errorf("failed to write text artifact to %s: %w", path, err)
	}
	return nil
}

// ReadTextFile reads a Base64 text artifact from path and decodes it.
func ReadTextFile(path string) ([]byte, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text artifact at %s: %w", path, err)
	}
	return FromText(string(text))
}
