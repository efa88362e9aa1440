package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Username performing the operation.
	UserUUID  string `json:"uuid,omitempty"`
	Operation string `json:"op"` // Operation name.

	// Optional fields depending on operation.
	Subject     string   `json:"subject,omitempty"`      // For provision/seal.
	Thumbprint  string   `json:"thumbprint,omitempty"`   // Certificate fingerprint.
	Artifacts   []string `json:"artifacts,omitempty"`    // Artifact names written or removed.
	InputPath   string   `json:"input_path,omitempty"`   // For seal.
	OutputPath  string   `json:"output_path,omitempty"`  // For unseal.
	PayloadSize int64    `json:"payload_size,omitempty"` // Sealed payload bytes.
	SessionUUID string   `json:"session_uuid,omitempty"`
}

// Append writes an entry to the audit log in the given vault directory.
// If logging fails it is silently dropped; operations should not fail
// because the audit trail could not be written.
func Append(vaultDir string, entry Entry) {
	if vaultDir == "" {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	logPath := filepath.Join(vaultDir, "audit.jsonl")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(data)
}
