package bundle

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
)

// gzipMagic is the two-byte gzip header used by IsBundle.
var gzipMagic = []byte{0x1f, 0x8b}

// Pack archives a directory into an in-memory tar.gz bundle. Paths
// inside the bundle are relative to dir, with forward slashes. Symlinks
// and other non-regular files are skipped; the bundle is a transport
// container, not a filesystem image.
func Pack(dir string) ([]byte, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat bundle source %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("bundle source %s is not a directory", dir)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	fileCount := 0
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("resolving relative path for %s: %w", path, err)
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("building header for %s: %w", rel, err)
		}
		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("writing header for %s: %w", rel, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", rel, err)
		}
		defer f.Close()

		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("archiving %s: %w", rel, err)
		}
		fileCount++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pack bundle from %s: %w", dir, err)
	}
	if fileCount == 0 {
		return nil, fmt.Errorf("%w: directory %s holds no regular files", kerrors.ErrNoInputFiles, dir)
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize bundle: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize bundle compression: %w", err)
	}
	return buf.Bytes(), nil
}

// Unpack extracts a tar.gz bundle into dest, creating it if needed.
// Entries that would escape dest are rejected.
//
// Returns ErrInvalidBundle for malformed archives or unsafe paths.
func Unpack(data []byte, dest string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: not a gzip stream: %v", kerrors.ErrInvalidBundle, err)
	}
	defer gz.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create bundle destination %s: %w", dest, err)
	}

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: reading entry: %v", kerrors.ErrInvalidBundle, err)
		}

		target, err := safeJoin(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", header.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create parent of %s: %w", header.Name, err)
			}
			if err := writeEntry(target, tr, header.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf("failed to extract %s: %w", header.Name, err)
			}
		default:
			// Links and specials never belong in a transport bundle.
			return fmt.Errorf("%w: unsupported entry type %d for %s", kerrors.ErrInvalidBundle, header.Typeflag, header.Name)
		}
	}
}

// IsBundle reports whether data looks like a gzip stream. Used to
// decide whether unsealed output should be offered for extraction.
func IsBundle(data []byte) bool {
	return len(data) >= len(gzipMagic) && bytes.Equal(data[:len(gzipMagic)], gzipMagic)
}

// safeJoin joins name under dest, rejecting absolute names and parent
// traversal.
func safeJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: unsafe path %q", kerrors.ErrInvalidBundle, name)
	}
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: path %q escapes destination", kerrors.ErrInvalidBundle, name)
	}
	return target, nil
}

func writeEntry(target string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0644
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
