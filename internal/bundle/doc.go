// Package bundle archives a directory into a single tar.gz byte
// sequence and extracts it again. It exists so the encryption core only
// ever sees one byte buffer per protection session; it performs no
// encryption itself.
package bundle
