package format

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding is the character encoding of a display file on disk
type Encoding int

const (
	// Latin1 is ISO-8859-1, what EDM itself reads and writes.
	Latin1 Encoding = iota
	// UTF8 passes bytes through unchanged.
	UTF8
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	default:
		return "latin1"
	}
}

// ParseEncoding parses an encoding name as used in configuration
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return Latin1, nil
	case "utf8", "utf-8":
		return UTF8, nil
	default:
		return Latin1, fmt.Errorf("unknown encoding %q", name)
	}
}

// Decode converts file bytes to a string
func Decode(data []byte, enc Encoding) (string, error) {
	if enc == UTF8 {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("input is not valid UTF-8")
		}
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("latin1 decode: %w", err)
	}
	return string(out), nil
}

// Encode converts a string to file bytes. Characters that Latin-1 cannot
// represent are an error.
func Encode(s string, enc Encoding) ([]byte, error) {
	if enc == UTF8 {
		return []byte(s), nil
	}
	out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("latin1 encode: %w", err)
	}
	return out, nil
}

// ReadFile reads and decodes a display file
func ReadFile(path string, enc Encoding) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s, err := Decode(data, enc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteFile encodes s and writes it atomically: the data goes to a temporary
// file in the same directory which is then renamed over path.
func WriteFile(path, s string, enc Encoding) error {
	data, err := Encode(s, enc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, keeping the permissions of an existing file
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
