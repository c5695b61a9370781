// Package format provides file format detection and character encoding for
// EDM display files.
package format

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a file kind understood by edlkit.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// Display indicates an EDM display file (.edl).
	Display
	// Rules indicates a YAML substitution rule file.
	Rules
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Display:
		return "Display"
	case Rules:
		return "Rules"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case Display:
		return ".edl"
	case Rules:
		return ".yaml"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".edl":
		return Display
	case ".yaml", ".yml":
		return Rules
	default:
		return Unknown
	}
}

// DetectFromMagic checks the start of a file for the display file signature:
// a "major minor release" version line followed by beginScreenProperties.
// Returns Unknown if the data does not look like a display file.
func DetectFromMagic(data []byte) Format {
	if len(data) > 4096 {
		data = data[:4096]
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sawVersion := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !sawVersion {
			if !isVersionLine(line) {
				return Unknown
			}
			sawVersion = true
			continue
		}
		if line == "beginScreenProperties" {
			return Display
		}
		return Unknown
	}
	return Unknown
}

// DetectFromReader inspects the content to determine format.
func DetectFromReader(r io.Reader) (Format, error) {
	magic := make([]byte, 512)
	n, err := io.ReadFull(r, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

func isVersionLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return false
	}
	for _, f := range fields {
		for _, c := range f {
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}

// IsDisplay reports whether a path names a display file, by extension
func IsDisplay(path string) bool {
	return Detect(path) == Display
}
