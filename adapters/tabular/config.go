package tabular

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ReaderConfig holds configuration for reading one tabular source
type ReaderConfig struct {
	FilePath string `json:"file_path"`
	Encoding string `json:"encoding"` // utf-8, latin-1, windows-1252
	Sheet    string `json:"sheet"`    // xlsx only; first sheet when empty
}

// DefaultReaderConfig returns UTF-8 CSV defaults for path
func DefaultReaderConfig(path string) ReaderConfig {
	return ReaderConfig{FilePath: path, Encoding: "utf-8"}
}

// lookupEncoding resolves a declared encoding name
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
}
