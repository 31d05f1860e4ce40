// Package output serializes analysis snapshots.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Format represents output format types.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (available: json, yaml)", s)
	}
}

// Writer serializes one document to its underlying stream.
type Writer interface {
	Write(data any) error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile serializes a document to a file, replacing any existing content.
func WriteFile(path string, format Format, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w, err := NewWriter(f, format)
	if err != nil {
		return err
	}
	if err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}
