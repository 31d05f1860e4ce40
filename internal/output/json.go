package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter writes pretty-printed JSON output.
type JSONWriter struct {
	w *bufio.Writer
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w)}
}

// Write serializes one document.
func (w *JSONWriter) Write(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}
