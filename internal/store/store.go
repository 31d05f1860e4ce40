// Package store persists scraped reviews to a flat CSV file.
//
// The file is UTF-8 with a byte-order mark so spreadsheet tools detect the
// encoding, one row per review, fully rewritten on every run. It is both the
// output artifact and the input to the summarizer.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/reviewlens/reviewlens/internal/review"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store reads and writes the review CSV at a fixed path.
type Store struct {
	path string
}

// New creates a store for the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the CSV file path.
func (s *Store) Path() string {
	return s.path
}

// Write replaces the file with the given reviews. Callers are expected to
// skip the call entirely when no reviews were collected; writing an empty
// set is an error rather than an empty file.
func (s *Store) Write(reviews []review.Review) error {
	if len(reviews) == 0 {
		return fmt.Errorf("refusing to write empty review set to %s", s.path)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(review.Fields()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range reviews {
		if err := w.Write(r.Row()); err != nil {
			return fmt.Errorf("failed to write review row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return f.Close()
}

// Read loads all reviews back from the file.
func (s *Store) Read() ([]review.Review, error) {
	rows, _, err := s.readAll()
	if err != nil {
		return nil, err
	}

	reviews := make([]review.Review, 0, len(rows))
	for _, row := range rows {
		r, err := review.FromRow(row)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

// Bodies returns the non-empty values of the named column, in row order.
// This is what gets concatenated into the summarizer prompt.
func (s *Store) Bodies(column string) ([]string, error) {
	rows, header, err := s.readAll()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, name := range header {
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in %s (header: %s)", column, s.path, strings.Join(header, ", "))
	}

	var bodies []string
	for _, row := range rows {
		if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
			bodies = append(bodies, row[idx])
		}
	}
	return bodies, nil
}

// readAll parses the file into header and data rows, stripping the BOM.
func (s *Store) readAll() (rows [][]string, header []string, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	data = stripBOM(data)

	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", s.path)
	}
	return all[1:], all[0], nil
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == utf8BOM[0] && data[1] == utf8BOM[1] && data[2] == utf8BOM[2] {
		return data[3:]
	}
	return data
}
