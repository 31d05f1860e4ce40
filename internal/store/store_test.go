package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reviewlens/reviewlens/internal/review"
)

func sampleReviews() []review.Review {
	return []review.Review{
		{
			ProductName:   "Apple iPhone 15 (128GB) - Black",
			OverallRating: "4.5",
			TotalRatings:  "12,345 ratings",
			ReviewerName:  "Asha",
			StarRating:    "5.0 out of 5 stars",
			Date:          "Reviewed in India on 2 August 2025",
			Body:          "Battery life is great, camera even better.",
		},
		{
			ProductName:   "Apple iPhone 15 (128GB) - Black",
			OverallRating: "4.5",
			TotalRatings:  "12,345 ratings",
			ReviewerName:  review.AnonymousAuthor,
			StarRating:    "3.0 out of 5 stars",
			Date:          "Reviewed in India on 1 August 2025",
			Body:          "Decent phone, \"pricey\" though, with a comma, here.",
		},
		{
			ProductName:   "Apple iPhone 15 (128GB) - Black",
			OverallRating: "4.5",
			TotalRatings:  "12,345 ratings",
			ReviewerName:  "Ravi",
			StarRating:    "1.0 out of 5 stars",
			Date:          "Reviewed in India on 30 July 2025",
			Body:          review.NoContent,
		},
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	s := New(path)

	want := sampleReviews()
	if err := s.Write(want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d reviews, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("review %d mismatch:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}
}

func TestWrite_PrefixesBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	s := New(path)

	if err := s.Write(sampleReviews()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) < 3 || data[0] != 0xEF || data[1] != 0xBB || data[2] != 0xBF {
		t.Error("expected UTF-8 BOM at start of file")
	}
}

func TestWrite_RefusesEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	s := New(path)

	if err := s.Write(nil); err == nil {
		t.Error("expected error writing empty review set")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created for an empty review set")
	}
}

func TestWrite_OverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	s := New(path)

	if err := s.Write(sampleReviews()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Write(sampleReviews()[:1]); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected file to be fully rewritten, got %d rows", len(got))
	}
}

func TestBodies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	s := New(path)

	if err := s.Write(sampleReviews()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	bodies, err := s.Bodies("review_body")
	if err != nil {
		t.Fatalf("Bodies() error = %v", err)
	}
	if len(bodies) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(bodies))
	}
	if bodies[0] != "Battery life is great, camera even better." {
		t.Errorf("unexpected first body: %q", bodies[0])
	}
}

func TestBodies_UnknownColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	s := New(path)

	if err := s.Write(sampleReviews()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := s.Bodies("no_such_column"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestRead_MissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.csv"))
	if _, err := s.Read(); err == nil {
		t.Error("expected error reading missing file")
	}
}
