package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/match"
	"github.com/reviewlens/reviewlens/internal/platform"
	"github.com/reviewlens/reviewlens/internal/review"
	"github.com/reviewlens/reviewlens/internal/store"
	"github.com/reviewlens/reviewlens/internal/summary"
)

const cannedSummary = `**Overall Impression:** Solid budget earbuds with minor flaws.
**Summary of Positive Feedbacks:**
Battery life easily lasts a full day
Sound quality punches above the price
**Summary of Negative Feedbacks:**
Mic quality is poor on calls
`

type fakeSummarizer struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *fakeSummarizer) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeSummarizer) Name() string { return "fake" }

type fakeExtractor struct {
	candidates []match.Candidate
	result     *platform.Result
}

func (f *fakeExtractor) Platform() review.Platform    { return review.PlatformAmazon }
func (f *fakeExtractor) SearchURL(query string) string { return "https://example.com/s?q=" + query }
func (f *fakeExtractor) Search(context.Context, platform.Driver, string) ([]match.Candidate, error) {
	return f.candidates, nil
}
func (f *fakeExtractor) ParseSearch(string) []match.Candidate { return f.candidates }
func (f *fakeExtractor) Extract(_ context.Context, _ platform.Driver, product match.Candidate) (*platform.Result, error) {
	f.result.Product = product
	return f.result, nil
}

func sampleResult() *platform.Result {
	return &platform.Result{
		Rating: review.RatingInfo{Rating: "4.1", TotalRatings: "1,24,531 ratings"},
		Aspects: []review.AspectRating{
			{Label: "Battery", Positive: "287", Negative: "25", Sentiment: review.SentimentPositive},
		},
		Reviews: []review.Review{
			{ProductName: "boAt Airdopes 141", ReviewerName: "Ravi Kumar", StarRating: "5.0", Date: "12 August 2025", Body: "Great battery."},
			{ProductName: "boAt Airdopes 141", ReviewerName: "Anonymous", StarRating: "2.0", Date: "3 July 2025", Body: "Mic is bad."},
		},
	}
}

func newTestRunner(t *testing.T, ext platform.Extractor, s *fakeSummarizer) (*Runner, string) {
	t.Helper()
	csvPath := filepath.Join(t.TempDir(), "reviews.csv")
	cfg := &config.Config{
		CSVFile:      csvPath,
		MaxPages:     2,
		ReviewColumn: "review_body",
	}

	r := New(cfg, store.New(csvPath), s)
	r.newDriver = func(context.Context) (platform.Driver, func(), error) {
		return nil, func() {}, nil
	}
	r.extractorFor = func(review.Platform) (platform.Extractor, error) {
		return ext, nil
	}
	return r, csvPath
}

func TestRunHappyPath(t *testing.T) {
	ext := &fakeExtractor{
		candidates: []match.Candidate{
			{Title: "Some Other Product", URL: "https://example.com/other"},
			{Title: "boAt Airdopes 141 Bluetooth TWS Earbuds", URL: "https://example.com/dp/B09N3ZNHTY"},
		},
		result: sampleResult(),
	}
	s := &fakeSummarizer{response: cannedSummary}
	r, csvPath := newTestRunner(t, ext, s)

	snap, err := r.Run(context.Background(), Request{Query: "boAt Airdopes 141", Platform: review.PlatformAmazon})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if snap.Product != "boAt Airdopes 141 Bluetooth TWS Earbuds" {
		t.Errorf("unexpected product: %q", snap.Product)
	}
	if snap.ReviewCount != 2 {
		t.Errorf("unexpected review count: %d", snap.ReviewCount)
	}
	if snap.Sections.Impression != "Solid budget earbuds with minor flaws." {
		t.Errorf("unexpected impression: %q", snap.Sections.Impression)
	}
	if !strings.Contains(snap.Sections.Positive, "- Battery life easily lasts a full day") {
		t.Errorf("unexpected positive section: %q", snap.Sections.Positive)
	}
	if !strings.Contains(snap.Sections.StarRating, "Rating: 4.1/5") {
		t.Errorf("unexpected star rating section: %q", snap.Sections.StarRating)
	}
	if !strings.Contains(snap.Sections.Features, "Battery: 287 positive | 25 negative") {
		t.Errorf("unexpected features section: %q", snap.Sections.Features)
	}

	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("expected reviews CSV written: %v", err)
	}
	if s.calls != 1 {
		t.Errorf("expected exactly one summarizer call, got %d", s.calls)
	}
	// The prompt must be built from the persisted bodies.
	if !strings.Contains(s.prompt, "Great battery.") || !strings.Contains(s.prompt, "Mic is bad.") {
		t.Errorf("review bodies missing from prompt: %q", s.prompt)
	}
}

func TestRunNoReviewsSkipsWriteAndSummary(t *testing.T) {
	result := sampleResult()
	result.Reviews = nil
	ext := &fakeExtractor{
		candidates: []match.Candidate{{Title: "boAt Airdopes 141", URL: "https://example.com/dp/X"}},
		result:     result,
	}
	s := &fakeSummarizer{response: cannedSummary}
	r, csvPath := newTestRunner(t, ext, s)

	snap, err := r.Run(context.Background(), Request{Query: "boAt Airdopes 141", Platform: review.PlatformAmazon})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if snap.ReviewCount != 0 {
		t.Errorf("unexpected review count: %d", snap.ReviewCount)
	}
	if snap.Sections.Impression != "" {
		t.Errorf("expected empty impression, got %q", snap.Sections.Impression)
	}
	if !strings.Contains(snap.Sections.StarRating, "Rating: 4.1/5") {
		t.Errorf("rating section should still be present: %q", snap.Sections.StarRating)
	}
	if _, err := os.Stat(csvPath); !os.IsNotExist(err) {
		t.Error("expected no CSV file for empty review set")
	}
	if s.calls != 0 {
		t.Errorf("summarizer should not be called, got %d calls", s.calls)
	}
}

func TestRunNoMatch(t *testing.T) {
	ext := &fakeExtractor{
		candidates: []match.Candidate{{Title: "Completely Different Product", URL: "https://example.com/dp/Y"}},
		result:     sampleResult(),
	}
	r, _ := newTestRunner(t, ext, &fakeSummarizer{})

	_, err := r.Run(context.Background(), Request{Query: "boAt Airdopes 141", Platform: review.PlatformAmazon})
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
}

func TestRunSummarizerFailureYieldsEmptySections(t *testing.T) {
	ext := &fakeExtractor{
		candidates: []match.Candidate{{Title: "boAt Airdopes 141", URL: "https://example.com/dp/X"}},
		result:     sampleResult(),
	}
	s := &fakeSummarizer{err: errors.New("quota exceeded")}
	r, csvPath := newTestRunner(t, ext, s)

	snap, err := r.Run(context.Background(), Request{Query: "boAt Airdopes 141", Platform: review.PlatformAmazon})
	if err != nil {
		t.Fatalf("Run should not fail on summarizer errors: %v", err)
	}

	if snap.Sections.Impression != "" || snap.Sections.Positive != "" || snap.Sections.Negative != "" {
		t.Errorf("expected empty summary sections, got %+v", snap.Sections)
	}
	// Reviews were still collected and persisted.
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("expected reviews CSV written despite summary failure: %v", err)
	}
}

func TestChat(t *testing.T) {
	s := &fakeSummarizer{response: "It handles calls poorly."}
	sections := summary.Sections{
		Impression: "Solid budget earbuds.",
		Positive:   "- Battery life",
		Negative:   "- Mic quality",
	}

	answer := Chat(context.Background(), s, sections, "How is the mic?")
	if answer != "It handles calls poorly." {
		t.Errorf("unexpected answer: %q", answer)
	}
	if !strings.Contains(s.prompt, "How is the mic?") {
		t.Errorf("question missing from prompt: %q", s.prompt)
	}
	if !strings.Contains(s.prompt, "Solid budget earbuds.") {
		t.Errorf("summary context missing from prompt: %q", s.prompt)
	}
}

func TestChatSummarizerFailure(t *testing.T) {
	s := &fakeSummarizer{err: errors.New("network down")}
	answer := Chat(context.Background(), s, summary.Sections{Impression: "x"}, "q")
	if answer != "Error: network down" {
		t.Errorf("unexpected answer: %q", answer)
	}
}
