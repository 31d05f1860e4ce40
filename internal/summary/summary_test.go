package summary

import (
	"strings"
	"testing"
)

const sampleResponse = `Here is the summary you asked for.

**Overall Impression:** A well-rounded phone for the price.
Most buyers would purchase it again.

**Positive Feedbacks**
* Excellent battery life
* Bright, sharp display

**Negative Feedbacks**
* Heats up while gaming
- Ships without a charger
`

func TestParse_ThreeSections(t *testing.T) {
	s := Parse(sampleResponse)

	if s.Impression == "" || s.Positive == "" || s.Negative == "" {
		t.Fatalf("expected all three sections populated: %+v", s)
	}

	if !strings.HasPrefix(s.Impression, "A well-rounded phone for the price.") {
		t.Errorf("impression should start with the text after the colon, got %q", s.Impression)
	}
	if !strings.Contains(s.Impression, "Most buyers would purchase it again.") {
		t.Errorf("impression should include following lines, got %q", s.Impression)
	}
}

func TestParse_StripsAsterisks(t *testing.T) {
	s := Parse(sampleResponse)

	for name, text := range map[string]string{
		"impression": s.Impression,
		"positive":   s.Positive,
		"negative":   s.Negative,
	} {
		if strings.Contains(text, "*") {
			t.Errorf("%s section should have asterisks stripped, got %q", name, text)
		}
	}
}

func TestParse_BulletPrefixesPositiveNegative(t *testing.T) {
	s := Parse(sampleResponse)

	for _, line := range nonEmptyLines(s.Positive) {
		if !strings.HasPrefix(line, "- ") {
			t.Errorf("positive line missing bullet: %q", line)
		}
	}
	for _, line := range nonEmptyLines(s.Negative) {
		if !strings.HasPrefix(line, "-") {
			t.Errorf("negative line missing bullet: %q", line)
		}
	}
}

func TestParse_ExistingBulletNotDoubled(t *testing.T) {
	s := Parse(sampleResponse)

	if strings.Contains(s.Negative, "- - ") {
		t.Errorf("pre-bulleted line should not be double-prefixed: %q", s.Negative)
	}
	if !strings.Contains(s.Negative, "- Ships without a charger") {
		t.Errorf("expected pre-bulleted line kept as-is, got %q", s.Negative)
	}
}

func TestParse_ImpressionLinesNotBulleted(t *testing.T) {
	s := Parse(sampleResponse)

	for _, line := range nonEmptyLines(s.Impression) {
		if strings.HasPrefix(line, "- ") {
			t.Errorf("impression line should not be bulleted: %q", line)
		}
	}
}

func TestParse_IgnoresPreambleBeforeFirstHeader(t *testing.T) {
	s := Parse(sampleResponse)

	if strings.Contains(s.Impression, "Here is the summary") {
		t.Errorf("preamble should not be captured: %q", s.Impression)
	}
}

func TestParse_SubstringTriggerSwitchesSections(t *testing.T) {
	// A body line containing the bare word "negative" acts as a header.
	// This mirrors the keyword-substring behavior being preserved.
	raw := strings.Join([]string{
		"Overall Impression: Fine phone.",
		"Nothing negative to report overall.",
		"This line lands in the negative section.",
	}, "\n")

	s := Parse(raw)

	if strings.Contains(s.Impression, "lands in the negative section") {
		t.Errorf("expected section switch on keyword line, impression = %q", s.Impression)
	}
	if !strings.Contains(s.Negative, "- This line lands in the negative section.") {
		t.Errorf("expected trailing line in negative section, got %q", s.Negative)
	}
}

func TestParse_HeaderWithoutColonText(t *testing.T) {
	raw := "Overall Impression\nSolid value.\n"
	s := Parse(raw)

	if s.Impression != "Solid value." {
		t.Errorf("expected body line only, got %q", s.Impression)
	}
}

func TestParse_ErrorTextYieldsEmptySections(t *testing.T) {
	// A summarizer failure string flows through the parser as ordinary,
	// unparseable text.
	s := Parse("Error: gemini: command not found")

	if s.Impression != "" || s.Positive != "" || s.Negative != "" {
		t.Errorf("expected empty sections for unparseable text, got %+v", s)
	}
}

func TestSections_Get(t *testing.T) {
	s := Sections{Impression: "good", Positive: "- p", Negative: "- n", StarRating: "4.2", Features: "Battery: 10 positive | 2 negative"}

	for _, name := range Names() {
		if _, ok := s.Get(name); !ok {
			t.Errorf("Get(%q) not found", name)
		}
	}
	if _, ok := s.Get("Bogus"); ok {
		t.Error("expected unknown section to report not found")
	}
	if got, _ := s.Get(SectionImpression); got != "good" {
		t.Errorf("Get(impression) = %q", got)
	}
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
