// Package summary splits a summarizer response into named sections.
package summary

import (
	"regexp"
	"strings"
)

// Section names, as presented to the user and used by --section.
const (
	SectionStarRating = "Product Overall Star Rating"
	SectionImpression = "Overall Impression"
	SectionPositive   = "Summary of Positive Feedbacks"
	SectionNegative   = "Summary of Negative Feedbacks"
	SectionFeatures   = "Feature Ratings"
)

// Names lists the selectable sections in display order.
func Names() []string {
	return []string{
		SectionStarRating,
		SectionImpression,
		SectionPositive,
		SectionNegative,
		SectionFeatures,
	}
}

// Sections holds the parsed summary. Rebuilt on every analysis run; there is
// no history across runs.
type Sections struct {
	StarRating string `json:"star_rating,omitempty" yaml:"star_rating,omitempty"`
	Impression string `json:"impression,omitempty" yaml:"impression,omitempty"`
	Positive   string `json:"positive,omitempty" yaml:"positive,omitempty"`
	Negative   string `json:"negative,omitempty" yaml:"negative,omitempty"`
	Features   string `json:"features,omitempty" yaml:"features,omitempty"`
}

// Get returns the named section's text.
func (s Sections) Get(name string) (string, bool) {
	switch name {
	case SectionStarRating:
		return s.StarRating, true
	case SectionImpression:
		return s.Impression, true
	case SectionPositive:
		return s.Positive, true
	case SectionNegative:
		return s.Negative, true
	case SectionFeatures:
		return s.Features, true
	default:
		return "", false
	}
}

// parser states
type state int

const (
	stateIdle state = iota
	stateImpression
	statePositive
	stateNegative
)

var asterisks = regexp.MustCompile(`\*+`)

// Parse runs the line-by-line state machine over the summarizer's raw text.
//
// Header detection is a lowercased substring test, in the order
// "overall impression", "positive", "negative". A header line consumes
// itself; an "overall impression" header additionally contributes any text
// after a colon on the same line. Body lines have asterisk runs stripped,
// and lines in the positive/negative sections are forced to start with a
// "- " bullet. The substring trigger means a body line containing the bare
// word "positive" switches sections; that mirrors the observed behavior of
// the tool this replaces and is deliberately left as-is.
func Parse(raw string) Sections {
	var out Sections
	cur := stateIdle

	for _, line := range strings.Split(raw, "\n") {
		l := strings.TrimSpace(line)
		if l == "" {
			continue
		}

		lower := strings.ToLower(l)
		switch {
		case strings.Contains(lower, "overall impression"):
			cur = stateImpression
			cleaned := asterisks.ReplaceAllString(l, "")
			if _, after, found := strings.Cut(cleaned, ":"); found {
				if rest := strings.TrimSpace(after); rest != "" {
					out.Impression += rest + "\n\n"
				}
			}
			continue
		case strings.Contains(lower, "positive"):
			cur = statePositive
			continue
		case strings.Contains(lower, "negative"):
			cur = stateNegative
			continue
		}

		if cur == stateIdle {
			continue
		}

		clean := strings.TrimSpace(asterisks.ReplaceAllString(l, ""))
		if clean == "" {
			continue
		}

		switch cur {
		case stateImpression:
			out.Impression += clean + "\n\n"
		case statePositive:
			out.Positive += bullet(clean) + "\n\n"
		case stateNegative:
			out.Negative += bullet(clean) + "\n\n"
		}
	}

	out.Impression = strings.TrimSpace(out.Impression)
	out.Positive = strings.TrimSpace(out.Positive)
	out.Negative = strings.TrimSpace(out.Negative)
	return out
}

func bullet(line string) string {
	if strings.HasPrefix(line, "-") {
		return line
	}
	return "- " + line
}
