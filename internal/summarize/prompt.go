package summarize

import (
	"fmt"
	"strings"
)

// SummaryPrompt builds the review-summarization prompt. The section headings
// requested here are what the response parser keys on.
func SummaryPrompt(platform string, bodies []string, features string) string {
	var sb strings.Builder
	sb.WriteString("Summarize the following product reviews")
	if platform != "" {
		fmt.Fprintf(&sb, " from %s", platform)
	}
	sb.WriteString(".\n")
	sb.WriteString("Format:\n")
	sb.WriteString("- Product Overall Star Rating\n")
	sb.WriteString("- Overall Impression\n")
	sb.WriteString("- Summary of Positive Feedbacks\n")
	sb.WriteString("- Summary of Negative Feedbacks\n")
	if features != "" {
		sb.WriteString("\nFeature ratings:\n")
		sb.WriteString(features)
		if !strings.HasSuffix(features, "\n") {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nReviews: ")
	sb.WriteString(strings.Join(bodies, " "))
	sb.WriteString("\n")
	return sb.String()
}

// ChatPrompt builds a follow-up question prompt seeded with the existing
// summary text.
func ChatPrompt(summaryText, question string) string {
	var sb strings.Builder
	sb.WriteString("Product Review Summary:\n")
	sb.WriteString(summaryText)
	sb.WriteString("\n\nUser Question:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer based on the above summary.\n")
	return sb.String()
}
