// Package summarize provides a unified interface over summarization
// backends: an external CLI tool (the default), hosted LLM APIs, and a
// local Ollama instance.
package summarize

import (
	"context"
	"time"
)

// Summarizer is the core abstraction over summarization backends.
type Summarizer interface {
	// Complete sends a prompt and returns the response text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the backend identifier.
	Name() string
}

// Config holds common configuration for backends.
type Config struct {
	Command   string        // Path to the external summarizer executable (cli backend)
	Model     string        // Model name (API backends)
	APIKey    string        // API key (API backends)
	BaseURL   string        // Custom endpoint (openai-compatible / ollama)
	MaxTokens int           // Response token cap (API backends)
	Timeout   time.Duration // Per-call timeout; 0 = unbounded
}
