package summarize

import "fmt"

// Factory creates a summarizer backend from config.
type Factory func(cfg Config) (Summarizer, error)

// DefaultProvider is the backend used when none is configured.
const DefaultProvider = "cli"

var registry = map[string]Factory{
	"cli": func(cfg Config) (Summarizer, error) {
		return NewCLIProvider(cfg)
	},
	"anthropic": func(cfg Config) (Summarizer, error) {
		return NewAnthropicProvider(cfg)
	},
	"openai": func(cfg Config) (Summarizer, error) {
		return NewOpenAIProvider(cfg)
	},
	"ollama": func(cfg Config) (Summarizer, error) {
		return NewOllamaProvider(cfg)
	},
}

// New creates a backend by name.
func New(name string, cfg Config) (Summarizer, error) {
	if name == "" {
		name = DefaultProvider
	}
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown summarizer: %s (available: cli, anthropic, openai, ollama)", name)
	}
	return factory(cfg)
}
