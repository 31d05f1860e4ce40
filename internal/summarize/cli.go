package summarize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CLIProvider invokes an external command-line summarizer (e.g. the Gemini
// CLI). The prompt goes to the process on standard input; standard output is
// the response.
//
// This backend never returns a Go error for a failed invocation: a nonzero
// exit yields "Error: <stderr>" and a spawn failure yields "CLI call
// failed: <reason>", both as ordinary response text. Downstream parsing
// treats such strings as unparseable content, which is the intended path.
type CLIProvider struct {
	command string
	timeout timeoutFn
}

type timeoutFn func(context.Context) (context.Context, context.CancelFunc)

// NewCLIProvider creates a CLI backend for the given executable path.
func NewCLIProvider(cfg Config) (*CLIProvider, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("cli summarizer requires a command path")
	}

	timeout := func(ctx context.Context) (context.Context, context.CancelFunc) {
		return ctx, func() {}
	}
	if cfg.Timeout > 0 {
		d := cfg.Timeout
		timeout = func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, d)
		}
	}

	return &CLIProvider{command: cfg.Command, timeout: timeout}, nil
}

// Complete runs the external tool once, non-interactively.
func (p *CLIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := p.timeout(ctx)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.command)
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "Error: " + strings.TrimSpace(toValidUTF8(stderr.String())), nil
		}
		return "CLI call failed: " + err.Error(), nil
	}

	return strings.TrimSpace(toValidUTF8(stdout.String())), nil
}

// Name returns the backend identifier.
func (p *CLIProvider) Name() string {
	return "cli"
}

// toValidUTF8 replaces invalid byte sequences so model output with stray
// encodings cannot corrupt the CSV or terminal.
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}
