package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/pipeline"
)

var chatCmd = &cobra.Command{
	Use:   "chat -s <snapshot file> [question]",
	Short: "Ask questions about a saved analysis snapshot",
	Long: `Chat loads a snapshot written by "analyze -o" and answers questions
about the product using the configured summarizer. The summarizer only
sees the summary sections, not the raw reviews.

With a question on the command line it answers once and exits;
otherwise it starts an interactive loop (exit with "quit" or Ctrl-D).`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	flags := chatCmd.Flags()
	flags.StringP("snapshot", "s", "", "snapshot file written by analyze -o (required)")
	flags.String("provider", "", "summarizer backend: cli, anthropic, openai, ollama")
	flags.StringP("model", "m", "", "model name (backend-specific)")

	_ = chatCmd.MarkFlagRequired("snapshot")
}

func runChat(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snapPath, _ := cmd.Flags().GetString("snapshot")
	snap, err := loadSnapshot(snapPath)
	if err != nil {
		logError("%v", err)
		return err
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logError("%v", err)
		return err
	}
	// Viper keys for these are already bound by analyze's flag set, so
	// apply this command's overrides directly.
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.Summarizer.Provider = provider
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Summarizer.Model = model
	}
	if err := cfg.Validate(); err != nil {
		logError("%v", err)
		return err
	}
	summarizer, err := newSummarizer(cfg)
	if err != nil {
		logError("%v", err)
		return err
	}

	if len(args) > 0 {
		answer := pipeline.Chat(ctx, summarizer, snap.Sections, strings.Join(args, " "))
		cmd.Println(answer)
		return nil
	}

	cmd.Printf("Chatting about %q (%s). Type \"quit\" to leave.\n", snap.Product, snap.Platform)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		cmd.Print("You: ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "quit" || question == "exit" {
			break
		}
		if err := ctx.Err(); err != nil {
			break
		}
		cmd.Printf("Assistant: %s\n\n", pipeline.Chat(ctx, summarizer, snap.Sections, question))
	}
	return scanner.Err()
}

func loadSnapshot(path string) (*pipeline.Snapshot, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads a user-specified file
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap pipeline.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return &snap, nil
}
