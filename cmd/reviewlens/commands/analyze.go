package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/logger"
	"github.com/reviewlens/reviewlens/internal/output"
	"github.com/reviewlens/reviewlens/internal/pipeline"
	"github.com/reviewlens/reviewlens/internal/review"
	"github.com/reviewlens/reviewlens/internal/store"
	"github.com/reviewlens/reviewlens/internal/summarize"
	"github.com/reviewlens/reviewlens/internal/summary"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <product name>",
	Short: "Scrape a product's reviews and summarize them",
	Long: `Analyze searches the platform for the product, scrapes its reviews and
feature ratings, writes the reviews to a CSV file and prints a sectioned
summary built by the configured summarizer.

Examples:
  # Summarize from Amazon with defaults
  reviewlens analyze "boAt Airdopes 141"

  # Flipkart, deeper pagination, snapshot to file
  reviewlens analyze "realme Buds T110" -p flipkart --max-pages 8 -o snap.json

  # Use the Anthropic API instead of a local CLI
  reviewlens analyze "boAt Airdopes 141" --provider anthropic -m claude-sonnet-4-20250514`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	flags := analyzeCmd.Flags()

	flags.StringP("platform", "p", "amazon", "platform: amazon, flipkart")
	flags.String("section", "", "print only one section (default: all)")

	// Output settings
	flags.StringP("output", "o", "", "write the snapshot to this file")
	flags.String("format", "json", "snapshot format: json, yaml")

	// Scrape settings
	flags.String("csv-file", "", "CSV file for the scraped reviews")
	flags.Int("max-pages", 0, "max review pages per product")
	flags.Bool("stealth", true, "enable anti-bot detection evasion")
	flags.Bool("headful", false, "run the browser with a visible window")
	flags.Duration("timeout", 10*time.Second, "per-interaction browser wait")

	// Summarizer settings
	flags.String("provider", "", "summarizer backend: cli, anthropic, openai, ollama")
	flags.StringP("model", "m", "", "model name (backend-specific)")
	flags.StringP("api-key", "k", "", "API key (or use env var)")
	flags.String("base-url", "", "custom API base URL")
	flags.String("command", "", "summarizer CLI binary (cli backend)")
	flags.Duration("summary-timeout", 0, "summarizer timeout (0 = unbounded)")

	_ = viper.BindPFlag("csv_file", flags.Lookup("csv-file"))
	_ = viper.BindPFlag("max_pages", flags.Lookup("max-pages"))
	_ = viper.BindPFlag("browser.stealth", flags.Lookup("stealth"))
	_ = viper.BindPFlag("browser.timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("summarizer.provider", flags.Lookup("provider"))
	_ = viper.BindPFlag("summarizer.model", flags.Lookup("model"))
	_ = viper.BindPFlag("summarizer.api_key", flags.Lookup("api-key"))
	_ = viper.BindPFlag("summarizer.base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("summarizer.command", flags.Lookup("command"))
	_ = viper.BindPFlag("summarizer.timeout", flags.Lookup("summary-timeout"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logError("%v", err)
		return err
	}
	if headful, _ := cmd.Flags().GetBool("headful"); headful {
		cfg.Browser.Headless = false
	}

	platformStr, _ := cmd.Flags().GetString("platform")
	p, err := review.ParsePlatform(platformStr)
	if err != nil {
		logError("%v", err)
		return err
	}

	sectionFlag, _ := cmd.Flags().GetString("section")
	if sectionFlag != "" {
		if _, ok := (summary.Sections{}).Get(sectionFlag); !ok {
			err := fmt.Errorf("unknown section %q (available: %s)", sectionFlag, strings.Join(summary.Names(), ", "))
			logError("%v", err)
			return err
		}
	}

	summarizer, err := newSummarizer(cfg)
	if err != nil {
		logError("%v", err)
		return err
	}

	query := strings.Join(args, " ")
	logger.Info("starting analysis", "query", query, "platform", p, "summarizer", summarizer.Name())

	runner := pipeline.New(cfg, store.New(cfg.CSVFile), summarizer)
	snap, err := runner.Run(ctx, pipeline.Request{Query: query, Platform: p})
	if err != nil {
		logError("%v", err)
		return err
	}

	printSections(cmd, snap.Sections, sectionFlag)

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		formatStr, _ := cmd.Flags().GetString("format")
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			logError("%v", err)
			return err
		}
		if err := output.WriteFile(outPath, format, snap); err != nil {
			logError("%v", err)
			return err
		}
		logger.Info("snapshot written", "path", outPath, "format", format)
	}

	return nil
}

// newSummarizer builds the configured summarization backend.
func newSummarizer(cfg *config.Config) (summarize.Summarizer, error) {
	return summarize.New(cfg.Summarizer.Provider, summarize.Config{
		Command:   cfg.Summarizer.Command,
		Model:     cfg.Summarizer.Model,
		APIKey:    cfg.Summarizer.APIKey,
		BaseURL:   cfg.Summarizer.BaseURL,
		MaxTokens: cfg.Summarizer.MaxTokens,
		Timeout:   cfg.Summarizer.Timeout,
	})
}

// printSections writes the summary to stdout, either one named section or
// all of them with headers.
func printSections(cmd *cobra.Command, sections summary.Sections, only string) {
	if only != "" {
		text, _ := sections.Get(only)
		if text == "" {
			text = "(empty)"
		}
		cmd.Println(text)
		return
	}
	for _, name := range summary.Names() {
		text, _ := sections.Get(name)
		if text == "" {
			text = "(empty)"
		}
		cmd.Printf("=== %s ===\n%s\n\n", name, text)
	}
}
