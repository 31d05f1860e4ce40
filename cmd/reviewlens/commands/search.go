package commands

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reviewlens/reviewlens/internal/fetch"
	"github.com/reviewlens/reviewlens/internal/logger"
	"github.com/reviewlens/reviewlens/internal/match"
	"github.com/reviewlens/reviewlens/internal/platform"
	"github.com/reviewlens/reviewlens/internal/review"
)

var searchCmd = &cobra.Command{
	Use:   "search <product name>",
	Short: "List search candidates for a product",
	Long: `Search fetches the platform's search-results page over plain HTTP and
lists the product candidates with their URLs. The candidate that an
analysis run would pick is marked with an asterisk.

Useful for checking what a query matches before paying for a full
browser-driven analysis.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	flags := searchCmd.Flags()
	flags.StringP("platform", "p", "amazon", "platform: amazon, flipkart")
	flags.Duration("timeout", 30*time.Second, "request timeout")
}

func runSearch(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	platformStr, _ := cmd.Flags().GetString("platform")
	p, err := review.ParsePlatform(platformStr)
	if err != nil {
		logError("%v", err)
		return err
	}

	ext, err := platform.For(p, platform.Config{MaxPages: 1})
	if err != nil {
		logError("%v", err)
		return err
	}

	query := strings.Join(args, " ")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	fetcher := fetch.NewStatic(fetch.Config{Timeout: timeout})
	searchURL := ext.SearchURL(query)
	logger.Debug("fetching search page", "url", searchURL)

	page, err := fetcher.Fetch(ctx, searchURL)
	if err != nil {
		logError("%v", err)
		return err
	}

	candidates := ext.ParseSearch(page.HTML)
	if len(candidates) == 0 {
		cmd.Println("No candidates found.")
		return nil
	}

	picked, havePick := match.Pick(query, candidates)
	for _, c := range candidates {
		marker := " "
		if havePick && c == picked {
			marker = "*"
		}
		cmd.Printf("%s %s\n    %s\n", marker, c.Title, c.URL)
	}
	if !havePick {
		cmd.Println("\nNo candidate contains the query; analyze would fail.")
	}
	return nil
}
