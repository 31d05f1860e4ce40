// Package commands implements the CLI commands for reviewlens.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "reviewlens",
	Short: "Scrape and summarize product reviews from Amazon and Flipkart",
	Long: `Reviewlens finds a product on Amazon or Flipkart, scrapes its customer
reviews and per-feature ratings, and produces an LLM-generated summary
split into impression, positive and negative sections.

Examples:
  # Analyze a product on Amazon (default platform)
  reviewlens analyze "boAt Airdopes 141"

  # Analyze on Flipkart, save the snapshot as YAML
  reviewlens analyze "realme Buds T110" -p flipkart -o snapshot.yaml --format yaml

  # Only print the negative feedback section
  reviewlens analyze "boAt Airdopes 141" --section "Summary of Negative Feedbacks"

  # List search candidates without launching a browser
  reviewlens search "wireless earbuds" -p flipkart

  # Ask follow-up questions against a saved snapshot
  reviewlens chat -s snapshot.json "How is the battery life?"`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.reviewlens.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".reviewlens")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("REVIEWLENS")
	viper.AutomaticEnv()

	// Also check common API key env vars
	_ = viper.BindEnv("summarizer.api_key", "REVIEWLENS_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("amazon.email", "REVIEWLENS_AMAZON_EMAIL")
	_ = viper.BindEnv("amazon.password", "REVIEWLENS_AMAZON_PASSWORD")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// initLogger applies the global logging flags.
func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
