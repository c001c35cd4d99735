package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "YaMDb - reviews and ratings for books, films and music",
	Long: `YaMDb collects user reviews of titles (books, films, music) grouped by
category and genre, and serves them over a JSON API.

Commands:
  serve         run the HTTP API
  migrate       apply database migrations
  create-admin  create or promote an administrator`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Configuration file; environment variables override it")
}
