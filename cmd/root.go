// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "org-stats",
	Short: "A CLI tool to report activity totals for a GitHub organization.",
	Long: `org-stats reports, for every repository of a GitHub organization, the
open issues, the total number of issues and the total number of commits,
followed by organization-wide totals. The counts are inferred from the
pagination metadata of the REST API.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger logs errors only by default; verbose mode enables debug output.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.ErrorLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
