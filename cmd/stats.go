package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/naka-gawa/org-stats/internal/config"
	"github.com/naka-gawa/org-stats/internal/gateway"
	"github.com/naka-gawa/org-stats/internal/output"
	"github.com/naka-gawa/org-stats/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Reports issue and commit totals for every repository of an organization",
	Long: `Lists every repository of the organization, resolves its issue and commit
counts concurrently and prints one row per repository followed by the totals.

The credential is read from GITHUB_TOKEN (environment or .env file). Without
it the API is queried anonymously, with much lower rate limits.`,
	Example: `  org-stats stats --org acme
  org-stats stats --org https://github.com/acme --output json --max-in-flight 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(os.Stderr, verbose)

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		applyFlags(cmd, &cfg)

		org, _ := cmd.Flags().GetString("org")
		formatName, _ := cmd.Flags().GetString("output")
		format, err := output.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			logger.Debug("GITHUB_TOKEN is not set, using anonymous access")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		return runStats(ctx, cfg, org, format, cmd.OutOrStdout(), logger)
	},
}

// runStats wires the gateway and the aggregator for one organization and
// renders the report to w. It performs no interactive I/O.
func runStats(ctx context.Context, cfg config.Config, org string, format output.Format, w io.Writer, logger logrus.FieldLogger) error {
	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:             cfg.Token,
		BaseURL:           cfg.APIURL,
		MaxInFlight:       cfg.MaxInFlight,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	aggregator := usecase.NewAggregator(githubGateway, logger, usecase.Options{
		PageSize:    cfg.PageSize,
		Concurrency: cfg.Concurrency,
	})

	started := time.Now()
	report, err := aggregator.Aggregate(ctx, org)
	if err != nil {
		return fmt.Errorf("failed to aggregate stats: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"repositories": len(report.Repositories),
		"elapsed":      time.Since(started).Round(time.Millisecond),
	}).Debug("Aggregation finished")

	return output.Render(w, report, format)
}

// applyFlags lets explicitly set flags override environment configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("page-size") {
		cfg.PageSize, _ = flags.GetInt("page-size")
	}
	if flags.Changed("max-in-flight") {
		cfg.MaxInFlight, _ = flags.GetInt("max-in-flight")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("rps") {
		cfg.RequestsPerSecond, _ = flags.GetFloat64("rps")
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("org", "o", "", "Target GitHub organization name or URL (required)")
	statsCmd.MarkFlagRequired("org")
	statsCmd.Flags().String("output", string(output.FormatText), "Output format: text or json")
	statsCmd.Flags().String("api-url", "", "REST API base URL, for GitHub Enterprise Server (env GITHUB_API_URL)")
	statsCmd.Flags().Int("page-size", usecase.MaxPageSize, "Repositories per listing page (1-100)")
	statsCmd.Flags().Int("max-in-flight", 16, "Maximum concurrent HTTP requests, 0 for unbounded (env ORG_STATS_MAX_IN_FLIGHT)")
	statsCmd.Flags().Int("concurrency", 16, "Maximum pages or repositories processed at once, 0 for unbounded (env ORG_STATS_CONCURRENCY)")
	statsCmd.Flags().Float64("rps", 0, "Maximum requests per second, 0 for unlimited (env ORG_STATS_RPS)")
	statsCmd.Flags().Duration("timeout", 0, "Abort the whole run after this duration, 0 for no limit")
}
