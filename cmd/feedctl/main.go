// Command feedctl queries the fixture feed and news from the terminal.
//
// Usage:
//
//	feedctl fixtures --date 2026-10-18 --q flamengo
//	feedctl watch --mode kickoff_aware
//	feedctl news --q palmeiras
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/playscout/internal/app"
	"github.com/riskibarqy/playscout/internal/config"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/usecase"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "feedctl",
		Short:         "PlayScout fixture feed CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(fixturesCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(newsCmd())
	return root
}

func fixturesCmd() *cobra.Command {
	var date, search string
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Print the grouped feed of one day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithConfig(func(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
				feed, err := app.NewFeedService(cfg, logger)
				if err != nil {
					return err
				}
				fixtures, err := feed.FetchFeed(ctx, date)
				if err != nil {
					return fmt.Errorf("fetch feed: %w", err)
				}
				view := feed.View(fixtures, search, time.Time{})
				return renderFeed(cmd.OutOrStdout(), view, feed.Location())
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Feed date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&search, "q", "", "Filter by team name (3+ characters)")
	return cmd
}

func watchCmd() *cobra.Command {
	var date, search, mode string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a poller and print every applied update",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithConfig(func(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
				if mode != "" {
					cfg.FeedPollMode = mode
				}
				feed, err := app.NewFeedService(cfg, logger)
				if err != nil {
					return err
				}
				pollerCfg, err := app.FeedPollerConfig(cfg, feed.Location(), logger)
				if err != nil {
					return err
				}
				pollerCfg.Date = date

				poller := usecase.NewFeedPoller(feed, pollerCfg)
				updates, unsubscribe := poller.Subscribe()
				defer unsubscribe()
				poller.Start(ctx)
				defer poller.Stop()

				out := cmd.OutOrStdout()
				for {
					select {
					case <-ctx.Done():
						return nil
					case update, ok := <-updates:
						if !ok {
							return nil
						}
						if err := renderUpdate(out, feed, update, search); err != nil {
							return err
						}
					}
				}
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Pin the feed date (YYYY-MM-DD), defaults to following today")
	cmd.Flags().StringVar(&search, "q", "", "Filter by team name (3+ characters)")
	cmd.Flags().StringVar(&mode, "mode", "", "Poll mode: standard or kickoff_aware (defaults to FEED_POLL_MODE)")
	return cmd
}

func newsCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Print football news that pass the relevance filter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithConfig(func(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
				articles, err := app.NewNewsService(cfg, logger).Search(ctx, search)
				if err != nil {
					return fmt.Errorf("search news: %w", err)
				}
				return renderNews(cmd.OutOrStdout(), articles)
			})
		},
	}
	cmd.Flags().StringVar(&search, "q", "", "Search text, defaults to "+usecase.DefaultNewsQuery)
	return cmd
}

// runWithConfig loads config, builds a stderr logger and cancels on SIGINT/SIGTERM.
func runWithConfig(fn func(ctx context.Context, cfg config.Config, logger *logging.Logger) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: logging.FormatConsole,
		Writer: os.Stderr,
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	return fn(ctx, cfg, logger)
}
