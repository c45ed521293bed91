package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/confsched/schedsync/internal/daemon"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the periodic check-and-sync loop",
	Long: `Keep the cache in step with the remote schedule: poll the API
version at a fixed interval and run the full sync pipeline whenever an
update is reported.

With watch_feeds enabled the conference directory is also watched, so a
feed file dropped there triggers a sync without waiting for the next poll.
Log output rotates when log_file is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		logger := app.logger
		if app.cfg.LogFile != "" {
			logger = daemon.NewRotatingLogger(app.cfg.LogFile)
		}

		config := &daemon.Config{
			CheckInterval: app.cfg.CheckInterval,
			Logger:        logger,
			AfterSync: func(ctx context.Context) error {
				return rebuildQueryCache(ctx, app)
			},
		}
		if app.cfg.WatchFeeds {
			config.WatchDir = app.gateway.ConferenceDir()
		}

		events := consoleEvents()
		events.Progress = func(text string) { logger.Print(text) }

		d, err := daemon.New(app.synchronizer(events), config)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return d.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
