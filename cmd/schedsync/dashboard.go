package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/confsched/schedsync/internal/daemon"
	"github.com/confsched/schedsync/internal/dashboard"
)

var dashboardPort int

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the sync loop with a WebSocket progress dashboard",
	Long: `Run the daemon loop and broadcast every sync event to connected
WebSocket clients.

Message types: progress, update_available, no_update_required,
check_failed, update_failed, update_done, my_schedule_refreshed.

Example:
  schedsync dashboard              # default port 8090
  schedsync dashboard --port 9000

Connect with any WebSocket client:
  ws://localhost:8090/ws`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		port := app.cfg.DashboardPort
		if cmd.Flags().Changed("port") {
			port = dashboardPort
		}

		server := dashboard.NewServer(&dashboard.Config{
			Port:   port,
			Logger: app.logger,
		})
		if err := server.Start(); err != nil {
			return fmt.Errorf("start dashboard: %w", err)
		}
		defer func() { _ = server.Stop() }()
		fmt.Printf("Dashboard listening on ws://%s/ws\n", server.Addr())

		events := dashboard.NewHandler(server, app.logger).Events()

		d, err := daemon.New(app.synchronizer(events), &daemon.Config{
			CheckInterval: app.cfg.CheckInterval,
			Logger:        app.logger,
			AfterSync: func(ctx context.Context) error {
				return rebuildQueryCache(ctx, app)
			},
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return d.Start(ctx)
	},
}

func init() {
	dashboardCmd.Flags().IntVar(&dashboardPort, "port", 8090, "dashboard port")
	rootCmd.AddCommand(dashboardCmd)
}
