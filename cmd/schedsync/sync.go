package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confsched/schedsync/internal/querycache"
	"github.com/confsched/schedsync/internal/version"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the schedule from the remote API",
	Long: `Run the full update pipeline:

  1. Sync the speaker feed (names, bios, sort keys, avatar records)
  2. Download pending speaker images and produce scaled variants
  3. Sync each conference's schedule feed (days, rooms, tracks, sessions)
  4. Regenerate the synthetic schedule items
  5. Rebuild back-references, persist the cache, rebuild the query index

Without --force the pipeline only runs when the version check reports an
update.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		synchronizer := app.synchronizer(consoleEvents())
		if !syncForce {
			result, err := synchronizer.CheckForUpdate(ctx)
			if err != nil {
				return err
			}
			if result != version.UpdateAvailable {
				return nil
			}
		}

		if err := synchronizer.Sync(ctx); err != nil {
			return err
		}
		return rebuildQueryCache(ctx, app)
	},
}

// rebuildQueryCache refreshes the derived SQLite index from the store.
func rebuildQueryCache(ctx context.Context, app *app) error {
	db, err := querycache.Open(app.cfg.QueryCachePath)
	if err != nil {
		return fmt.Errorf("open query index: %w", err)
	}
	defer db.Close()
	if err := db.Rebuild(ctx, app.store); err != nil {
		return fmt.Errorf("rebuild query index: %w", err)
	}
	app.logger.Printf("query index rebuilt at %s", app.cfg.QueryCachePath)
	return nil
}

func init() {
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "sync even when no update is reported")
	rootCmd.AddCommand(syncCmd)
}
