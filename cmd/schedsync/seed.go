package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confsched/schedsync/internal/bootstrap"
	"github.com/confsched/schedsync/internal/model"
	"github.com/confsched/schedsync/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Rebuild the cache from the bundled seed data",
	Long: `Throw away all cached entity state, including downloaded speaker
images, and recreate the seeded conferences, days and room catalog.

The next sync refills sessions, speakers and images from the feeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		if err := seed.New(app.store, app.gateway, app.logger).Run(); err != nil {
			return fmt.Errorf("reseed: %w", err)
		}
		settings, err := app.gateway.ReadSettings()
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		settings.SchemaVersion = model.SchemaVersionSeed
		if err := bootstrap.PersistSeed(app.store, app.gateway, settings); err != nil {
			return fmt.Errorf("persist seed: %w", err)
		}
		fmt.Printf("Seeded %d conferences with %d rooms.\n",
			len(app.store.Conferences()), len(app.store.Rooms()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
