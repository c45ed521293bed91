// schedsync keeps a local conference schedule cache in step with the
// remote schedule API: version checks, speaker and session sync, speaker
// image downloads and the derived query index.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/confsched/schedsync/internal/bootstrap"
	"github.com/confsched/schedsync/internal/cache"
	"github.com/confsched/schedsync/internal/config"
	"github.com/confsched/schedsync/internal/fetch"
	"github.com/confsched/schedsync/internal/images"
	"github.com/confsched/schedsync/internal/store"
	"github.com/confsched/schedsync/internal/sync"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "schedsync",
	Short: "Conference schedule cache synchronizer",
	Long: `schedsync maintains the local JSON cache of the conference schedule:
conferences, days, rooms, tracks, sessions, speakers and speaker images.

It checks the remote API version, syncs the speaker and schedule feeds,
downloads speaker images with scaled variants, regenerates the synthetic
schedule items (registration, lunch, breaks, networking) and rebuilds the
derived SQLite query index.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./schedsync.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired collaborators every command needs.
type app struct {
	cfg     *config.Config
	gateway *cache.Gateway
	store   *store.Store
	logger  *log.Logger
}

// newApp loads configuration, opens the cache layout and loads (or seeds)
// the entity store.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger := log.New(os.Stderr, "[schedsync] ", log.LstdFlags)
	gateway, err := cache.New(cache.Config{
		DataDir:     cfg.DataDir,
		Environment: cfg.Environment,
		DefaultsDir: cfg.DefaultsDir,
		Compact:     cfg.CompactJSON,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	st := store.New()
	if err := bootstrap.Load(st, gateway, logger); err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	return &app{cfg: cfg, gateway: gateway, store: st, logger: logger}, nil
}

// synchronizer wires the network client and the image download queue onto
// a synchronizer emitting the given events.
func (a *app) synchronizer(events sync.Events) *sync.Synchronizer {
	client := fetch.New(a.cfg.BaseURL, &http.Client{Timeout: 30 * time.Second}, a.logger)
	queue := images.NewQueue(client, a.gateway.SpeakerImagesDir(), a.logger)
	return sync.New(a.store, a.gateway, client, queue, a.logger, events)
}

// consoleEvents prints progress and results to stdout.
func consoleEvents() sync.Events {
	return sync.Events{
		Progress: func(text string) {
			fmt.Println(text)
		},
		UpdateAvailable: func(version string) {
			fmt.Printf("Update available: version %s\n", version)
		},
		NoUpdateRequired: func() {
			fmt.Println("Schedule is up to date.")
		},
		CheckForUpdateFailed: func(reason string) {
			fmt.Printf("Version check failed: %s\n", reason)
		},
		UpdateFailed: func(reason string) {
			fmt.Printf("Update failed: %s\n", reason)
		},
		UpdateDone: func() {
			fmt.Println("Schedule updated.")
		},
	}
}
