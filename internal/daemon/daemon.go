// Package daemon provides the long-running sync mode: a periodic version
// check that triggers a full sync when the remote schedule changed, plus a
// directory watcher that reacts to feed files dropped into the conference
// directory (useful for pre-provisioned feeds and offline testing).
package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/confsched/schedsync/internal/version"
)

// Syncer is the pipeline surface the daemon drives. Satisfied by
// sync.Synchronizer.
type Syncer interface {
	CheckForUpdate(ctx context.Context) (version.Result, error)
	Sync(ctx context.Context) error
}

// Config holds daemon configuration.
type Config struct {
	// CheckInterval is how often the remote version is polled.
	CheckInterval time.Duration

	// DebounceInterval batches rapid file events into one sync.
	DebounceInterval time.Duration

	// WatchDir is the directory watched for dropped feed files. Empty
	// disables watching.
	WatchDir string

	// AfterSync runs after every successful sync, e.g. to rebuild the
	// derived query index. Errors are logged, not fatal.
	AfterSync func(ctx context.Context) error

	// Logger for daemon activity.
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CheckInterval:    15 * time.Minute,
		DebounceInterval: 500 * time.Millisecond,
		Logger:           log.New(os.Stderr, "[daemon] ", log.LstdFlags),
	}
}

// NewRotatingLogger returns a logger writing to path with size-based
// rotation, so a long-lived daemon never fills the disk.
func NewRotatingLogger(path string) *log.Logger {
	return log.New(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}, "[daemon] ", log.LstdFlags)
}

// Daemon runs the periodic check-and-sync loop.
type Daemon struct {
	syncer Syncer
	config *Config

	watcher *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   bool
	trigger   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a daemon driving syncer.
func New(syncer Syncer, config *Config) (*Daemon, error) {
	if syncer == nil {
		return nil, fmt.Errorf("syncer cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[daemon] ", log.LstdFlags)
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = 15 * time.Minute
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 500 * time.Millisecond
	}

	d := &Daemon{syncer: syncer, config: config, trigger: make(chan struct{}, 1)}
	d.ctx, d.cancel = context.WithCancel(context.Background())

	if config.WatchDir != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		d.watcher = watcher
	}
	return d, nil
}

// Start runs the daemon until ctx is cancelled. One check-and-sync pass
// runs immediately; afterwards the poll ticker and the file watcher both
// trigger further passes. All passes run on this goroutine, so the
// synchronizer is never entered concurrently.
func (d *Daemon) Start(ctx context.Context) error {
	d.config.Logger.Printf("starting, poll interval %s", d.config.CheckInterval)

	if d.watcher != nil {
		if err := d.watcher.Add(d.config.WatchDir); err != nil {
			return fmt.Errorf("watch %s: %w", d.config.WatchDir, err)
		}
		d.config.Logger.Printf("watching %s", d.config.WatchDir)
		d.wg.Add(2)
		go d.watchFileEvents()
		go d.processPending()
	}

	d.runPass(ctx)

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return d.Stop()
		case <-d.ctx.Done():
			return nil
		case <-ticker.C:
			d.runPass(ctx)
		case <-d.trigger:
			d.config.Logger.Printf("feed file change detected")
			d.runPass(ctx)
		}
	}
}

// Stop shuts the daemon down and waits for its goroutines.
func (d *Daemon) Stop() error {
	d.cancel()
	if d.watcher != nil {
		if err := d.watcher.Close(); err != nil {
			d.config.Logger.Printf("close watcher: %v", err)
		}
	}
	d.wg.Wait()
	d.config.Logger.Printf("stopped")
	return nil
}

// runPass is one check-and-sync cycle. Failures are logged; the daemon
// keeps running and retries on the next trigger.
func (d *Daemon) runPass(ctx context.Context) {
	result, err := d.syncer.CheckForUpdate(ctx)
	if err != nil {
		d.config.Logger.Printf("version check failed: %v", err)
		return
	}
	if result != version.UpdateAvailable {
		return
	}
	d.config.Logger.Printf("update available, syncing")
	if err := d.syncer.Sync(ctx); err != nil {
		d.config.Logger.Printf("sync failed: %v", err)
		return
	}
	if d.config.AfterSync != nil {
		if err := d.config.AfterSync(ctx); err != nil {
			d.config.Logger.Printf("after-sync hook failed: %v", err)
		}
	}
}

// watchFileEvents queues a sync whenever a JSON feed file lands in the
// watched directory.
func (d *Daemon) watchFileEvents() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			d.pendingMu.Lock()
			d.pending = true
			d.pendingMu.Unlock()
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.config.Logger.Printf("watcher error: %v", err)
		}
	}
}

// processPending debounces queued file events into trigger signals for the
// Start loop. It never runs a pass itself; the synchronizer is not safe for
// concurrent use, so only the Start goroutine may enter it.
func (d *Daemon) processPending() {
	defer d.wg.Done()
	ticker := time.NewTicker(d.config.DebounceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.pendingMu.Lock()
			fire := d.pending
			d.pending = false
			d.pendingMu.Unlock()
			if !fire {
				continue
			}
			select {
			case d.trigger <- struct{}{}:
			default:
			}
		}
	}
}
