// Package cache implements the cache gateway: one JSON array file per
// entity type plus one JSON object file for settings, with a read-only
// bundled-defaults fallback for first runs.
//
// The gateway is the only component touching the cache files. Writes go
// through a temp file and rename so a crashed write never leaves a
// half-written cache behind.
package cache

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Cache file names, one per entity type.
const (
	FileConferences   = "conferences.json"
	FileDays          = "days.json"
	FileRooms         = "rooms.json"
	FileSessions      = "sessions.json"
	FileSessionTracks = "session_tracks.json"
	FileSpeakers      = "speakers.json"
	FileSpeakerImages = "speaker_images.json"
	FileFavorites     = "favorites.json"
	FileSettings      = "settings.json"
)

// Config holds gateway configuration. The environment name is threaded in
// explicitly; there is no global production/test toggle.
type Config struct {
	// DataDir is the root data directory. Caches live in
	// DataDir/<Environment>/, downloaded feeds and speaker images in
	// DataDir/conference/.
	DataDir string

	// Environment is the cache path prefix, normally "prod" or "test".
	Environment string

	// DefaultsDir optionally points at bundled default cache files. When a
	// cache file does not exist yet, the bundled default is copied into
	// place before the first read.
	DefaultsDir string

	// Compact writes caches without indentation.
	Compact bool

	// Logger defaults to a stderr logger with a "[cache] " prefix.
	Logger *log.Logger
}

// Gateway reads and writes the per-entity cache files.
type Gateway struct {
	cacheDir      string
	conferenceDir string
	imagesDir     string
	defaultsDir   string
	compact       bool
	logger        *log.Logger
}

// New creates a gateway and the directories it needs. A directory that
// cannot be created is a setup-fatal error: the rest of the pipeline
// assumes the cache layout exists.
func New(cfg Config) (*Gateway, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("cache: data dir is required")
	}
	env := cfg.Environment
	if env == "" {
		env = "prod"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[cache] ", log.LstdFlags)
	}

	g := &Gateway{
		cacheDir:      filepath.Join(cfg.DataDir, env),
		conferenceDir: filepath.Join(cfg.DataDir, "conference"),
		imagesDir:     filepath.Join(cfg.DataDir, "conference", "speakerImages"),
		defaultsDir:   cfg.DefaultsDir,
		compact:       cfg.Compact,
		logger:        logger,
	}
	for _, dir := range []string{g.cacheDir, g.conferenceDir, g.imagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: cannot create directory %s: %w", dir, err)
		}
	}
	return g, nil
}

// CacheDir returns the directory holding the entity cache files.
func (g *Gateway) CacheDir() string { return g.cacheDir }

// ConferenceDir returns the directory for downloaded feed documents.
func (g *Gateway) ConferenceDir() string { return g.conferenceDir }

// SpeakerImagesDir returns the directory for downloaded speaker images.
func (g *Gateway) SpeakerImagesDir() string { return g.imagesDir }

// RemoveSpeakerCaches deletes the cached speaker and speaker image files.
// The bootstrap generator calls this before reseeding so stale records
// from an older conference cannot leak into the new dataset.
func (g *Gateway) RemoveSpeakerCaches() {
	for _, name := range []string{FileSpeakers, FileSpeakerImages} {
		path := filepath.Join(g.cacheDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			g.logger.Printf("WARNING: cannot remove %s: %v", path, err)
		}
	}
}

// bootstrapDefault copies the bundled default for a cache file into place
// when the cache does not exist yet. Returns true if a file is in place
// after the call.
func (g *Gateway) bootstrapDefault(name string) bool {
	path := filepath.Join(g.cacheDir, name)
	if _, err := os.Stat(path); err == nil {
		return true
	}
	if g.defaultsDir == "" {
		return false
	}
	defaultPath := filepath.Join(g.defaultsDir, name)
	data, err := os.ReadFile(defaultPath)
	if err != nil {
		return false
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		g.logger.Printf("WARNING: cannot copy bundled default %s: %v", name, err)
		return false
	}
	g.logger.Printf("bootstrapped %s from bundled defaults", name)
	return true
}
