package model

import "time"

// Schema version milestones. The settings record tracks which schema the
// cached data was written with; data below these thresholds is reseeded or
// force-updated.
const (
	// SchemaVersionSeed: caches written before this version predate the
	// current seed dataset and are rebuilt from scratch.
	SchemaVersionSeed = 2018005
	// SchemaVersionCurrent is written after every successful sync. A cache
	// below it forces an update regardless of the API version comparison.
	SchemaVersionCurrent = 2018006
)

// Settings is the single settings record persisted as a JSON object file
// next to the entity caches.
type Settings struct {
	APIVersion    string    `json:"api_version"`
	LastUpdate    time.Time `json:"last_update"`
	SchemaVersion int       `json:"schema_version"`

	// Environment flags. Production switches the cache gateway to the
	// production path prefix; both are plain data here, the gateway decides
	// the paths.
	IsProduction bool `json:"is_production"`
	CompactJSON  bool `json:"compact_json"`
}

// HasLastUpdate reports whether a sync has ever completed.
func (s *Settings) HasLastUpdate() bool {
	return !s.LastUpdate.IsZero()
}
