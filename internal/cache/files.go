package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/confsched/schedsync/internal/model"
)

// readList reads one entity cache file into a slice. A missing file (after
// the bundled-default fallback) yields an empty slice, not an error: a
// fresh install simply has nothing cached yet.
func readList[T any](g *Gateway, name string) ([]*T, error) {
	if !g.bootstrapDefault(name) {
		return nil, nil
	}
	path := filepath.Join(g.cacheDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: read %s: %w", name, err)
	}
	var list []*T
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("cache: parse %s: %w", name, err)
	}
	return list, nil
}

// writeList writes one entity cache file through a temp file and rename.
func writeList(g *Gateway, name string, list any) error {
	var data []byte
	var err error
	if g.compact {
		data, err = json.Marshal(list)
	} else {
		data, err = json.MarshalIndent(list, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", name, err)
	}
	path := filepath.Join(g.cacheDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cache: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("cache: replace %s: %w", name, err)
	}
	return nil
}

// ReadConferences loads the conference cache.
func (g *Gateway) ReadConferences() ([]*model.Conference, error) {
	return readList[model.Conference](g, FileConferences)
}

// WriteConferences persists the conference cache.
func (g *Gateway) WriteConferences(list []*model.Conference) error {
	return writeList(g, FileConferences, emptyNotNull(list))
}

// ReadDays loads the day cache.
func (g *Gateway) ReadDays() ([]*model.Day, error) {
	return readList[model.Day](g, FileDays)
}

// WriteDays persists the day cache.
func (g *Gateway) WriteDays(list []*model.Day) error {
	return writeList(g, FileDays, emptyNotNull(list))
}

// ReadRooms loads the room cache.
func (g *Gateway) ReadRooms() ([]*model.Room, error) {
	return readList[model.Room](g, FileRooms)
}

// WriteRooms persists the room cache.
func (g *Gateway) WriteRooms(list []*model.Room) error {
	return writeList(g, FileRooms, emptyNotNull(list))
}

// ReadSessions loads the session cache.
func (g *Gateway) ReadSessions() ([]*model.Session, error) {
	return readList[model.Session](g, FileSessions)
}

// WriteSessions persists the session cache.
func (g *Gateway) WriteSessions(list []*model.Session) error {
	return writeList(g, FileSessions, emptyNotNull(list))
}

// ReadSessionTracks loads the session track cache.
func (g *Gateway) ReadSessionTracks() ([]*model.SessionTrack, error) {
	return readList[model.SessionTrack](g, FileSessionTracks)
}

// WriteSessionTracks persists the session track cache.
func (g *Gateway) WriteSessionTracks(list []*model.SessionTrack) error {
	return writeList(g, FileSessionTracks, emptyNotNull(list))
}

// ReadSpeakers loads the speaker cache.
func (g *Gateway) ReadSpeakers() ([]*model.Speaker, error) {
	return readList[model.Speaker](g, FileSpeakers)
}

// WriteSpeakers persists the speaker cache.
func (g *Gateway) WriteSpeakers(list []*model.Speaker) error {
	return writeList(g, FileSpeakers, emptyNotNull(list))
}

// ReadSpeakerImages loads the speaker image cache.
func (g *Gateway) ReadSpeakerImages() ([]*model.SpeakerImage, error) {
	return readList[model.SpeakerImage](g, FileSpeakerImages)
}

// WriteSpeakerImages persists the speaker image cache.
func (g *Gateway) WriteSpeakerImages(list []*model.SpeakerImage) error {
	return writeList(g, FileSpeakerImages, emptyNotNull(list))
}

// ReadFavorites loads the favorites cache.
func (g *Gateway) ReadFavorites() ([]*model.Favorite, error) {
	return readList[model.Favorite](g, FileFavorites)
}

// WriteFavorites persists the favorites cache.
func (g *Gateway) WriteFavorites(list []*model.Favorite) error {
	return writeList(g, FileFavorites, emptyNotNull(list))
}

// ReadSettings loads the settings record. A missing settings file yields a
// zero-valued record.
func (g *Gateway) ReadSettings() (*model.Settings, error) {
	if !g.bootstrapDefault(FileSettings) {
		return &model.Settings{}, nil
	}
	path := filepath.Join(g.cacheDir, FileSettings)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Settings{}, nil
		}
		return nil, fmt.Errorf("cache: read settings: %w", err)
	}
	settings := &model.Settings{}
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("cache: parse settings: %w", err)
	}
	return settings, nil
}

// WriteSettings persists the settings record.
func (g *Gateway) WriteSettings(settings *model.Settings) error {
	return writeList(g, FileSettings, settings)
}

// emptyNotNull keeps empty caches as "[]" instead of "null" on disk.
func emptyNotNull[T any](list []*T) []*T {
	if list == nil {
		return []*T{}
	}
	return list
}
