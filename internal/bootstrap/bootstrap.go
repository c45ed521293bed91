// Package bootstrap loads the entity store from the JSON cache, reseeding
// from the bundled data set when the cache is missing or stale. This is
// the one startup path every command shares.
package bootstrap

import (
	"fmt"
	"io"
	"log"

	"github.com/confsched/schedsync/internal/cache"
	"github.com/confsched/schedsync/internal/model"
	"github.com/confsched/schedsync/internal/seed"
	"github.com/confsched/schedsync/internal/store"
)

// Load fills st from the cache behind gw. When the cached data predates
// the supported conferences or the seed schema, the store is rebuilt from
// the bundled seed instead. After Load the conference references are
// resolved and personal schedule flags are reapplied.
func Load(st *store.Store, gw *cache.Gateway, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	conferences, err := gw.ReadConferences()
	if err != nil {
		return fmt.Errorf("read conferences: %w", err)
	}
	settings, err := gw.ReadSettings()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	if seed.NeedsSeed(conferences, settings) {
		logger.Printf("[bootstrap] cache missing or stale, reseeding")
		if err := seed.New(st, gw, logger).Run(); err != nil {
			return fmt.Errorf("reseed: %w", err)
		}
		settings.SchemaVersion = model.SchemaVersionSeed
		if err := PersistSeed(st, gw, settings); err != nil {
			return fmt.Errorf("persist seed: %w", err)
		}
		return nil
	}

	for _, c := range conferences {
		st.InsertConference(c)
	}
	if err := readInto(gw.ReadDays, st.InsertDay); err != nil {
		return fmt.Errorf("read days: %w", err)
	}
	if err := readInto(gw.ReadRooms, st.InsertRoom); err != nil {
		return fmt.Errorf("read rooms: %w", err)
	}
	if err := readInto(gw.ReadSessionTracks, st.InsertTrack); err != nil {
		return fmt.Errorf("read session tracks: %w", err)
	}
	if err := readInto(gw.ReadSessions, st.InsertSession); err != nil {
		return fmt.Errorf("read sessions: %w", err)
	}
	if err := readInto(gw.ReadSpeakers, st.InsertSpeaker); err != nil {
		return fmt.Errorf("read speakers: %w", err)
	}
	if err := readInto(gw.ReadSpeakerImages, st.InsertSpeakerImage); err != nil {
		return fmt.Errorf("read speaker images: %w", err)
	}

	favorites, err := gw.ReadFavorites()
	if err != nil {
		return fmt.Errorf("read favorites: %w", err)
	}
	st.SetFavorites(favorites)

	st.ResolveConferenceReferences()
	st.ResolveSessionReferences()
	st.ResolveSessionsForRooms()
	st.ResolveSessionsForTracks()
	st.ResolveSpeakerImages()
	st.ApplyFavorites()
	return nil
}

func readInto[T any](read func() ([]*T, error), insert func(*T)) error {
	list, err := read()
	if err != nil {
		return err
	}
	for _, item := range list {
		insert(item)
	}
	return nil
}

// PersistSeed writes every entity file plus the settings after a reseed,
// so no stale tracks, speakers or images survive on disk and the next
// start loads the seeded state from cache directly.
func PersistSeed(st *store.Store, gw *cache.Gateway, settings *model.Settings) error {
	if err := gw.WriteConferences(st.Conferences()); err != nil {
		return err
	}
	if err := gw.WriteDays(st.Days()); err != nil {
		return err
	}
	if err := gw.WriteRooms(st.Rooms()); err != nil {
		return err
	}
	if err := gw.WriteSessionTracks(st.Tracks()); err != nil {
		return err
	}
	if err := gw.WriteSessions(st.Sessions()); err != nil {
		return err
	}
	if err := gw.WriteSpeakers(st.Speakers()); err != nil {
		return err
	}
	if err := gw.WriteSpeakerImages(st.SpeakerImages()); err != nil {
		return err
	}
	return gw.WriteSettings(settings)
}
