package bootstrap

import (
	"testing"
	"time"

	"github.com/confsched/schedsync/internal/cache"
	"github.com/confsched/schedsync/internal/model"
	"github.com/confsched/schedsync/internal/seed"
	"github.com/confsched/schedsync/internal/store"
)

func testGateway(t *testing.T) *cache.Gateway {
	t.Helper()
	gw, err := cache.New(cache.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	return gw
}

func TestLoadSeedsEmptyCache(t *testing.T) {
	gw := testGateway(t)
	st := store.New()
	if err := Load(st, gw, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(st.Conferences()) != 2 {
		t.Fatalf("conferences = %d, want seeded pair", len(st.Conferences()))
	}

	// The seed must have been persisted: a second load must come from
	// cache, not reseed.
	settings, err := gw.ReadSettings()
	if err != nil {
		t.Fatalf("ReadSettings: %v", err)
	}
	if settings.SchemaVersion < model.SchemaVersionSeed {
		t.Errorf("schema version %d not bumped to seed level", settings.SchemaVersion)
	}

	again := store.New()
	if err := Load(again, gw, nil); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if len(again.Conferences()) != 2 {
		t.Errorf("second load conferences = %d", len(again.Conferences()))
	}
}

func TestLoadRoundTripsSyncedState(t *testing.T) {
	gw := testGateway(t)
	st := store.New()
	if err := Load(st, gw, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	day := st.FindDayByID(2018011)
	session := &model.Session{
		ID:           500,
		ConferenceID: seed.BostonConferenceID,
		Title:        "Keynote Talk",
		DayID:        day.ID,
		Start:        model.NewClock(9, 0),
		End:          model.NewClock(10, 0),
		Minutes:      60,
		IsKeynote:    true,
		SortKey:      model.SortKey(day.Date, model.NewClock(9, 0)),
		IsFavorite:   true,
	}
	st.InsertSession(session)
	day.AddSession(session)
	st.DeriveFavorites()

	if err := gw.WriteSessions(st.Sessions()); err != nil {
		t.Fatalf("WriteSessions: %v", err)
	}
	if err := gw.WriteDays(st.Days()); err != nil {
		t.Fatalf("WriteDays: %v", err)
	}
	if err := gw.WriteFavorites(st.Favorites()); err != nil {
		t.Fatalf("WriteFavorites: %v", err)
	}

	reloaded := store.New()
	if err := Load(reloaded, gw, nil); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.FindSessionByID(500)
	if got == nil {
		t.Fatal("session lost in round trip")
	}
	if !got.IsKeynote || got.Minutes != 60 {
		t.Errorf("session fields lost: %+v", got)
	}
	if !got.IsFavorite {
		t.Error("favorite flag not reapplied after load")
	}
	reloadedDay := reloaded.FindDayByID(2018011)
	found := false
	for _, s := range reloadedDay.Sessions() {
		if s.ID == 500 {
			found = true
		}
	}
	if !found {
		t.Error("day back-reference not resolved after load")
	}
}

func TestPersistSeedClearsStaleEntityFiles(t *testing.T) {
	gw := testGateway(t)
	st := store.New()
	if err := Load(st, gw, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Leave synced leftovers on disk: a track above the reset counter, a
	// speaker and an image record. A reseed must wipe all of them.
	stale := []*model.SessionTrack{{ID: seed.BostonConferenceID*100 + 7, Name: "Old Track"}}
	if err := gw.WriteSessionTracks(stale); err != nil {
		t.Fatalf("WriteSessionTracks: %v", err)
	}
	if err := gw.WriteSpeakers([]*model.Speaker{{ID: 9, Name: "Gone"}}); err != nil {
		t.Fatalf("WriteSpeakers: %v", err)
	}
	if err := gw.WriteSpeakerImages([]*model.SpeakerImage{{SpeakerID: 9}}); err != nil {
		t.Fatalf("WriteSpeakerImages: %v", err)
	}

	reseeded := store.New()
	if err := seed.New(reseeded, gw, nil).Run(); err != nil {
		t.Fatalf("seed.Run: %v", err)
	}
	settings, err := gw.ReadSettings()
	if err != nil {
		t.Fatalf("ReadSettings: %v", err)
	}
	settings.SchemaVersion = model.SchemaVersionSeed
	if err := PersistSeed(reseeded, gw, settings); err != nil {
		t.Fatalf("PersistSeed: %v", err)
	}

	tracks, err := gw.ReadSessionTracks()
	if err != nil {
		t.Fatalf("ReadSessionTracks: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("stale tracks survived reseed: %d", len(tracks))
	}
	images, err := gw.ReadSpeakerImages()
	if err != nil {
		t.Fatalf("ReadSpeakerImages: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("stale speaker images survived reseed: %d", len(images))
	}
	persisted, err := gw.ReadSettings()
	if err != nil {
		t.Fatalf("ReadSettings after persist: %v", err)
	}
	if persisted.SchemaVersion != model.SchemaVersionSeed {
		t.Errorf("schema version = %d, want %d", persisted.SchemaVersion, model.SchemaVersionSeed)
	}
}

func TestLoadReseedsStaleSchema(t *testing.T) {
	gw := testGateway(t)
	st := store.New()
	if err := Load(st, gw, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Age the cache below the reseed threshold.
	settings, err := gw.ReadSettings()
	if err != nil {
		t.Fatalf("ReadSettings: %v", err)
	}
	settings.SchemaVersion = model.SchemaVersionSeed - 1
	settings.LastUpdate = time.Now()
	if err := gw.WriteSettings(settings); err != nil {
		t.Fatalf("WriteSettings: %v", err)
	}
	st.InsertSession(&model.Session{ID: 42, ConferenceID: seed.BostonConferenceID, Title: "Old"})
	if err := gw.WriteSessions(st.Sessions()); err != nil {
		t.Fatalf("WriteSessions: %v", err)
	}

	fresh := store.New()
	if err := Load(fresh, gw, nil); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.FindSessionByID(42) != nil {
		t.Error("stale session survived schema reseed")
	}
}
