package seed

import (
	"testing"

	"github.com/confsched/schedsync/internal/cache"
	"github.com/confsched/schedsync/internal/model"
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

func TestNeedsSeed(t *testing.T) {
	current := &model.Settings{SchemaVersion: model.SchemaVersionCurrent}
	tests := []struct {
		name        string
		conferences []*model.Conference
		settings    *model.Settings
		want        bool
	}{
		{"empty cache", nil, current, true},
		{"pre-2018 data", []*model.Conference{{ID: 201701}}, current, true},
		{
			"stale schema",
			[]*model.Conference{{ID: BostonConferenceID}, {ID: BerlinConferenceID}},
			&model.Settings{SchemaVersion: model.SchemaVersionSeed - 1},
			true,
		},
		{
			"current data",
			[]*model.Conference{{ID: BostonConferenceID}, {ID: BerlinConferenceID}},
			current,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsSeed(tt.conferences, tt.settings); got != tt.want {
				t.Errorf("NeedsSeed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunSeedsConferences(t *testing.T) {
	st := store.New()
	gen := New(st, testGateway(t), nil)
	if err := gen.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := len(st.Conferences()); got != 2 {
		t.Fatalf("conferences = %d, want 2", got)
	}
	boston := st.FindConferenceByID(BostonConferenceID)
	berlin := st.FindConferenceByID(BerlinConferenceID)
	if boston == nil || berlin == nil {
		t.Fatal("seeded conferences not found by id")
	}

	if got := len(boston.Days()); got != 2 {
		t.Errorf("boston days = %d, want 2", got)
	}
	first := st.FindDayByID(2018011)
	if first == nil {
		t.Fatal("boston day 2018011 missing")
	}
	if first.Date.String() != "2018-10-29" {
		t.Errorf("boston first day = %s, want 2018-10-29", first.Date)
	}
	if first.Weekday != 1 {
		t.Errorf("boston first day weekday = %d, want 1 (Monday)", first.Weekday)
	}
	second := st.FindDayByID(2018022)
	if second == nil || second.Date.String() != "2018-12-06" {
		t.Errorf("berlin second day wrong: %+v", second)
	}

	if boston.LastSessionTrackID != BostonConferenceID*100 {
		t.Errorf("boston track counter = %d", boston.LastSessionTrackID)
	}
	if berlin.LastGenericSessionID != model.GenericSessionBase(BerlinConferenceID) {
		t.Errorf("berlin generic counter = %d", berlin.LastGenericSessionID)
	}
}

func TestRunSeedsRoomCatalog(t *testing.T) {
	st := store.New()
	gen := New(st, testGateway(t), nil)
	if err := gen.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	unknown := st.FindRoomByID(model.UnknownRoomID)
	if unknown == nil || unknown.Name != "Room unknown" {
		t.Fatalf("dummy room missing or wrong: %+v", unknown)
	}

	for _, room := range st.Rooms() {
		if room.ID == model.UnknownRoomID {
			continue
		}
		if !room.InAssets {
			t.Errorf("seeded room %d not tagged inAssets", room.ID)
		}
		switch {
		case room.ID > bostonRoomBase && room.ID < bostonRoomBase+roomBucketSize:
			if room.ConferenceID != BostonConferenceID {
				t.Errorf("room %d bucketed to %d, want Boston", room.ID, room.ConferenceID)
			}
		case room.ID > berlinRoomBase && room.ID < berlinRoomBase+roomBucketSize:
			if room.ConferenceID != BerlinConferenceID {
				t.Errorf("room %d bucketed to %d, want Berlin", room.ID, room.ConferenceID)
			}
		default:
			t.Errorf("room %d outside both buckets", room.ID)
		}
	}

	// New server-side rooms must get ids above everything seeded.
	boston := st.FindConferenceByID(BostonConferenceID)
	next := boston.NextRoomID()
	if st.FindRoomByID(next) != nil {
		t.Errorf("NextRoomID %d collides with a seeded room", next)
	}
}

func TestRunResetsPreviousState(t *testing.T) {
	st := store.New()
	st.InsertSession(&model.Session{ID: 99, ConferenceID: 201701})
	st.InsertConference(&model.Conference{ID: 201701})

	gen := New(st, testGateway(t), nil)
	if err := gen.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(st.Sessions()) != 0 {
		t.Errorf("stale sessions survived reseed")
	}
	if st.FindConferenceByID(201701) != nil {
		t.Errorf("stale conference survived reseed")
	}
}
