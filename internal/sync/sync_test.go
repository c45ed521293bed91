package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/confsched/schedsync/internal/cache"
	"github.com/confsched/schedsync/internal/images"
	"github.com/confsched/schedsync/internal/model"
	"github.com/confsched/schedsync/internal/seed"
	"github.com/confsched/schedsync/internal/store"
)

type fakeFeeds struct {
	version   string
	speakers  string
	schedules map[int]string
	fetched   []int
}

func (f *fakeFeeds) FetchVersion(context.Context) ([]byte, error) {
	return []byte(fmt.Sprintf(`{"version": %q}`, f.version)), nil
}

func (f *fakeFeeds) FetchSpeakers(context.Context) ([]byte, error) {
	return []byte(f.speakers), nil
}

func (f *fakeFeeds) FetchSchedule(_ context.Context, conferenceID int) ([]byte, error) {
	f.fetched = append(f.fetched, conferenceID)
	doc, ok := f.schedules[conferenceID]
	if !ok {
		return nil, errors.New("no schedule")
	}
	return []byte(doc), nil
}

func (f *fakeFeeds) DownloadImage(context.Context, string) ([]byte, int, int, error) {
	return nil, 0, 0, errors.New("no image host in tests")
}

const testSpeakers = `[
	{"id": 10, "first_name": "Ada", "last_name": "Lovelace", "title": "Engineer", "bio": "First."},
	{"id": 11, "first_name": "Grace", "last_name": "Hopper", "title": "Admiral", "bio": "Compilers."}
]`

func bostonSchedule(sessions string) string {
	return `{
		"conference": {
			"title": "TechCon Boston",
			"days": {
				"1": {
					"date": "2018-10-29",
					"rooms": {"Grand Ballroom": [` + sessions + `]}
				}
			}
		}
	}`
}

const keynoteSession = `{
	"id": 500,
	"title": "Keynote Talk",
	"start": "09:00",
	"duration": "01:00",
	"type": "talk",
	"tracks": [{"name": "Keynote", "color": "#ff0000"}],
	"persons": [{"id": 10, "public_name": "Ada Lovelace"}]
}`

const emptySchedule = `{"conference": {"title": "TechCon", "days": {}}}`

type harness struct {
	store *store.Store
	sync  *Synchronizer
	feeds *fakeFeeds
}

func newHarness(t *testing.T, feeds *fakeFeeds) *harness {
	t.Helper()
	gw, err := cache.New(cache.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	st := store.New()
	if err := seed.New(st, gw, nil).Run(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	queue := images.NewQueue(feeds, gw.SpeakerImagesDir(), nil)
	return &harness{
		store: st,
		sync:  New(st, gw, feeds, queue, nil, Events{}),
		feeds: feeds,
	}
}

func TestSyncKeynoteScenario(t *testing.T) {
	feeds := &fakeFeeds{
		version:  "1.0",
		speakers: testSpeakers,
		schedules: map[int]string{
			seed.BostonConferenceID: bostonSchedule(keynoteSession),
			seed.BerlinConferenceID: emptySchedule,
		},
	}
	h := newHarness(t, feeds)
	if err := h.sync.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	session := h.store.FindSessionByID(500)
	if session == nil {
		t.Fatal("keynote session missing")
	}
	if !session.IsKeynote {
		t.Error("session not flagged keynote despite Keynote track")
	}
	if session.Minutes != 60 {
		t.Errorf("minutes = %d, want 60", session.Minutes)
	}
	if session.End.String() != "10:00" {
		t.Errorf("end = %s, want 10:00", session.End)
	}

	day := h.store.FindDayByID(2018011)
	if day == nil {
		t.Fatal("boston day missing")
	}
	if !containsSession(day.Sessions(), 500) {
		t.Error("keynote missing from day back-references")
	}
	room := findRoomByName(h.store, "Grand Ballroom")
	if room == nil || !containsSession(room.Sessions(), 500) {
		t.Error("keynote missing from room back-references")
	}

	// Global chronological order: the day's 08:00 registration comes
	// immediately before the 09:00 keynote.
	var dayOrder []*model.Session
	for _, s := range h.store.Sessions() {
		if s.DayID == day.ID {
			dayOrder = append(dayOrder, s)
		}
	}
	keynoteAt := -1
	for i, s := range dayOrder {
		if s.ID == 500 {
			keynoteAt = i
		}
	}
	if keynoteAt < 1 {
		t.Fatalf("keynote position %d in day order", keynoteAt)
	}
	prev := dayOrder[keynoteAt-1]
	if !prev.IsRegistration || prev.Start.String() != "08:00" {
		t.Errorf("session before keynote = %q at %s, want registration at 08:00", prev.Title, prev.Start)
	}

	speaker := h.store.FindSpeakerByID(10)
	if speaker == nil {
		t.Fatal("speaker missing")
	}
	if !containsSession(speaker.Sessions(), 500) {
		t.Error("keynote missing from speaker back-references")
	}
	if speaker.SortKey != "LOVEL" || speaker.SortGroup != "L" {
		t.Errorf("speaker sort key %q group %q", speaker.SortKey, speaker.SortGroup)
	}
}

func TestSyncSessionIDsUniqueAndSyntheticNegative(t *testing.T) {
	feeds := &fakeFeeds{
		version:  "1.0",
		speakers: testSpeakers,
		schedules: map[int]string{
			seed.BostonConferenceID: bostonSchedule(keynoteSession),
			seed.BerlinConferenceID: emptySchedule,
		},
	}
	h := newHarness(t, feeds)
	if err := h.sync.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	seen := make(map[int]bool)
	for _, s := range h.store.Sessions() {
		if seen[s.ID] {
			t.Errorf("duplicate session id %d", s.ID)
		}
		seen[s.ID] = true
		if s.IsGeneric && s.ID >= 0 {
			t.Errorf("synthetic session %d has non-negative id", s.ID)
		}
		if !s.IsGeneric && s.ID < 0 {
			t.Errorf("fed session %d has negative id", s.ID)
		}
	}

	boston := h.store.FindConferenceByID(seed.BostonConferenceID)
	base := model.GenericSessionBase(boston.ID)
	if boston.LastGenericSessionID >= base {
		t.Errorf("generic counter %d not below base %d", boston.LastGenericSessionID, base)
	}
}

func TestSyncIdempotent(t *testing.T) {
	feeds := &fakeFeeds{
		version:  "1.0",
		speakers: testSpeakers,
		schedules: map[int]string{
			seed.BostonConferenceID: bostonSchedule(keynoteSession),
			seed.BerlinConferenceID: emptySchedule,
		},
	}
	h := newHarness(t, feeds)
	if err := h.sync.Sync(context.Background()); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	firstIDs := sessionIDs(h.store)
	firstSpeakers := len(h.store.Speakers())
	firstRooms := len(h.store.Rooms())
	firstTracks := len(h.store.Tracks())

	if err := h.sync.Sync(context.Background()); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if got := sessionIDs(h.store); got != firstIDs {
		t.Errorf("session set changed on identical re-sync:\n first %s\nsecond %s", firstIDs, got)
	}
	if len(h.store.Speakers()) != firstSpeakers {
		t.Errorf("speakers %d -> %d", firstSpeakers, len(h.store.Speakers()))
	}
	if len(h.store.Rooms()) != firstRooms {
		t.Errorf("rooms %d -> %d", firstRooms, len(h.store.Rooms()))
	}
	if len(h.store.Tracks()) != firstTracks {
		t.Errorf("tracks %d -> %d", firstTracks, len(h.store.Tracks()))
	}
}

func TestSyncEmptySpeakerFeedIsFatal(t *testing.T) {
	feeds := &fakeFeeds{version: "1.0", speakers: `[]`}
	h := newHarness(t, feeds)

	var failed string
	h.sync.events.UpdateFailed = func(reason string) { failed = reason }

	err := h.sync.Sync(context.Background())
	if !errors.Is(err, ErrNoSpeakers) {
		t.Fatalf("err = %v, want ErrNoSpeakers", err)
	}
	if failed == "" {
		t.Error("updateFailed not emitted")
	}
	if len(feeds.fetched) != 0 {
		t.Error("schedule fetched despite fatal speaker failure")
	}
}

func TestSyncTooManyDaysIsFatalButOtherConferenceRuns(t *testing.T) {
	threeDays := `{
		"conference": {
			"title": "TechCon",
			"days": {
				"1": {"date": "2018-10-29", "rooms": {}},
				"2": {"date": "2018-10-30", "rooms": {}},
				"3": {"date": "2018-10-31", "rooms": {}}
			}
		}
	}`
	feeds := &fakeFeeds{
		version:  "1.0",
		speakers: testSpeakers,
		schedules: map[int]string{
			seed.BostonConferenceID: threeDays,
			seed.BerlinConferenceID: emptySchedule,
		},
	}
	h := newHarness(t, feeds)
	err := h.sync.Sync(context.Background())
	if err == nil {
		t.Fatal("expected too many days to be fatal")
	}
	if !strings.Contains(err.Error(), "too many days") {
		t.Errorf("err = %v", err)
	}
	// Both conferences must have been attempted.
	if len(feeds.fetched) != 2 {
		t.Errorf("fetched schedules = %v, want both conferences", feeds.fetched)
	}
}

func TestSyncMissingStructureIsFatal(t *testing.T) {
	feeds := &fakeFeeds{
		version:  "1.0",
		speakers: testSpeakers,
		schedules: map[int]string{
			seed.BostonConferenceID: `{"title": "no conference key"}`,
			seed.BerlinConferenceID: emptySchedule,
		},
	}
	h := newHarness(t, feeds)
	if err := h.sync.Sync(context.Background()); err == nil {
		t.Fatal("expected structural failure to be fatal")
	}
}

func TestSyncRemovesOrphanedSessions(t *testing.T) {
	feeds := &fakeFeeds{
		version:  "1.0",
		speakers: testSpeakers,
		schedules: map[int]string{
			seed.BostonConferenceID: bostonSchedule(keynoteSession + `,
				{"id": 501, "title": "Dropped Later", "start": "11:00", "duration": "00:30", "type": "talk"}`),
			seed.BerlinConferenceID: emptySchedule,
		},
	}
	h := newHarness(t, feeds)
	if err := h.sync.Sync(context.Background()); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if h.store.FindSessionByID(501) == nil {
		t.Fatal("session 501 missing after first sync")
	}

	feeds.schedules[seed.BostonConferenceID] = bostonSchedule(keynoteSession)
	if err := h.sync.Sync(context.Background()); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if h.store.FindSessionByID(501) != nil {
		t.Error("orphaned session 501 survived")
	}
	for _, day := range h.store.Days() {
		if containsSession(day.Sessions(), 501) {
			t.Error("orphan still referenced from a day")
		}
	}
	for _, room := range h.store.Rooms() {
		if containsSession(room.Sessions(), 501) {
			t.Error("orphan still referenced from a room")
		}
	}
}

func TestSyncMalformedDurationDefaultsToZero(t *testing.T) {
	badDuration := `{"id": 600, "title": "Odd", "start": "14:00", "duration": "garbage", "type": "talk"}`
	feeds := &fakeFeeds{
		version:  "1.0",
		speakers: testSpeakers,
		schedules: map[int]string{
			seed.BostonConferenceID: bostonSchedule(badDuration),
			seed.BerlinConferenceID: emptySchedule,
		},
	}
	h := newHarness(t, feeds)
	if err := h.sync.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	session := h.store.FindSessionByID(600)
	if session == nil {
		t.Fatal("session with bad duration was dropped; it must degrade, not vanish")
	}
	if session.Minutes != 0 {
		t.Errorf("minutes = %d, want 0", session.Minutes)
	}
	if session.End.String() != "14:00" {
		t.Errorf("end = %s, want start", session.End)
	}
}

func TestSyncEmptyRoomNameFallsBackToUnknown(t *testing.T) {
	doc := `{
		"conference": {
			"title": "TechCon",
			"days": {
				"1": {
					"date": "2018-10-29",
					"rooms": {"": [{"id": 700, "title": "Hallway", "start": "13:00", "duration": "00:15", "type": "talk"}]}
				}
			}
		}
	}`
	feeds := &fakeFeeds{
		version:  "1.0",
		speakers: testSpeakers,
		schedules: map[int]string{
			seed.BostonConferenceID: doc,
			seed.BerlinConferenceID: emptySchedule,
		},
	}
	h := newHarness(t, feeds)
	if err := h.sync.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	session := h.store.FindSessionByID(700)
	if session == nil {
		t.Fatal("session missing")
	}
	if session.RoomID != model.UnknownRoomID {
		t.Errorf("room = %d, want unknown room", session.RoomID)
	}
}

func TestCheckForUpdateEvents(t *testing.T) {
	feeds := &fakeFeeds{version: "2.0", speakers: testSpeakers}
	h := newHarness(t, feeds)

	var available string
	h.sync.events.UpdateAvailable = func(v string) { available = v }
	result, err := h.sync.CheckForUpdate(context.Background())
	if err != nil {
		t.Fatalf("CheckForUpdate: %v", err)
	}
	if available != "2.0" {
		t.Errorf("updateAvailable not emitted with version, got %q", available)
	}
	_ = result
}

func containsSession(sessions []*model.Session, id int) bool {
	for _, s := range sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}

func findRoomByName(st *store.Store, name string) *model.Room {
	for _, room := range st.Rooms() {
		if room.Name == name {
			return room
		}
	}
	return nil
}

func sessionIDs(st *store.Store) string {
	var b strings.Builder
	for _, s := range st.Sessions() {
		fmt.Fprintf(&b, "%d,", s.ID)
	}
	return b.String()
}
