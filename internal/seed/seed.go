// Package seed bootstraps the entity store with the fixed data set of the
// two known conference editions. It runs when no cache exists yet, when
// the cached data predates the first supported edition, or when the cached
// schema version is older than the reseed milestone.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/confsched/schedsync/internal/cache"
	"github.com/confsched/schedsync/internal/model"
	"github.com/confsched/schedsync/internal/store"
)

// Conference ids of the two seeded editions. All seeded data hangs off
// these; anything below BostonConferenceID in the cache marks a stale,
// pre-2018 data set that must be reseeded.
const (
	BostonConferenceID = 201801
	BerlinConferenceID = 201802
)

// Room id buckets in the bundled catalog. The catalog is one flat file;
// ids are partitioned onto conferences by numeric range.
const (
	bostonRoomBase = 2018000
	berlinRoomBase = 2018100
	roomBucketSize = 100
)

//go:embed mapping.json
var roomCatalog []byte

type catalogRoom struct {
	ID   int    `json:"room_id"`
	Name string `json:"name"`
}

// NeedsSeed reports whether the cached data set must be thrown away and
// rebuilt from the bundled seed.
func NeedsSeed(conferences []*model.Conference, settings *model.Settings) bool {
	if len(conferences) == 0 {
		return true
	}
	last := conferences[len(conferences)-1]
	if last.ID < BostonConferenceID {
		return true
	}
	return settings.SchemaVersion < model.SchemaVersionSeed
}

// Generator rebuilds the seeded data set inside a store.
type Generator struct {
	store   *store.Store
	gateway *cache.Gateway
	logger  *log.Logger
}

// New returns a Generator writing into st and using gw for the bundled
// speaker assets. A nil logger discards output.
func New(st *store.Store, gw *cache.Gateway, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Generator{store: st, gateway: gw, logger: logger}
}

// Run wipes all entity state, including cached speaker image files, and
// recreates the seeded conferences, days and room catalog. Speakers and
// speaker images are restored from the bundled defaults. The whole seed is
// atomic in spirit: any failure leaves the store reset but unseeded, and
// the caller must treat that as fatal.
func (g *Generator) Run() error {
	g.logger.Printf("[seed] reseeding data set (schema %d)", model.SchemaVersionSeed)

	g.store.Reset()
	g.gateway.RemoveSpeakerCaches()

	// Sessions without a resolvable room name land here.
	g.store.InsertRoom(&model.Room{
		ID:       model.UnknownRoomID,
		Name:     "Room unknown",
		InAssets: true,
	})

	boston := g.seedBoston()
	berlin := g.seedBerlin()

	if err := g.seedRooms(boston, berlin); err != nil {
		return fmt.Errorf("seed room catalog: %w", err)
	}
	if err := g.seedSpeakers(); err != nil {
		return fmt.Errorf("seed speakers: %w", err)
	}

	g.logger.Printf("[seed] seeded %d conferences, %d days, %d rooms, %d speakers",
		len(g.store.Conferences()), len(g.store.Days()),
		len(g.store.Rooms()), len(g.store.Speakers()))
	return nil
}

func (g *Generator) seedBoston() *model.Conference {
	c := &model.Conference{
		ID:           BostonConferenceID,
		Name:         "TechCon 2018 Boston",
		City:         "Boston",
		Address:      "425 Summer St, Boston, MA 02210",
		MapAddress:   "425+Summer+St,+Boston",
		TimeZoneName: "America/New_York",
		UTCOffset:    -4 * 3600,
		From:         model.NewDate(2018, time.October, 29),
		To:           model.NewDate(2018, time.October, 30),
		HashTag:      "#techcon18",
		HomePage:     "https://www.techcon.io/boston",
		Coordinate:   "42.3466,-71.0430",
		PlaceID:      "ChIJl7yhBvx644kRsBqqPWAkL1M",
	}
	g.initCounters(c)
	g.store.InsertConference(c)
	g.seedDays(c, 2018011)
	return c
}

func (g *Generator) seedBerlin() *model.Conference {
	c := &model.Conference{
		ID:           BerlinConferenceID,
		Name:         "TechCon 2018 Berlin",
		City:         "Berlin",
		Address:      "Alexanderstr. 11, 10178 Berlin",
		MapAddress:   "Alexanderstr.+11,+Berlin",
		TimeZoneName: "Europe/Berlin",
		UTCOffset:    1 * 3600,
		From:         model.NewDate(2018, time.December, 5),
		To:           model.NewDate(2018, time.December, 6),
		HashTag:      "#techcon18",
		HomePage:     "https://www.techcon.io/berlin",
		Coordinate:   "52.5200,13.4132",
		PlaceID:      "ChIJVTPokywOqEcRW-HJMtNyqDw",
	}
	g.initCounters(c)
	g.store.InsertConference(c)
	g.seedDays(c, 2018021)
	return c
}

// initCounters primes the conference-scoped id counters. Track ids count
// up from conferenceId*100, synthetic session ids count down from the
// negated base. The room counter starts at the catalog bucket base and is
// raised past the seeded ids in seedRooms.
func (g *Generator) initCounters(c *model.Conference) {
	c.LastSessionTrackID = c.ID * 100
	c.LastGenericSessionID = model.GenericSessionBase(c.ID)
	switch c.ID {
	case BostonConferenceID:
		c.LastRoomID = bostonRoomBase
	case BerlinConferenceID:
		c.LastRoomID = berlinRoomBase
	}
}

// seedDays creates one Day per date in the conference's range, ids
// counting up from firstDayID.
func (g *Generator) seedDays(c *model.Conference, firstDayID int) {
	id := firstDayID
	for date := c.From; !c.To.Before(date); date = model.DateOf(date.Time().AddDate(0, 0, 1)) {
		day := &model.Day{
			ID:           id,
			ConferenceID: c.ID,
			Weekday:      date.Weekday(),
			Date:         date,
		}
		g.store.InsertDay(day)
		c.AddDay(day)
		id++
	}
}

// seedRooms loads the bundled room catalog and partitions it onto the two
// conferences by id bucket. Seeded rooms are tagged inAssets so a later
// sync can tell them apart from server-created ones.
func (g *Generator) seedRooms(boston, berlin *model.Conference) error {
	var catalog []catalogRoom
	if err := json.Unmarshal(roomCatalog, &catalog); err != nil {
		return fmt.Errorf("parse room catalog: %w", err)
	}
	for _, entry := range catalog {
		room := &model.Room{
			ID:       entry.ID,
			Name:     entry.Name,
			InAssets: true,
		}
		var conference *model.Conference
		switch {
		case entry.ID > bostonRoomBase && entry.ID < bostonRoomBase+roomBucketSize:
			conference = boston
		case entry.ID > berlinRoomBase && entry.ID < berlinRoomBase+roomBucketSize:
			conference = berlin
		default:
			g.logger.Printf("[seed] WARNING: room %d %q outside known id buckets, skipping", entry.ID, entry.Name)
			continue
		}
		room.ConferenceID = conference.ID
		g.store.InsertRoom(room)
		conference.AddRoom(room)
		if entry.ID > conference.LastRoomID {
			conference.LastRoomID = entry.ID
		}
	}
	return nil
}

// seedSpeakers restores speakers and their image records from the bundled
// defaults. A build without bundled speaker assets seeds none; that is not
// an error, the next sync fills them in.
func (g *Generator) seedSpeakers() error {
	speakers, err := g.gateway.ReadSpeakers()
	if err != nil {
		return fmt.Errorf("read bundled speakers: %w", err)
	}
	images, err := g.gateway.ReadSpeakerImages()
	if err != nil {
		return fmt.Errorf("read bundled speaker images: %w", err)
	}
	for _, sp := range speakers {
		g.store.InsertSpeaker(sp)
	}
	for _, img := range images {
		img.InAssets = true
		g.store.InsertSpeakerImage(img)
	}
	g.store.ResolveSpeakerImages()
	return nil
}
