// Package sync reconciles the remote schedule and speaker feeds with the
// locally cached entity state. A sync run is a strict sequence: speakers,
// speaker image downloads, one schedule pass per conference, then a
// finalize step that rebuilds all back-references and persists the result.
// Nothing touches the on-disk cache until finalize commits.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/confsched/schedsync/internal/cache"
	"github.com/confsched/schedsync/internal/feed"
	"github.com/confsched/schedsync/internal/images"
	"github.com/confsched/schedsync/internal/model"
	"github.com/confsched/schedsync/internal/store"
	"github.com/confsched/schedsync/internal/version"
)

// ErrNoSpeakers marks an empty speaker feed. Speaker data is never
// partially applied, so an empty feed aborts the whole sync.
var ErrNoSpeakers = errors.New("speaker feed yields no entries")

// Fetcher is the network surface the synchronizer needs. Satisfied by
// fetch.Client.
type Fetcher interface {
	FetchVersion(ctx context.Context) ([]byte, error)
	FetchSpeakers(ctx context.Context) ([]byte, error)
	FetchSchedule(ctx context.Context, conferenceID int) ([]byte, error)
}

// Synchronizer drives the update pipeline against one store and one cache
// gateway. It is not safe for concurrent use; the pipeline is a single
// sequential pass and consumers must wait for the terminal event.
type Synchronizer struct {
	store   *store.Store
	gateway *cache.Gateway
	client  Fetcher
	queue   *images.Queue
	logger  *log.Logger
	events  Events

	// Per-run state, reset at the start of every Sync.
	sessions      *sessionMultimap
	speakers      *speakerMultimap
	remoteVersion string
}

// New wires a Synchronizer. A nil logger discards output.
func New(st *store.Store, gw *cache.Gateway, client Fetcher, queue *images.Queue, logger *log.Logger, events Events) *Synchronizer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Synchronizer{
		store:   st,
		gateway: gw,
		client:  client,
		queue:   queue,
		logger:  logger,
		events:  events,
	}
}

// CheckForUpdate fetches the remote API version and compares it against
// the cached one. It never mutates the store; the matching event fires
// before the result returns.
func (s *Synchronizer) CheckForUpdate(ctx context.Context) (version.Result, error) {
	data, err := s.client.FetchVersion(ctx)
	if err != nil {
		s.events.checkForUpdateFailed(err.Error())
		return version.NoUpdateRequired, fmt.Errorf("fetch version: %w", err)
	}
	remote, err := feed.ParseVersion(data)
	if err != nil {
		s.events.checkForUpdateFailed(err.Error())
		return version.NoUpdateRequired, fmt.Errorf("parse version: %w", err)
	}

	settings, err := s.gateway.ReadSettings()
	if err != nil {
		s.events.checkForUpdateFailed(err.Error())
		return version.NoUpdateRequired, fmt.Errorf("read settings: %w", err)
	}

	result, err := version.Check(settings.APIVersion, settings.SchemaVersion, remote)
	if err != nil {
		s.events.checkForUpdateFailed(err.Error())
		return version.NoUpdateRequired, err
	}
	s.remoteVersion = remote
	switch result {
	case version.UpdateAvailable:
		s.logger.Printf("[sync] update available: local %q remote %q", settings.APIVersion, remote)
		s.events.updateAvailable(remote)
	default:
		s.logger.Printf("[sync] no update required (local %q)", settings.APIVersion)
		s.events.noUpdateRequired()
	}
	return result, nil
}

// Sync runs the full pipeline. Fatal errors emit updateFailed and leave
// the on-disk cache untouched; the in-memory store may be inconsistent
// afterwards and the documented recovery is a reload from cache.
func (s *Synchronizer) Sync(ctx context.Context) error {
	if err := s.sync(ctx); err != nil {
		s.events.updateFailed(err.Error())
		return err
	}
	s.events.updateDone()
	return nil
}

func (s *Synchronizer) sync(ctx context.Context) error {
	s.sessions = newSessionMultimap()
	s.speakers = newSpeakerMultimap()

	// Favorites are keyed by session id and survive the sync on disk;
	// the transient flags are reapplied once the new session set is final.
	s.store.DeriveFavorites()
	if err := s.gateway.WriteFavorites(s.store.Favorites()); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}

	s.store.ResolveConferenceReferences()

	// A sync without a preceding check still records the version it
	// applied. Not knowing the remote version is not fatal.
	if s.remoteVersion == "" {
		if data, err := s.client.FetchVersion(ctx); err == nil {
			if remote, err := feed.ParseVersion(data); err == nil {
				s.remoteVersion = remote
			}
		} else {
			s.logger.Printf("[sync] WARNING: could not fetch version before sync: %v", err)
		}
	}

	s.events.progress("Syncing speakers...")
	speakerData, err := s.client.FetchSpeakers(ctx)
	if err != nil {
		return fmt.Errorf("fetch speakers: %w", err)
	}
	if err := s.syncSpeakers(speakerData); err != nil {
		return err
	}
	s.events.progress(fmt.Sprintf("Synced %d speakers.", s.speakers.len()))

	s.events.progress("Downloading speaker images...")
	pending := images.Pending(s.store.SpeakerImages())
	downloaded, err := s.queue.Run(ctx, pending, func(done, total int) {
		s.events.progress(fmt.Sprintf("Downloaded speaker image %d of %d.", done, total))
	})
	if err != nil {
		return fmt.Errorf("image downloads: %w", err)
	}
	s.logger.Printf("[sync] downloaded %d of %d speaker images", downloaded, len(pending))

	// Each conference's schedule pass is independent; a failure of one is
	// recorded but does not stop the other being attempted. Any failure
	// still aborts finalize, so the cache stays untouched.
	var scheduleErrs []error
	for _, conference := range s.store.Conferences() {
		s.events.progress(fmt.Sprintf("Syncing %s schedule...", conference.City))
		data, err := s.client.FetchSchedule(ctx, conference.ID)
		if err == nil {
			err = s.syncSchedule(conference, data)
		}
		if err != nil {
			err = fmt.Errorf("conference %d (%s): %w", conference.ID, conference.City, err)
			s.logger.Printf("[sync] %v", err)
			scheduleErrs = append(scheduleErrs, err)
		}
	}
	if len(scheduleErrs) > 0 {
		return errors.Join(scheduleErrs...)
	}

	s.events.progress("Finishing the update...")
	if err := s.finalize(); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	s.events.progress("Update done.")
	return nil
}

// syncSpeakers is the speaker pass: update-or-create every speaker of the
// feed and queue avatar downloads for new or changed origin URLs.
func (s *Synchronizer) syncSpeakers(data []byte) error {
	records, err := feed.ParseSpeakers(data)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNoSpeakers
	}

	for _, rec := range records {
		speaker := s.store.FindSpeakerByID(rec.ID)
		if speaker == nil {
			speaker = &model.Speaker{ID: rec.ID}
			s.store.InsertSpeaker(speaker)
		}
		speaker.Name, speaker.SortKey, speaker.SortGroup = model.DeriveSpeakerName(rec.FirstName, rec.LastName)
		speaker.Title = rec.Title
		speaker.Bio = rec.Bio

		s.syncSpeakerImage(speaker, rec.Avatar)
		s.speakers.insert(speaker)
	}
	return nil
}

// syncSpeakerImage creates or refreshes the speaker's image record from
// the feed's avatar URL. A changed origin URL re-queues the download; an
// unusable URL leaves any existing record alone.
func (s *Synchronizer) syncSpeakerImage(speaker *model.Speaker, avatar string) {
	url, suffix, ok := feed.SplitAvatarURL(avatar)
	if !ok {
		return
	}

	img := s.store.FindSpeakerImageBySpeakerID(speaker.ID)
	if img == nil {
		img = &model.SpeakerImage{
			SpeakerID: speaker.ID,
			OriginURL: url,
			Suffix:    suffix,
		}
		s.store.InsertSpeakerImage(img)
	} else if img.OriginURL != url {
		img.OriginURL = url
		img.Suffix = suffix
		img.InData = false
		img.DownloadSuccess = false
		img.DownloadFailed = false
		img.MaxScaleFactor = 0
	}
	speaker.SpeakerImageID = img.SpeakerID
	speaker.ResetImage()
	speaker.ResolveImage(img)
}

// syncSchedule is one conference's schedule pass: purge stale synthetic
// sessions, then walk the feed's day/room/session structure and merge
// every session into the store and the run's sort-key multimap.
func (s *Synchronizer) syncSchedule(conference *model.Conference, data []byte) error {
	// Stale synthetic sessions go first; the injector recreates them from
	// a rewound counter during finalize.
	for id := model.GenericSessionBase(conference.ID) - 1; id >= conference.LastGenericSessionID; id-- {
		s.store.DeleteSessionByID(id)
	}
	conference.ResetGenericSessionIDs()

	doc, err := feed.ParseSchedule(data)
	if err != nil {
		return err
	}

	days := conference.Days()
	if len(doc.Conference.Days) > len(days) {
		return fmt.Errorf("feed has %d days but conference %d has only %d: too many days",
			len(doc.Conference.Days), conference.ID, len(days))
	}
	if len(doc.Conference.Days) < len(days) {
		s.logger.Printf("[sync] WARNING: feed for conference %d has %d of %d days",
			conference.ID, len(doc.Conference.Days), len(days))
	}

	dayByDate := make(map[string]*model.Day, len(days))
	for _, day := range days {
		dayByDate[day.Date.String()] = day
	}

	// Feed days and rooms arrive as JSON maps; iterate them in sorted key
	// order so repeated syncs with identical input produce identical
	// entity order.
	for _, dayKey := range sortedKeys(doc.Conference.Days) {
		feedDay := doc.Conference.Days[dayKey]
		day, ok := dayByDate[feedDay.Date]
		if !ok {
			s.logger.Printf("[sync] WARNING: feed day %q does not belong to conference %d, skipping",
				feedDay.Date, conference.ID)
			continue
		}
		for _, roomName := range sortedKeys(feedDay.Rooms) {
			room := s.resolveRoom(conference, roomName)
			for _, rec := range feedDay.Rooms[roomName] {
				s.syncSession(conference, day, room, rec)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resolveRoom finds a room by name within the conference, creating one
// with the next sequential id when nothing matches. An empty name falls
// back to the reserved unknown room.
func (s *Synchronizer) resolveRoom(conference *model.Conference, name string) *model.Room {
	if name == "" {
		return s.store.UnknownRoom()
	}
	for _, room := range s.store.Rooms() {
		if room.Name == name && room.ConferenceID == conference.ID {
			return room
		}
	}
	room := &model.Room{
		ID:           conference.NextRoomID(),
		ConferenceID: conference.ID,
		Name:         name,
	}
	s.store.InsertRoom(room)
	conference.AddRoom(room)
	s.logger.Printf("[sync] created room %d %q for conference %d", room.ID, name, conference.ID)
	return room
}

// resolveTrack finds a track by name within the conference, creating one
// from the conference's track id sequence when nothing matches.
func (s *Synchronizer) resolveTrack(conference *model.Conference, rec feed.ScheduleTrack) *model.SessionTrack {
	for _, track := range s.store.Tracks() {
		if track.Name == rec.Name && track.ConferenceID == conference.ID {
			return track
		}
	}
	track := &model.SessionTrack{
		ID:           conference.NextTrackID(),
		ConferenceID: conference.ID,
		Name:         rec.Name,
		Color:        rec.Color,
	}
	s.store.InsertTrack(track)
	conference.AddTrack(track)
	return track
}

// syncSession merges one feed session into the store and the sort-key
// multimap. Per-record problems are logged and degrade that one session,
// never the whole sync.
func (s *Synchronizer) syncSession(conference *model.Conference, day *model.Day, room *model.Room, rec feed.ScheduleSession) {
	session := s.store.FindSessionByID(rec.ID)
	if session == nil {
		session = &model.Session{ID: rec.ID}
		s.store.InsertSession(session)
	}

	session.ConferenceID = conference.ID
	session.Title = rec.Title
	session.Subtitle = rec.Subtitle
	session.Abstract = rec.Abstract
	session.Description = rec.Description

	start, err := model.ParseClock(rec.Start)
	if err != nil {
		s.logger.Printf("[sync] WARNING: session %d start %q: %v", rec.ID, rec.Start, err)
	}
	minutes, err := model.ParseDurationMinutes(rec.Duration)
	if err != nil {
		s.logger.Printf("[sync] WARNING: session %d duration %q: %v", rec.ID, rec.Duration, err)
		minutes = 0
	}
	session.Start = start
	session.Minutes = minutes
	session.End = start.AddMinutes(minutes)

	session.IsTraining = rec.Type == "training"
	session.IsLightning = rec.Type == "lightning_talk"
	session.IsMeeting = rec.Type == "meeting"
	session.IsCommunity = rec.Type == "community"
	session.IsUnconference = rec.Type == "unconference"

	tracks := make([]*model.SessionTrack, 0, len(rec.Tracks))
	trackIDs := make([]int, 0, len(rec.Tracks))
	session.IsKeynote = false
	for _, tr := range rec.Tracks {
		track := s.resolveTrack(conference, tr)
		tracks = append(tracks, track)
		trackIDs = append(trackIDs, track.ID)
		if track.Name == model.KeynoteTrackName {
			session.IsKeynote = true
		}
	}
	session.TrackIDs = trackIDs
	session.ResetTracks()
	session.ResolveTracks(tracks)

	presenter := make([]*model.Speaker, 0, len(rec.Persons))
	presenterIDs := make([]int, 0, len(rec.Persons))
	for _, person := range rec.Persons {
		speaker := s.store.FindSpeakerByID(person.ID)
		if speaker == nil {
			s.logger.Printf("[sync] WARNING: session %d references unknown speaker %d (%s)",
				rec.ID, person.ID, person.Name)
			continue
		}
		speaker.AddConference(conference.ID)
		presenter = append(presenter, speaker)
		presenterIDs = append(presenterIDs, speaker.ID)
	}
	session.PresenterIDs = presenterIDs
	session.ResetPresenter()
	session.ResolvePresenter(presenter)

	session.SetDay(day)
	session.SetRoom(room)
	session.SortKey = model.SortKey(day.Date, start)

	s.sessions.insert(session)
}
