package sync

import (
	"fmt"
	"time"

	"github.com/confsched/schedsync/internal/model"
)

// finalize commits the merged state: rebuild every back-reference from
// the synced session set, drop orphans, regenerate the synthetic schedule
// items, then persist everything through the cache gateway. The step
// order is load-bearing; each step expects the previous one's result.
func (s *Synchronizer) finalize() error {
	st := s.store

	// Steps 1 to 3: drop all session back-references. Days and rooms keep
	// their identity, only the rebuilt lists change.
	for _, room := range st.Rooms() {
		room.ClearSessions()
	}
	for _, track := range st.Tracks() {
		track.ClearSessions()
	}
	for _, day := range st.Days() {
		day.ClearSessions()
	}

	// Step 4: the speaker list is rebuilt in feed order, sorted by name.
	// This is the only point where speaker sort order is authoritative.
	st.ClearSpeakers()
	for _, speaker := range s.speakers.sorted() {
		speaker.ClearSessions()
		st.InsertSpeaker(speaker)
	}

	// Step 5: sessions that were cached before but missed this sync were
	// removed upstream; drop them before the rebuild.
	existing := append([]*model.Session(nil), st.Sessions()...)
	for _, session := range existing {
		if !s.sessions.contains(session.ID) {
			s.logger.Printf("[sync] removing orphaned session %d %q", session.ID, session.Title)
			st.DeleteSessionByID(session.ID)
		}
	}

	// Step 6: regenerate the synthetic schedule items, then rebuild the
	// global session list in sort-key order, populating day, room, track
	// and speaker back-references in the same pass.
	st.ClearSessions()
	for _, conference := range st.Conferences() {
		s.injectGenericSessions(conference)
	}
	for _, session := range s.sessions.sorted() {
		st.InsertSession(session)
		if day := session.Day(); day != nil {
			day.AddSession(session)
		}
		if room := session.Room(); room != nil {
			room.AddSession(session)
		}
		for _, track := range session.Tracks() {
			track.AddSession(session)
		}
		for _, speaker := range session.Presenter() {
			speaker.AddSession(session)
		}
	}

	// Steps 7 to 12: persist. Speaker images merge by key in the store, so
	// records untouched this sync survive the write.
	if err := s.gateway.WriteSpeakers(st.Speakers()); err != nil {
		return fmt.Errorf("persist speakers: %w", err)
	}
	if err := s.gateway.WriteSpeakerImages(st.SpeakerImages()); err != nil {
		return fmt.Errorf("persist speaker images: %w", err)
	}

	st.SortTracksByName()
	if err := s.gateway.WriteSessionTracks(st.Tracks()); err != nil {
		return fmt.Errorf("persist session tracks: %w", err)
	}

	if err := s.gateway.WriteDays(st.Days()); err != nil {
		return fmt.Errorf("persist days: %w", err)
	}
	if err := s.gateway.WriteRooms(st.Rooms()); err != nil {
		return fmt.Errorf("persist rooms: %w", err)
	}
	if err := s.gateway.WriteSessions(st.Sessions()); err != nil {
		return fmt.Errorf("persist sessions: %w", err)
	}

	settings, err := s.gateway.ReadSettings()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if s.remoteVersion != "" {
		settings.APIVersion = s.remoteVersion
	}
	settings.LastUpdate = time.Now()
	settings.SchemaVersion = model.SchemaVersionCurrent
	if err := s.gateway.WriteSettings(settings); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}

	if err := s.gateway.WriteConferences(st.Conferences()); err != nil {
		return fmt.Errorf("persist conferences: %w", err)
	}

	// Step 13: the next read recomputes the current conference.
	st.ResetCurrentConference()

	st.ApplyFavorites()
	s.events.myScheduleRefreshed()
	return nil
}
