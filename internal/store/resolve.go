package store

import "github.com/confsched/schedsync/internal/model"

// Resolve passes. After a cache load every relationship is keys-only;
// these passes materialize the handles the schedule needs. Each underlying
// Resolve* is a no-op when already resolved, so the passes are safe to run
// more than once.

// ResolveConferenceReferences materializes days, rooms and tracks for
// every conference, and the chronological session list of every day.
func (s *Store) ResolveConferenceReferences() {
	for _, conference := range s.conferences {
		conference.ResolveDays(s.daysForKeys(conference.DayIDs))
		for _, day := range conference.Days() {
			// Day sessions must keep the persisted (sort-key) order, so the
			// key list drives the lookup.
			day.ResolveSessions(s.SessionsForKeys(day.SessionIDs))
		}
		conference.ResolveRooms(s.roomsForKeys(conference.RoomIDs))
		conference.ResolveTracks(s.tracksForKeys(conference.TrackIDs))
	}
}

// ResolveSessionsForRooms materializes the session list of every room.
func (s *Store) ResolveSessionsForRooms() {
	for _, room := range s.rooms {
		room.ResolveSessions(s.SessionsForKeys(room.SessionIDs))
	}
}

// ResolveSessionsForTracks materializes the session list of every track.
func (s *Store) ResolveSessionsForTracks() {
	for _, track := range s.tracks {
		track.ResolveSessions(s.SessionsForKeys(track.SessionIDs))
	}
}

// ResolveSessionsForSpeaker materializes one speaker's session list.
func (s *Store) ResolveSessionsForSpeaker(speaker *model.Speaker) {
	speaker.ResolveSessions(s.SessionsForKeys(speaker.SessionIDs))
}

// ResolveSpeakerImages materializes the image reference of every speaker
// that has one.
func (s *Store) ResolveSpeakerImages() {
	for _, speaker := range s.speakers {
		if speaker.SpeakerImageID != 0 || s.imageBySpeaker[speaker.ID] != nil {
			speaker.ResolveImage(s.imageBySpeaker[speaker.ID])
		}
	}
}

// ResolveSessionReferences materializes day, room, tracks and presenter of
// every session.
func (s *Store) ResolveSessionReferences() {
	for _, session := range s.sessions {
		if day := s.dayByID[session.DayID]; day != nil {
			session.ResolveDay(day)
		}
		if room := s.roomByID[session.RoomID]; room != nil {
			session.ResolveRoom(room)
		}
		session.ResolveTracks(s.tracksForKeys(session.TrackIDs))
		session.ResolvePresenter(s.speakersForKeys(session.PresenterIDs))
	}
}

func (s *Store) daysForKeys(ids []int) []*model.Day {
	days := make([]*model.Day, 0, len(ids))
	for _, id := range ids {
		if day := s.dayByID[id]; day != nil {
			days = append(days, day)
		}
	}
	return days
}

func (s *Store) roomsForKeys(ids []int) []*model.Room {
	rooms := make([]*model.Room, 0, len(ids))
	for _, id := range ids {
		if room := s.roomByID[id]; room != nil {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

func (s *Store) tracksForKeys(ids []int) []*model.SessionTrack {
	tracks := make([]*model.SessionTrack, 0, len(ids))
	for _, id := range ids {
		if track := s.trackByID[id]; track != nil {
			tracks = append(tracks, track)
		}
	}
	return tracks
}

func (s *Store) speakersForKeys(ids []int) []*model.Speaker {
	speakers := make([]*model.Speaker, 0, len(ids))
	for _, id := range ids {
		if speaker := s.speakerByID[id]; speaker != nil {
			speakers = append(speakers, speaker)
		}
	}
	return speakers
}
