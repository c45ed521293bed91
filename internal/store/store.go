// Package store implements the in-memory entity store: the single owner of
// all domain entities, with key-based lookups, lazy-reference resolve
// passes, and the favorite derive/reapply round trip.
//
// The store performs no file or network I/O. Persistence is delegated to
// the cache gateway; the sync pipeline is the only writer while a sync is
// in progress.
package store

import (
	"sort"

	"github.com/confsched/schedsync/internal/model"
)

// Store owns every domain entity. Slices keep insertion (or sorted) order
// for display; maps provide key lookups.
type Store struct {
	conferences []*model.Conference
	days        []*model.Day
	rooms       []*model.Room
	tracks      []*model.SessionTrack
	sessions    []*model.Session
	speakers    []*model.Speaker
	images      []*model.SpeakerImage
	favorites   []*model.Favorite

	conferenceByID map[int]*model.Conference
	dayByID        map[int]*model.Day
	roomByID       map[int]*model.Room
	trackByID      map[int]*model.SessionTrack
	sessionByID    map[int]*model.Session
	speakerByID    map[int]*model.Speaker
	imageBySpeaker map[int]*model.SpeakerImage

	// currentConference is a cursor for UI consumers, recomputed lazily
	// and reset after every finalize.
	currentConference *model.Conference
}

// New creates an empty store.
func New() *Store {
	s := &Store{}
	s.resetIndexes()
	return s
}

func (s *Store) resetIndexes() {
	s.conferenceByID = make(map[int]*model.Conference)
	s.dayByID = make(map[int]*model.Day)
	s.roomByID = make(map[int]*model.Room)
	s.trackByID = make(map[int]*model.SessionTrack)
	s.sessionByID = make(map[int]*model.Session)
	s.speakerByID = make(map[int]*model.Speaker)
	s.imageBySpeaker = make(map[int]*model.SpeakerImage)
}

// Reset drops every entity. Used by the bootstrap generator before a
// wholesale reseed so no orphans from a prior schema survive.
func (s *Store) Reset() {
	s.conferences = nil
	s.days = nil
	s.rooms = nil
	s.tracks = nil
	s.sessions = nil
	s.speakers = nil
	s.images = nil
	s.favorites = nil
	s.currentConference = nil
	s.resetIndexes()
}

// Conferences returns all conferences in insertion order.
func (s *Store) Conferences() []*model.Conference { return s.conferences }

// InsertConference adds a conference. An existing conference with the same
// id is replaced in place.
func (s *Store) InsertConference(c *model.Conference) {
	if old, ok := s.conferenceByID[c.ID]; ok {
		for i, existing := range s.conferences {
			if existing == old {
				s.conferences[i] = c
				break
			}
		}
	} else {
		s.conferences = append(s.conferences, c)
	}
	s.conferenceByID[c.ID] = c
}

// FindConferenceByID returns the conference with the given id, or nil.
func (s *Store) FindConferenceByID(id int) *model.Conference {
	return s.conferenceByID[id]
}

// Days returns all days in insertion order.
func (s *Store) Days() []*model.Day { return s.days }

// InsertDay adds a day, replacing any existing day with the same id.
func (s *Store) InsertDay(d *model.Day) {
	if old, ok := s.dayByID[d.ID]; ok {
		for i, existing := range s.days {
			if existing == old {
				s.days[i] = d
				break
			}
		}
	} else {
		s.days = append(s.days, d)
	}
	s.dayByID[d.ID] = d
}

// FindDayByID returns the day with the given id, or nil.
func (s *Store) FindDayByID(id int) *model.Day {
	return s.dayByID[id]
}

// Rooms returns all rooms in insertion order.
func (s *Store) Rooms() []*model.Room { return s.rooms }

// InsertRoom adds a room, replacing any existing room with the same id.
func (s *Store) InsertRoom(r *model.Room) {
	if old, ok := s.roomByID[r.ID]; ok {
		for i, existing := range s.rooms {
			if existing == old {
				s.rooms[i] = r
				break
			}
		}
	} else {
		s.rooms = append(s.rooms, r)
	}
	s.roomByID[r.ID] = r
}

// FindRoomByID returns the room with the given id, or nil.
func (s *Store) FindRoomByID(id int) *model.Room {
	return s.roomByID[id]
}

// UnknownRoom returns the reserved dummy room for sessions without a
// resolvable room name, or nil if the store was never seeded.
func (s *Store) UnknownRoom() *model.Room {
	return s.roomByID[model.UnknownRoomID]
}

// Tracks returns all session tracks.
func (s *Store) Tracks() []*model.SessionTrack { return s.tracks }

// InsertTrack adds a track, replacing any existing track with the same id.
func (s *Store) InsertTrack(t *model.SessionTrack) {
	if old, ok := s.trackByID[t.ID]; ok {
		for i, existing := range s.tracks {
			if existing == old {
				s.tracks[i] = t
				break
			}
		}
	} else {
		s.tracks = append(s.tracks, t)
	}
	s.trackByID[t.ID] = t
}

// FindTrackByID returns the track with the given id, or nil.
func (s *Store) FindTrackByID(id int) *model.SessionTrack {
	return s.trackByID[id]
}

// SortTracksByName re-sorts the track list alphabetically. Finalize calls
// this before persisting tracks.
func (s *Store) SortTracksByName() {
	sort.SliceStable(s.tracks, func(i, j int) bool {
		return s.tracks[i].Name < s.tracks[j].Name
	})
}

// Sessions returns all sessions in their current order.
func (s *Store) Sessions() []*model.Session { return s.sessions }

// InsertSession adds a session, replacing any existing session with the
// same id.
func (s *Store) InsertSession(session *model.Session) {
	if old, ok := s.sessionByID[session.ID]; ok {
		for i, existing := range s.sessions {
			if existing == old {
				s.sessions[i] = session
				break
			}
		}
	} else {
		s.sessions = append(s.sessions, session)
	}
	s.sessionByID[session.ID] = session
}

// FindSessionByID returns the session with the given id, or nil.
func (s *Store) FindSessionByID(id int) *model.Session {
	return s.sessionByID[id]
}

// DeleteSessionByID removes a session. Returns false if no session with
// that id exists.
func (s *Store) DeleteSessionByID(id int) bool {
	session, ok := s.sessionByID[id]
	if !ok {
		return false
	}
	delete(s.sessionByID, id)
	for i, existing := range s.sessions {
		if existing == session {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			break
		}
	}
	return true
}

// ClearSessions empties the global session list. Finalize rebuilds it in
// sort-key order from the sync's multimap.
func (s *Store) ClearSessions() {
	s.sessions = nil
	s.sessionByID = make(map[int]*model.Session)
}

// SessionsForKeys resolves a key list into live sessions, preserving key
// order and skipping keys with no matching session.
func (s *Store) SessionsForKeys(ids []int) []*model.Session {
	sessions := make([]*model.Session, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if session := s.sessionByID[id]; session != nil {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// Speakers returns all speakers in their current (sorted) order.
func (s *Store) Speakers() []*model.Speaker { return s.speakers }

// InsertSpeaker adds a speaker, replacing any existing speaker with the
// same id.
func (s *Store) InsertSpeaker(sp *model.Speaker) {
	if old, ok := s.speakerByID[sp.ID]; ok {
		for i, existing := range s.speakers {
			if existing == old {
				s.speakers[i] = sp
				break
			}
		}
	} else {
		s.speakers = append(s.speakers, sp)
	}
	s.speakerByID[sp.ID] = sp
}

// FindSpeakerByID returns the speaker with the given id, or nil.
func (s *Store) FindSpeakerByID(id int) *model.Speaker {
	return s.speakerByID[id]
}

// ClearSpeakers empties the speaker list. Finalize rebuilds it from the
// sync's name-sorted speaker multimap, the only point where speaker sort
// order is authoritative.
func (s *Store) ClearSpeakers() {
	s.speakers = nil
	s.speakerByID = make(map[int]*model.Speaker)
}

// SpeakerImages returns all speaker images.
func (s *Store) SpeakerImages() []*model.SpeakerImage { return s.images }

// InsertSpeakerImage adds an image, replacing any existing record for the
// same speaker.
func (s *Store) InsertSpeakerImage(img *model.SpeakerImage) {
	if old, ok := s.imageBySpeaker[img.SpeakerID]; ok {
		for i, existing := range s.images {
			if existing == old {
				s.images[i] = img
				break
			}
		}
	} else {
		s.images = append(s.images, img)
	}
	s.imageBySpeaker[img.SpeakerID] = img
}

// FindSpeakerImageBySpeakerID returns the image record for a speaker, or
// nil.
func (s *Store) FindSpeakerImageBySpeakerID(speakerID int) *model.SpeakerImage {
	return s.imageBySpeaker[speakerID]
}

// Favorites returns the derived favorite records.
func (s *Store) Favorites() []*model.Favorite { return s.favorites }

// SetFavorites replaces the favorite list wholesale. Used when loading
// from cache before the records are applied to sessions.
func (s *Store) SetFavorites(favorites []*model.Favorite) {
	s.favorites = favorites
}

// DeriveFavorites recomputes the favorite records from the transient
// Session.IsFavorite flags. Called before every cache write.
func (s *Store) DeriveFavorites() {
	s.favorites = nil
	for _, session := range s.sessions {
		if session.IsFavorite {
			s.favorites = append(s.favorites, &model.Favorite{SessionID: session.ID})
		}
	}
}

// ApplyFavorites sets the transient IsFavorite flag on every session with
// a favorite record. Called after every cache load. Favorites pointing at
// sessions that no longer exist are ignored.
func (s *Store) ApplyFavorites() {
	for _, favorite := range s.favorites {
		if session := s.sessionByID[favorite.SessionID]; session != nil {
			session.IsFavorite = true
		}
	}
}
