package model

import "fmt"

// Session is a single schedule entry. Fed sessions carry the feed's
// non-negative id; synthetic schedule items (registration, lunch, breaks,
// networking) live in the conference's reserved negative id range.
type Session struct {
	ID           int    `json:"session_id"`
	ConferenceID int    `json:"conference"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	Description  string `json:"description,omitempty"`
	Abstract     string `json:"abstract,omitempty"`

	DayID        int   `json:"day"`
	RoomID       int   `json:"room"`
	TrackIDs     []int `json:"tracks,omitempty"`
	PresenterIDs []int `json:"presenter,omitempty"`

	Start   Clock `json:"start"`
	End     Clock `json:"end"`
	Minutes int   `json:"minutes"`

	IsKeynote      bool `json:"is_keynote,omitempty"`
	IsTraining     bool `json:"is_training,omitempty"`
	IsLightning    bool `json:"is_lightning,omitempty"`
	IsCommunity    bool `json:"is_community,omitempty"`
	IsMeeting      bool `json:"is_meeting,omitempty"`
	IsUnconference bool `json:"is_unconference,omitempty"`

	// Synthetic schedule item flags. IsGeneric is set together with exactly
	// one of the sub-flags.
	IsGeneric      bool `json:"is_generic_schedule_session,omitempty"`
	IsRegistration bool `json:"is_registration,omitempty"`
	IsLunch        bool `json:"is_lunch,omitempty"`
	IsBreak        bool `json:"is_break,omitempty"`
	IsEvent        bool `json:"is_event,omitempty"`

	// SortKey orders sessions chronologically across rooms and conferences
	// ("yyyy-MM-ddHH:mm").
	SortKey string `json:"sort_key"`

	// IsFavorite is transient: derived into Favorite records before every
	// cache write and reapplied after every cache load.
	IsFavorite bool `json:"-"`

	day               *Day
	room              *Room
	tracks            []*SessionTrack
	presenter         []*Speaker
	dayResolved       bool
	roomResolved      bool
	tracksResolved    bool
	presenterResolved bool
}

// Validate checks the invariants required before a session is inserted.
func (s *Session) Validate() error {
	if s.ID == 0 {
		return fmt.Errorf("session id is required")
	}
	if s.Title == "" {
		return fmt.Errorf("session title is required")
	}
	if s.IsGeneric && s.ID >= 0 {
		return fmt.Errorf("generic session %d must have a negative id", s.ID)
	}
	if !s.IsGeneric && s.ID < 0 {
		return fmt.Errorf("fed session %d must have a non-negative id", s.ID)
	}
	return nil
}

// Day returns the resolved day, or nil if unresolved.
func (s *Session) Day() *Day { return s.day }

// ResolveDay materializes the day reference. No-op if already resolved.
func (s *Session) ResolveDay(day *Day) {
	if s.dayResolved {
		return
	}
	s.day = day
	s.dayResolved = true
}

// SetDay rebinds the day reference and key in one step.
func (s *Session) SetDay(day *Day) {
	s.DayID = day.ID
	s.day = day
	s.dayResolved = true
}

// Room returns the resolved room, or nil if unresolved.
func (s *Session) Room() *Room { return s.room }

// ResolveRoom materializes the room reference. No-op if already resolved.
func (s *Session) ResolveRoom(room *Room) {
	if s.roomResolved {
		return
	}
	s.room = room
	s.roomResolved = true
}

// SetRoom rebinds the room reference and key in one step.
func (s *Session) SetRoom(room *Room) {
	s.RoomID = room.ID
	s.room = room
	s.roomResolved = true
}

// Tracks returns the resolved track list, or nil if unresolved.
func (s *Session) Tracks() []*SessionTrack { return s.tracks }

// ResolveTracks materializes the track key list. No-op if resolved.
func (s *Session) ResolveTracks(tracks []*SessionTrack) {
	if s.tracksResolved {
		return
	}
	s.tracks = append(s.tracks, tracks...)
	s.tracksResolved = true
}

// ResetTracks drops resolved track handles so SetTrackIDs + ResolveTracks
// can rebind them during an update.
func (s *Session) ResetTracks() {
	s.tracks = nil
	s.tracksResolved = false
}

// Presenter returns the resolved speaker list, or nil if unresolved.
func (s *Session) Presenter() []*Speaker { return s.presenter }

// ResolvePresenter materializes the presenter key list. No-op if resolved.
func (s *Session) ResolvePresenter(speakers []*Speaker) {
	if s.presenterResolved {
		return
	}
	s.presenter = append(s.presenter, speakers...)
	s.presenterResolved = true
}

// ResetPresenter drops resolved presenter handles.
func (s *Session) ResetPresenter() {
	s.presenter = nil
	s.presenterResolved = false
}

// ResetReferences drops every resolved handle, leaving the key lists
// authoritative. Used when reloading entities from cache.
func (s *Session) ResetReferences() {
	s.day = nil
	s.room = nil
	s.dayResolved = false
	s.roomResolved = false
	s.ResetTracks()
	s.ResetPresenter()
}

// TypeLetter returns the single-letter session classification used by
// schedule views.
func (s *Session) TypeLetter() string {
	switch {
	case s.IsTraining:
		return "T"
	case s.IsLightning:
		return "L"
	case s.IsKeynote:
		return "K"
	case s.IsCommunity:
		return "C"
	case s.IsMeeting:
		return "M"
	case s.IsUnconference:
		return "U"
	default:
		return "S"
	}
}

// TypeText returns the human-readable session classification with its
// duration, e.g. "Keynote (60 Minutes)".
func (s *Session) TypeText() string {
	info := fmt.Sprintf(" (%d Minutes)", s.Minutes)
	if s.IsGeneric {
		switch {
		case s.IsRegistration:
			return "Registration" + info
		case s.IsEvent:
			return "Event" + info
		case s.IsLunch:
			return "Lunch" + info
		default:
			return "Break" + info
		}
	}
	switch {
	case s.IsTraining:
		return "Training" + info
	case s.IsLightning:
		return "Lightning Talk" + info
	case s.IsKeynote:
		return "Keynote" + info
	case s.IsCommunity:
		return "Community" + info
	case s.IsUnconference:
		return "Unconference" + info
	case s.IsMeeting:
		return "Meeting" + info
	default:
		return "Session" + info
	}
}

// StartToEnd returns the "HH:mm - HH:mm" display range.
func (s *Session) StartToEnd() string {
	return s.Start.String() + " - " + s.End.String()
}
