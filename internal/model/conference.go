package model

import "fmt"

// Conference is a single conference edition. The id encodes year and
// edition (e.g. 201801, 201802) and scopes the id counters for rooms,
// tracks and synthetic sessions.
type Conference struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	City          string  `json:"city"`
	Address       string  `json:"address,omitempty"`
	MapAddress    string  `json:"map_address,omitempty"`
	TimeZoneName  string  `json:"timezone_name,omitempty"`
	UTCOffset     int     `json:"utc_offset_seconds,omitempty"`
	From          Date    `json:"from"`
	To            Date    `json:"to"`
	HashTag       string  `json:"hashtag,omitempty"`
	HomePage      string  `json:"homepage,omitempty"`
	Coordinate    string  `json:"coordinate,omitempty"`
	PlaceID       string  `json:"place_id,omitempty"`

	// Conference-scoped id counters. Any code creating a new Room, track or
	// generic session must bump the counter first and use the new value as
	// the key. Generic session ids count down from GenericSessionBase.
	LastRoomID           int `json:"last_room_id"`
	LastSessionTrackID   int `json:"last_session_track_id"`
	LastGenericSessionID int `json:"last_generic_session_id"`

	// Lazy references, persisted as key lists only.
	DayIDs   []int `json:"days,omitempty"`
	TrackIDs []int `json:"tracks,omitempty"`
	RoomIDs  []int `json:"rooms,omitempty"`

	days           []*Day
	tracks         []*SessionTrack
	rooms          []*Room
	daysResolved   bool
	tracksResolved bool
	roomsResolved  bool
}

// GenericSessionBase returns the top of the conference's reserved negative
// id range for synthetic sessions: conferenceId * 100 * -1, counted down.
func GenericSessionBase(conferenceID int) int {
	return conferenceID * 100 * -1
}

// Validate checks the invariants required before a conference is inserted.
func (c *Conference) Validate() error {
	if c.ID == 0 {
		return fmt.Errorf("conference id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("conference name is required")
	}
	if c.From.IsZero() || c.To.IsZero() {
		return fmt.Errorf("conference date range is required")
	}
	return nil
}

// Days returns the resolved day list, or nil if keys are unresolved.
func (c *Conference) Days() []*Day { return c.days }

// DaysResolved reports whether the day key list has been materialized.
func (c *Conference) DaysResolved() bool { return c.daysResolved }

// ResolveDays materializes the day key list. Resolving twice is a no-op;
// call ResetDays first to re-resolve.
func (c *Conference) ResolveDays(days []*Day) {
	if c.daysResolved {
		return
	}
	c.days = append(c.days, days...)
	c.daysResolved = true
}

// AddDay attaches a day, keeping the key list and the live list in step.
func (c *Conference) AddDay(day *Day) {
	for _, id := range c.DayIDs {
		if id == day.ID {
			return
		}
	}
	c.DayIDs = append(c.DayIDs, day.ID)
	c.days = append(c.days, day)
	c.daysResolved = true
}

// ResetDays drops the resolved day handles so the keys can be resolved
// again after a reload.
func (c *Conference) ResetDays() {
	c.days = nil
	c.daysResolved = false
}

// Tracks returns the resolved track list, or nil if keys are unresolved.
func (c *Conference) Tracks() []*SessionTrack { return c.tracks }

// TracksResolved reports whether the track key list has been materialized.
func (c *Conference) TracksResolved() bool { return c.tracksResolved }

// ResolveTracks materializes the track key list. No-op if already resolved.
func (c *Conference) ResolveTracks(tracks []*SessionTrack) {
	if c.tracksResolved {
		return
	}
	c.tracks = append(c.tracks, tracks...)
	c.tracksResolved = true
}

// AddTrack attaches a track, keeping key list and live list in step.
func (c *Conference) AddTrack(track *SessionTrack) {
	for _, id := range c.TrackIDs {
		if id == track.ID {
			return
		}
	}
	c.TrackIDs = append(c.TrackIDs, track.ID)
	c.tracks = append(c.tracks, track)
	c.tracksResolved = true
}

// ResetTracks drops the resolved track handles.
func (c *Conference) ResetTracks() {
	c.tracks = nil
	c.tracksResolved = false
}

// Rooms returns the resolved room list, or nil if keys are unresolved.
func (c *Conference) Rooms() []*Room { return c.rooms }

// RoomsResolved reports whether the room key list has been materialized.
func (c *Conference) RoomsResolved() bool { return c.roomsResolved }

// ResolveRooms materializes the room key list. No-op if already resolved.
func (c *Conference) ResolveRooms(rooms []*Room) {
	if c.roomsResolved {
		return
	}
	c.rooms = append(c.rooms, rooms...)
	c.roomsResolved = true
}

// AddRoom attaches a room, keeping key list and live list in step.
func (c *Conference) AddRoom(room *Room) {
	for _, id := range c.RoomIDs {
		if id == room.ID {
			return
		}
	}
	c.RoomIDs = append(c.RoomIDs, room.ID)
	c.rooms = append(c.rooms, room)
	c.roomsResolved = true
}

// ResetRooms drops the resolved room handles.
func (c *Conference) ResetRooms() {
	c.rooms = nil
	c.roomsResolved = false
}

// NextRoomID bumps the room counter and returns the new id.
func (c *Conference) NextRoomID() int {
	c.LastRoomID++
	return c.LastRoomID
}

// NextTrackID bumps the session track counter and returns the new id.
func (c *Conference) NextTrackID() int {
	c.LastSessionTrackID++
	return c.LastSessionTrackID
}

// NextGenericSessionID decrements the generic session counter and returns
// the new id. Ids are strictly negative and never reused within a sync run.
func (c *Conference) NextGenericSessionID() int {
	c.LastGenericSessionID--
	return c.LastGenericSessionID
}

// ResetGenericSessionIDs rewinds the synthetic id counter to the base
// value. Called after the stale synthetic sessions have been purged.
func (c *Conference) ResetGenericSessionIDs() {
	c.LastGenericSessionID = GenericSessionBase(c.ID)
}
