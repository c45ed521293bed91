package model

// Favorite marks a session as part of the user's personal schedule.
// Favorites are derived, not authoritative: they are recomputed from
// Session.IsFavorite before every cache write and reapplied to sessions
// after every cache load. Existence of the record is the whole payload.
type Favorite struct {
	SessionID int `json:"session_id"`
}
