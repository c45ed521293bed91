package model

// UnknownRoomID is the reserved id of the dummy room used for sessions
// whose feed entry carries no resolvable room name.
const UnknownRoomID = 0

// Room is a conference room. Seeded rooms come from the bundled room
// catalog (InAssets true); rooms first seen in a schedule feed are created
// with the conference's next sequential room id.
type Room struct {
	ID           int    `json:"room_id"`
	ConferenceID int    `json:"conference"`
	Name         string `json:"name"`
	InAssets     bool   `json:"in_assets"`

	SessionIDs []int `json:"sessions,omitempty"`

	sessions         []*Session
	sessionsResolved bool
}

// Sessions returns the resolved session list, or nil if unresolved.
func (r *Room) Sessions() []*Session { return r.sessions }

// SessionsResolved reports whether the session key list is materialized.
func (r *Room) SessionsResolved() bool { return r.sessionsResolved }

// ResolveSessions materializes the session key list. No-op if resolved.
func (r *Room) ResolveSessions(sessions []*Session) {
	if r.sessionsResolved {
		return
	}
	r.sessions = append(r.sessions, sessions...)
	r.sessionsResolved = true
}

// AddSession appends a session back-reference.
func (r *Room) AddSession(session *Session) {
	r.SessionIDs = append(r.SessionIDs, session.ID)
	r.sessions = append(r.sessions, session)
	r.sessionsResolved = true
}

// ClearSessions drops session keys and resolved handles before a rebuild.
func (r *Room) ClearSessions() {
	r.SessionIDs = nil
	r.sessions = nil
	r.sessionsResolved = false
}
