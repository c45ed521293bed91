package model

// KeynoteTrackName marks the track whose sessions are flagged as keynotes.
const KeynoteTrackName = "Keynote"

// SessionTrack groups sessions by topic. Tracks referenced by the feed but
// unknown locally are created on the fly with the conference's next
// sequential track id and tagged as not-from-assets.
type SessionTrack struct {
	ID           int    `json:"track_id"`
	ConferenceID int    `json:"conference"`
	Name         string `json:"name"`
	Color        string `json:"color,omitempty"`
	InAssets     bool   `json:"in_assets"`

	SessionIDs []int `json:"sessions,omitempty"`

	sessions         []*Session
	sessionsResolved bool
}

// Sessions returns the resolved session list, or nil if unresolved.
func (t *SessionTrack) Sessions() []*Session { return t.sessions }

// SessionsResolved reports whether the session key list is materialized.
func (t *SessionTrack) SessionsResolved() bool { return t.sessionsResolved }

// ResolveSessions materializes the session key list. No-op if resolved.
func (t *SessionTrack) ResolveSessions(sessions []*Session) {
	if t.sessionsResolved {
		return
	}
	t.sessions = append(t.sessions, sessions...)
	t.sessionsResolved = true
}

// AddSession appends a session back-reference.
func (t *SessionTrack) AddSession(session *Session) {
	t.SessionIDs = append(t.SessionIDs, session.ID)
	t.sessions = append(t.sessions, session)
	t.sessionsResolved = true
}

// ClearSessions drops session keys and resolved handles before a rebuild.
func (t *SessionTrack) ClearSessions() {
	t.SessionIDs = nil
	t.sessions = nil
	t.sessionsResolved = false
}
