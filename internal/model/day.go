package model

// Day is one calendar day of a conference. Sessions are attached as a
// lazy back-reference rebuilt on every sync; the rebuild preserves the
// chronological sort order of the sync run.
type Day struct {
	ID           int  `json:"id"`
	ConferenceID int  `json:"conference"`
	Weekday      int  `json:"weekday"` // 1=Monday .. 7=Sunday
	Date         Date `json:"date"`

	SessionIDs []int `json:"sessions,omitempty"`

	sessions         []*Session
	sessionsResolved bool
}

// Sessions returns the resolved session list in chronological order, or
// nil if the keys are unresolved.
func (d *Day) Sessions() []*Session { return d.sessions }

// SessionsResolved reports whether the session key list is materialized.
func (d *Day) SessionsResolved() bool { return d.sessionsResolved }

// ResolveSessions materializes the session key list. The caller must pass
// the sessions in the same order as the key list, which is sorted by sort
// key at finalize time. No-op if already resolved.
func (d *Day) ResolveSessions(sessions []*Session) {
	if d.sessionsResolved {
		return
	}
	d.sessions = append(d.sessions, sessions...)
	d.sessionsResolved = true
}

// AddSession appends a session back-reference, keeping the key list and
// the live list in step.
func (d *Day) AddSession(session *Session) {
	d.SessionIDs = append(d.SessionIDs, session.ID)
	d.sessions = append(d.sessions, session)
	d.sessionsResolved = true
}

// ClearSessions drops both the session keys and the resolved handles.
// Called at the start of every finalize before the rebuild.
func (d *Day) ClearSessions() {
	d.SessionIDs = nil
	d.sessions = nil
	d.sessionsResolved = false
}
