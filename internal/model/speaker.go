package model

import (
	"strings"
	"unicode/utf8"
)

// NoNameSortKey groups speakers without any name last in UI sort order.
const NoNameSortKey = "*"

// Speaker is a conference speaker. Speakers are shared across conference
// editions; ConferenceIDs lists every edition the speaker appears in.
type Speaker struct {
	ID    int    `json:"speaker_id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Bio   string `json:"bio,omitempty"`

	// SortKey is the first 5 characters of the last name, uppercased,
	// falling back to the first name; SortGroup is its first character.
	// Both are "*" for a nameless speaker.
	SortKey   string `json:"sort_key"`
	SortGroup string `json:"sort_group"`

	SpeakerImageID int   `json:"speaker_image,omitempty"`
	SessionIDs     []int `json:"sessions,omitempty"`
	ConferenceIDs  []int `json:"conferences,omitempty"`

	image         *SpeakerImage
	imageResolved bool

	sessions         []*Session
	sessionsResolved bool
}

// DeriveSpeakerName computes the display name, sort key and sort group
// from the feed's first and last name fields.
func DeriveSpeakerName(firstName, lastName string) (name, sortKey, sortGroup string) {
	name = firstName
	if name != "" && lastName != "" {
		name += " "
	}
	name += lastName
	if name == "" {
		return "", NoNameSortKey, NoNameSortKey
	}
	base := lastName
	if base == "" {
		base = firstName
	}
	sortKey = strings.ToUpper(firstRunes(base, 5))
	sortGroup = firstRunes(sortKey, 1)
	return name, sortKey, sortGroup
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// HasImage reports whether the speaker has an image reference.
func (s *Speaker) HasImage() bool {
	return s.imageResolved && s.image != nil
}

// Image returns the resolved speaker image, or nil.
func (s *Speaker) Image() *SpeakerImage { return s.image }

// ResolveImage materializes the image reference. No-op if resolved.
func (s *Speaker) ResolveImage(image *SpeakerImage) {
	if s.imageResolved {
		return
	}
	s.image = image
	if image != nil {
		s.SpeakerImageID = image.SpeakerID
	}
	s.imageResolved = true
}

// ResetImage drops the resolved image handle.
func (s *Speaker) ResetImage() {
	s.image = nil
	s.imageResolved = false
}

// Sessions returns the resolved session list, or nil if unresolved.
func (s *Speaker) Sessions() []*Session { return s.sessions }

// SessionsResolved reports whether the session key list is materialized.
func (s *Speaker) SessionsResolved() bool { return s.sessionsResolved }

// ResolveSessions materializes the session key list. No-op if resolved.
func (s *Speaker) ResolveSessions(sessions []*Session) {
	if s.sessionsResolved {
		return
	}
	s.sessions = append(s.sessions, sessions...)
	s.sessionsResolved = true
}

// AddSession appends a session back-reference.
func (s *Speaker) AddSession(session *Session) {
	s.SessionIDs = append(s.SessionIDs, session.ID)
	s.sessions = append(s.sessions, session)
	s.sessionsResolved = true
}

// ClearSessions drops session keys and resolved handles before a rebuild.
func (s *Speaker) ClearSessions() {
	s.SessionIDs = nil
	s.sessions = nil
	s.sessionsResolved = false
}

// AddConference records that the speaker appears in a conference edition.
func (s *Speaker) AddConference(conferenceID int) {
	for _, id := range s.ConferenceIDs {
		if id == conferenceID {
			return
		}
	}
	s.ConferenceIDs = append(s.ConferenceIDs, conferenceID)
}

// SessionTitles returns all session titles, one per line. Used by speaker
// detail views.
func (s *Speaker) SessionTitles() string {
	var b strings.Builder
	for i, session := range s.sessions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(session.Title)
	}
	return b.String()
}
