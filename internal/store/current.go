package store

import "github.com/confsched/schedsync/internal/model"

// CurrentConference returns the conference the UI is focused on. On first
// access after a load or finalize it defaults to the most recently
// inserted conference.
func (s *Store) CurrentConference() *model.Conference {
	if s.currentConference == nil && len(s.conferences) > 0 {
		s.currentConference = s.conferences[len(s.conferences)-1]
	}
	return s.currentConference
}

// SwitchConference moves the cursor to the other conference edition and
// returns it. With a single conference it stays put.
func (s *Store) SwitchConference() *model.Conference {
	current := s.CurrentConference()
	if current == nil || len(s.conferences) < 2 {
		return current
	}
	if current == s.conferences[0] {
		s.currentConference = s.conferences[len(s.conferences)-1]
	} else {
		s.currentConference = s.conferences[0]
	}
	return s.currentConference
}

// ResetCurrentConference clears the cursor so the next read recomputes it.
// Finalize calls this as its last step.
func (s *Store) ResetCurrentConference() {
	s.currentConference = nil
}

// OtherConferenceCity returns the city of the conference the cursor is not
// pointing at, or "" with fewer than two conferences.
func (s *Store) OtherConferenceCity() string {
	current := s.CurrentConference()
	if current == nil || len(s.conferences) < 2 {
		return ""
	}
	for _, conference := range s.conferences {
		if conference != current {
			return conference.City
		}
	}
	return ""
}
