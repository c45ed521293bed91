package sync

import (
	"sort"

	"github.com/confsched/schedsync/internal/model"
)

// sessionMultimap collects sessions during a sync run ordered by their
// chronological sort key. Entries with equal keys keep insertion order, so
// a re-sync with identical input reproduces the exact same order.
type sessionMultimap struct {
	entries []*model.Session
	byID    map[int]*model.Session
}

func newSessionMultimap() *sessionMultimap {
	return &sessionMultimap{byID: make(map[int]*model.Session)}
}

// insert adds a session under its sort key, replacing a previously
// inserted session with the same id.
func (m *sessionMultimap) insert(s *model.Session) {
	if old, ok := m.byID[s.ID]; ok {
		for i, e := range m.entries {
			if e == old {
				m.entries[i] = s
				m.byID[s.ID] = s
				return
			}
		}
	}
	m.entries = append(m.entries, s)
	m.byID[s.ID] = s
}

func (m *sessionMultimap) contains(id int) bool {
	_, ok := m.byID[id]
	return ok
}

func (m *sessionMultimap) len() int { return len(m.entries) }

// sorted returns the sessions in sort-key order, stable for equal keys.
func (m *sessionMultimap) sorted() []*model.Session {
	out := make([]*model.Session, len(m.entries))
	copy(out, m.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey < out[j].SortKey
	})
	return out
}

// speakerMultimap collects speakers ordered by sort key then name. The
// finalizer rebuilds the global speaker list from this order; it is the
// only point where speaker sort order is authoritative.
type speakerMultimap struct {
	entries []*model.Speaker
	byID    map[int]*model.Speaker
}

func newSpeakerMultimap() *speakerMultimap {
	return &speakerMultimap{byID: make(map[int]*model.Speaker)}
}

func (m *speakerMultimap) insert(s *model.Speaker) {
	if _, ok := m.byID[s.ID]; ok {
		m.byID[s.ID] = s
		for i, e := range m.entries {
			if e.ID == s.ID {
				m.entries[i] = s
				break
			}
		}
		return
	}
	m.entries = append(m.entries, s)
	m.byID[s.ID] = s
}

func (m *speakerMultimap) len() int { return len(m.entries) }

func (m *speakerMultimap) sorted() []*model.Speaker {
	out := make([]*model.Speaker, len(m.entries))
	copy(out, m.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortKey != out[j].SortKey {
			return out[i].SortKey < out[j].SortKey
		}
		return out[i].Name < out[j].Name
	})
	return out
}
