package sync

import (
	"github.com/confsched/schedsync/internal/model"
)

// genericItem is one synthetic schedule entry template. Timing tables are
// hand-curated; the first day of each conference runs the tech-day
// schedule, every later day the conference-day schedule with an extra
// morning coffee and an earlier afternoon break.
type genericItem struct {
	title          string
	start          model.Clock
	minutes        int
	isRegistration bool
	isLunch        bool
	isBreak        bool
	isEvent        bool
}

var techDayItems = []genericItem{
	{title: "Registration and Coffee", start: model.NewClock(8, 0), minutes: 60, isRegistration: true},
	{title: "Lunch", start: model.NewClock(12, 0), minutes: 60, isLunch: true},
	{title: "Break", start: model.NewClock(15, 0), minutes: 30, isBreak: true},
	{title: "Networking and Drinks", start: model.NewClock(17, 15), minutes: 105, isEvent: true},
}

var conferenceDayItems = []genericItem{
	{title: "Registration and Coffee", start: model.NewClock(8, 0), minutes: 60, isRegistration: true},
	{title: "Coffee", start: model.NewClock(10, 30), minutes: 30, isBreak: true},
	{title: "Lunch", start: model.NewClock(12, 0), minutes: 60, isLunch: true},
	{title: "Break", start: model.NewClock(14, 30), minutes: 30, isBreak: true},
	{title: "Networking and Drinks", start: model.NewClock(17, 15), minutes: 105, isEvent: true},
}

// injectGenericSessions appends the synthetic schedule items for every day
// of the conference into the run's sort-key multimap. Ids come from the
// conference's decrementing counter; the stale entries must have been
// purged and the counter rewound before this runs. Synthetic sessions
// reference only their day and conference, never a room, track or speaker.
func (s *Synchronizer) injectGenericSessions(conference *model.Conference) {
	for _, day := range conference.Days() {
		items := conferenceDayItems
		if day.Date == conference.From {
			items = techDayItems
		}
		for _, item := range items {
			session := &model.Session{
				ID:           conference.NextGenericSessionID(),
				ConferenceID: conference.ID,
				Title:        item.title,
				Start:        item.start,
				End:          item.start.AddMinutes(item.minutes),
				Minutes:      item.minutes,

				IsGeneric:      true,
				IsRegistration: item.isRegistration,
				IsLunch:        item.isLunch,
				IsBreak:        item.isBreak,
				IsEvent:        item.isEvent,

				SortKey: model.SortKey(day.Date, item.start),
			}
			session.SetDay(day)
			s.sessions.insert(session)
		}
	}
}
