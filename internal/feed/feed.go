// Package feed defines the remote feed documents and their parsing: the
// version document, the speaker array, and the per-conference schedule
// document (conference → days → rooms → session list).
//
// Parsing distinguishes structural failures (empty document, missing
// "conference" or "days" keys), which are fatal for the affected sync
// step, from per-record oddities, which the synchronizer logs and skips.
package feed

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PlaceholderAvatarURL is the feed's stand-in image for speakers without
// a real avatar. It is never downloaded.
const PlaceholderAvatarURL = "https://s3-eu-west-1.amazonaws.com/conf-uploads/man-silhouette-black-gray.jpg"

// VersionDoc is the version endpoint's payload.
type VersionDoc struct {
	Version string `json:"version"`
}

// ParseVersion extracts the API version string from the version document.
func ParseVersion(data []byte) (string, error) {
	var doc VersionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("version document is not a JSON object: %w", err)
	}
	if doc.Version == "" {
		return "", fmt.Errorf("version document missed 'version'")
	}
	return doc.Version, nil
}

// SpeakerRecord is one entry of the speaker feed.
type SpeakerRecord struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Title     string `json:"title"`
	Bio       string `json:"bio"`
	Avatar    string `json:"avatar"`
}

// ParseSpeakers parses the speaker feed, a JSON array of speaker records.
func ParseSpeakers(data []byte) ([]SpeakerRecord, error) {
	var speakers []SpeakerRecord
	if err := json.Unmarshal(data, &speakers); err != nil {
		return nil, fmt.Errorf("speaker feed is not a JSON array: %w", err)
	}
	return speakers, nil
}

// ScheduleDoc is the per-conference schedule document. Days are keyed by
// their "yyyy-MM-dd" date; rooms within a day are keyed by room name.
type ScheduleDoc struct {
	Conference ScheduleConference `json:"conference"`
}

// ScheduleConference is the schedule document's conference object.
type ScheduleConference struct {
	Title string                 `json:"title"`
	Days  map[string]ScheduleDay `json:"days"`
}

// ScheduleDay is one feed day: its date plus sessions grouped by room name.
type ScheduleDay struct {
	Date  string                       `json:"date"`
	Rooms map[string][]ScheduleSession `json:"rooms"`
}

// ScheduleSession is one session entry of the schedule feed. Ids are
// non-negative by feed contract; the negative id space is reserved for
// locally generated schedule items.
type ScheduleSession struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	Abstract    string          `json:"abstract"`
	Description string          `json:"description"`
	Start       string          `json:"start"`    // "HH:mm"
	Duration    string          `json:"duration"` // "H:MM"
	Type        string          `json:"type"`
	Tracks      []ScheduleTrack `json:"tracks"`
	Persons     []SchedulePerson `json:"persons"`
}

// ScheduleTrack is a track reference embedded in a feed session.
type ScheduleTrack struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SchedulePerson is a presenter reference embedded in a feed session.
type SchedulePerson struct {
	ID   int    `json:"id"`
	Name string `json:"public_name"`
}

// ParseSchedule parses a schedule document. The structural checks mirror
// the sync-fatal taxonomy: a document that is not an object, misses the
// "conference" object, or misses the "days" map aborts the conference's
// sync with a descriptive error.
func ParseSchedule(data []byte) (*ScheduleDoc, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("schedule document is empty")
	}
	// Probe the raw structure first: jsoniter would happily decode a
	// document without "conference" into zero values.
	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schedule document is not a JSON object: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("schedule document is empty")
	}
	if _, ok := raw["conference"]; !ok {
		return nil, fmt.Errorf("schedule document missed 'conference'")
	}
	var doc ScheduleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schedule document malformed: %w", err)
	}
	if doc.Conference.Days == nil {
		return nil, fmt.Errorf("schedule document missed 'days'")
	}
	return &doc, nil
}

// SplitAvatarURL normalizes a speaker avatar URL: the query string is
// stripped and the file suffix is taken from the last path segment.
// Returns ok=false for an empty URL, the known placeholder, the literal
// "false" some feed revisions emit, or a URL without a derivable suffix.
func SplitAvatarURL(avatar string) (url, suffix string, ok bool) {
	if avatar == "" || avatar == "false" || avatar == PlaceholderAvatarURL {
		return "", "", false
	}
	url = avatar
	if idx := strings.LastIndex(url, "?"); idx >= 0 {
		url = url[:idx]
	}
	dot := strings.LastIndex(url, ".")
	slash := strings.LastIndex(url, "/")
	if dot <= slash || dot == len(url)-1 {
		return "", "", false
	}
	return url, url[dot+1:], true
}
