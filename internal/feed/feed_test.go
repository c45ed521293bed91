package feed

import (
	"strings"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", `{"version":"1.3"}`, "1.3", false},
		{"missing key", `{"foo":"bar"}`, "", true},
		{"not an object", `[1,2]`, "", true},
		{"empty", ``, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSpeakers(t *testing.T) {
	input := `[
		{"id": 7, "first_name": "Al", "last_name": "Zephyr", "title": "CTO", "bio": "...", "avatar": "https://img.example.org/al.jpg?v=2"},
		{"id": 8, "first_name": "", "last_name": "", "avatar": "false"}
	]`
	speakers, err := ParseSpeakers([]byte(input))
	if err != nil {
		t.Fatalf("ParseSpeakers: %v", err)
	}
	if len(speakers) != 2 {
		t.Fatalf("got %d speakers, want 2", len(speakers))
	}
	if speakers[0].ID != 7 || speakers[0].LastName != "Zephyr" {
		t.Errorf("speaker 0 = %+v", speakers[0])
	}

	if _, err := ParseSpeakers([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("expected error for non-array feed")
	}
}

const scheduleJSON = `{
	"conference": {
		"title": "Dev Summit 2018",
		"days": {
			"2018-10-29": {
				"date": "2018-10-29",
				"rooms": {
					"B09": [
						{
							"id": 500,
							"title": "Keynote Talk",
							"start": "09:00",
							"duration": "01:00",
							"tracks": [{"name": "Keynote", "color": "#ff0000"}],
							"persons": [{"id": 7, "public_name": "Al Zephyr"}]
						}
					]
				}
			}
		}
	}
}`

func TestParseSchedule(t *testing.T) {
	doc, err := ParseSchedule([]byte(scheduleJSON))
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	day, ok := doc.Conference.Days["2018-10-29"]
	if !ok {
		t.Fatal("day 2018-10-29 not found")
	}
	sessions := day.Rooms["B09"]
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.ID != 500 || s.Title != "Keynote Talk" || s.Duration != "01:00" {
		t.Errorf("session = %+v", s)
	}
	if len(s.Tracks) != 1 || s.Tracks[0].Name != "Keynote" {
		t.Errorf("tracks = %+v", s.Tracks)
	}
	if len(s.Persons) != 1 || s.Persons[0].ID != 7 {
		t.Errorf("persons = %+v", s.Persons)
	}
}

func TestParseScheduleStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty bytes", ``, "empty"},
		{"empty object", `{}`, "empty"},
		{"missing conference", `{"foo": {}}`, "'conference'"},
		{"missing days", `{"conference": {"title": "x"}}`, "'days'"},
		{"not an object", `[]`, "not a JSON object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchedule([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestSplitAvatarURL(t *testing.T) {
	tests := []struct {
		name       string
		avatar     string
		wantURL    string
		wantSuffix string
		wantOK     bool
	}{
		{
			name:       "plain jpg",
			avatar:     "https://img.example.org/al.jpg",
			wantURL:    "https://img.example.org/al.jpg",
			wantSuffix: "jpg",
			wantOK:     true,
		},
		{
			name:       "query string stripped",
			avatar:     "https://img.example.org/al.png?v=2&size=big",
			wantURL:    "https://img.example.org/al.png",
			wantSuffix: "png",
			wantOK:     true,
		},
		{
			name:   "empty",
			avatar: "",
			wantOK: false,
		},
		{
			name:   "literal false",
			avatar: "false",
			wantOK: false,
		},
		{
			name:   "placeholder sentinel",
			avatar: PlaceholderAvatarURL,
			wantOK: false,
		},
		{
			name:   "no suffix",
			avatar: "https://img.example.org/avatar",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, suffix, ok := SplitAvatarURL(tt.avatar)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if url != tt.wantURL || suffix != tt.wantSuffix {
				t.Errorf("got (%q, %q), want (%q, %q)", url, suffix, tt.wantURL, tt.wantSuffix)
			}
		})
	}
}
