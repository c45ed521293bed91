package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateRoundTrip(t *testing.T) {
	tests := []string{
		"2018-10-29",
		"2018-12-05",
		"2016-02-29",
		"2099-01-01",
	}
	for _, want := range tests {
		d, err := ParseDate(want)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", want, err)
		}
		data, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("Marshal(%q): %v", want, err)
		}
		var back Date
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if got := back.String(); got != want {
			t.Errorf("round trip %q -> %q", want, got)
		}
	}
}

func TestDateWeekday(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2018-10-29", 1}, // Monday
		{"2018-10-30", 2},
		{"2018-12-05", 3}, // Wednesday
		{"2018-12-09", 7}, // Sunday
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.date)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.date, err)
		}
		if got := d.Weekday(); got != tt.want {
			t.Errorf("Weekday(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestClockAddMinutes(t *testing.T) {
	tests := []struct {
		start   string
		minutes int
		want    string
	}{
		{"09:00", 90, "10:30"},
		{"09:00", 60, "10:00"},
		{"23:30", 45, "00:15"},
		{"12:00", 0, "12:00"},
	}
	for _, tt := range tests {
		c, err := ParseClock(tt.start)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tt.start, err)
		}
		if got := c.AddMinutes(tt.minutes).String(); got != tt.want {
			t.Errorf("%s + %dm = %s, want %s", tt.start, tt.minutes, got, tt.want)
		}
	}
}

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"01:30", 90, false},
		{"1:00", 60, false},
		{"0:45", 45, false},
		{"02:05", 125, false},
		{"garbage", 0, true},
		{"", 0, true},
		{"1:2:3", 0, true},
		{"one:30", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDurationMinutes(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDurationMinutes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDurationMinutes(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestSortKey(t *testing.T) {
	day := NewDate(2018, time.October, 29)
	start := NewClock(9, 0)
	if got, want := SortKey(day, start), "2018-10-2909:00"; got != want {
		t.Errorf("SortKey = %q, want %q", got, want)
	}
	// Registration at 08:00 must sort before a 09:00 keynote on the same day.
	registration := SortKey(day, NewClock(8, 0))
	keynote := SortKey(day, start)
	if !(registration < keynote) {
		t.Errorf("expected %q < %q", registration, keynote)
	}
}
