package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Serialization layouts. Dates round-trip as "yyyy-MM-dd", times of day as
// "HH:mm", and session sort keys concatenate both.
const (
	DateLayout    = "2006-01-02"
	ClockLayout   = "15:04"
	SortKeyLayout = DateLayout + ClockLayout
)

// Date is a calendar date without a time component. It serializes as a
// "yyyy-MM-dd" string and must survive the round trip without drift.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a "yyyy-MM-dd" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Weekday returns the ISO weekday number (1=Monday .. 7=Sunday).
func (d Date) Weekday() int {
	wd := int(d.Time().Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// MarshalJSON encodes the date as a "yyyy-MM-dd" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "yyyy-MM-dd" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock is a time of day with minute precision, serialized as "HH:mm".
type Clock struct {
	Hour   int
	Minute int
}

// NewClock returns the clock time for the given components.
func NewClock(hour, minute int) Clock {
	return Clock{Hour: hour, Minute: minute}
}

// ParseClock parses an "HH:mm" string.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// IsZero reports whether the clock is 00:00. Feed sessions always start
// later, so the zero value doubles as "unset".
func (c Clock) IsZero() bool {
	return c.Hour == 0 && c.Minute == 0
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// AddMinutes returns the clock advanced by the given number of minutes.
// The result wraps at midnight, matching the feed contract that no session
// crosses a day boundary.
func (c Clock) AddMinutes(minutes int) Clock {
	total := (c.Hour*60 + c.Minute + minutes) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return Clock{Hour: total / 60, Minute: total % 60}
}

// Before reports whether c is earlier in the day than other.
func (c Clock) Before(other Clock) bool {
	if c.Hour != other.Hour {
		return c.Hour < other.Hour
	}
	return c.Minute < other.Minute
}

// MarshalJSON encodes the clock as an "HH:mm" string.
func (c Clock) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes an "HH:mm" string.
func (c *Clock) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*c = Clock{}
		return nil
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SortKey builds the chronological session sort key: the conference day
// concatenated with the start time ("yyyy-MM-ddHH:mm"). Plain string
// comparison on sort keys orders sessions globally across rooms and
// conferences.
func SortKey(day Date, start Clock) string {
	return day.String() + start.String()
}

// ParseDurationMinutes parses an "H:MM" duration string from the schedule
// feed into minutes. Both components must be integers.
func ParseDurationMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid duration %q: expected H:MM", s)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return hours*60 + minutes, nil
}
