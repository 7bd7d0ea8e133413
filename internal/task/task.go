package task

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used for user input and for display/persistence
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

// MaxTextLength is the longest task text in bytes. It keeps every persisted
// line well inside what the decoder reads.
const MaxTextLength = 64 * 1024

// NoTimestamp is shown in place of a timestamp for undated tasks
const NoTimestamp = "No Date/Time"

// Task is a short text item with an optional date-time.
// Tasks are immutable; an edit is a remove followed by an add.
type Task struct {
	text      string
	timestamp time.Time
	dated     bool
}

// ValidationError reports input that cannot become a Task
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// New creates a task. The text is kept verbatim but must contain something
// other than whitespace and must fit on one line.
func New(text string, ts *time.Time) (Task, error) {
	if strings.TrimSpace(text) == "" {
		return Task{}, &ValidationError{Field: "task", Reason: "text cannot be empty"}
	}
	if strings.ContainsAny(text, "\r\n") {
		return Task{}, &ValidationError{Field: "task", Value: text, Reason: "text cannot span multiple lines"}
	}
	if len(text) > MaxTextLength {
		return Task{}, &ValidationError{Field: "task", Reason: fmt.Sprintf("text is longer than %d bytes", MaxTextLength)}
	}

	t := Task{text: text}
	if ts != nil {
		// four-digit years only, so DateTimeLayout round-trips
		if year := ts.Year(); year < 0 || year > 9999 {
			return Task{}, &ValidationError{Field: "date", Value: ts.Format(DateLayout), Reason: "year must be between 0000 and 9999"}
		}
		t.timestamp = normalize(*ts)
		t.dated = true
	}
	return t, nil
}

// Text returns the task text
func (t Task) Text() string {
	return t.text
}

// Timestamp returns the task timestamp and whether it has one
func (t Task) Timestamp() (time.Time, bool) {
	return t.timestamp, t.dated
}

// HasTimestamp reports whether the task is dated
func (t Task) HasTimestamp() bool {
	return t.dated
}

// FormatTimestamp renders the timestamp in DateTimeLayout, or "" when undated
func (t Task) FormatTimestamp() string {
	if !t.dated {
		return ""
	}
	return t.timestamp.Format(DateTimeLayout)
}

// String renders the display form used by the list view
func (t Task) String() string {
	if !t.dated {
		return NoTimestamp + " - " + t.text
	}
	return t.FormatTimestamp() + " - " + t.text
}

// IsPast reports whether a dated task is before now, comparing wall clocks
func (t Task) IsPast(now time.Time) bool {
	if !t.dated {
		return false
	}
	return t.timestamp.Before(wallClock(now))
}

// Equal reports whether two tasks have the same text and timestamp-or-absence
func Equal(a, b Task) bool {
	if a.text != b.text || a.dated != b.dated {
		return false
	}
	return !a.dated || a.timestamp.Equal(b.timestamp)
}

// ParseTimestamp turns user-supplied date and time strings into a timestamp.
// Both empty means no timestamp. A date alone means midnight.
func ParseTimestamp(date, clock string) (*time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if date == "" {
		if clock != "" {
			return nil, &ValidationError{Field: "time", Value: clock, Reason: "a time needs a date"}
		}
		return nil, nil
	}

	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Value: date, Reason: "expected YYYY-MM-DD"}
	}

	if clock != "" {
		c, err := time.Parse(TimeLayout, clock)
		if err != nil {
			return nil, &ValidationError{Field: "time", Value: clock, Reason: "expected HH:MM"}
		}
		d = d.Add(time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute)
	}

	return &d, nil
}

// ParseDateTime parses a persisted YYYY-MM-DD HH:MM timestamp
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(DateTimeLayout, s)
}

// normalize drops seconds and zone, keeping the wall clock in UTC
func normalize(ts time.Time) time.Time {
	return wallClock(ts).Truncate(time.Minute)
}

func wallClock(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.UTC)
}
