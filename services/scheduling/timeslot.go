package scheduling

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the wire format for calendar dates. Lexicographic order on
// these strings is chronological order, which the stores rely on.
const DateLayout = "2006-01-02"

// MinutesPerDay is the number of minutes in a civil day.
const MinutesPerDay = 24 * 60

// ParseMinuteOfDay parses an "HH:mm" wall-clock time into minutes since
// midnight.
func ParseMinuteOfDay(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, NewValidationError("invalid time %q, expected HH:mm", s)
	}
	h, errH := strconv.Atoi(s[:2])
	m, errM := strconv.Atoi(s[3:])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, NewValidationError("invalid time %q, expected HH:mm", s)
	}
	return h*60 + m, nil
}

// FormatMinuteOfDay renders minutes since midnight as "HH:mm".
func FormatMinuteOfDay(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// Interval is a half-open wall-clock interval [Start, End) in minutes since
// midnight. End may exceed the day when a trailing buffer spills past it.
type Interval struct {
	Start int
	End   int
}

// Contains reports whether other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return other.Start >= iv.Start && other.End <= iv.End
}

// Overlaps reports whether the two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Intersect returns the overlapping part of the two intervals; ok is false
// when they are disjoint.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	out := Interval{Start: max(iv.Start, other.Start), End: min(iv.End, other.End)}
	if out.Start >= out.End {
		return Interval{}, false
	}
	return out, true
}

// Subtract removes other from iv, yielding zero, one or two remainders.
func (iv Interval) Subtract(other Interval) []Interval {
	if !iv.Overlaps(other) {
		return []Interval{iv}
	}
	var out []Interval
	if other.Start > iv.Start {
		out = append(out, Interval{Start: iv.Start, End: other.Start})
	}
	if other.End < iv.End {
		out = append(out, Interval{Start: other.End, End: iv.End})
	}
	return out
}

// ParseDate parses a "2006-01-02" calendar date in the given timezone.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, NewValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}
	return t, nil
}

// ToDatetime converts a date plus minutes-since-midnight into an absolute
// instant in the given timezone.
func ToDatetime(date string, minute int, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minute) * time.Minute), nil
}

// DateOf renders the calendar date of an instant in the given timezone.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// MinuteOfDay returns the wall-clock minutes since midnight of an instant
// in the given timezone.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// DayOfWeek returns the weekday of a date, 0 = Sunday .. 6 = Saturday.
func DayOfWeek(date string, loc *time.Location) (int, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return 0, err
	}
	return int(day.Weekday()), nil
}
