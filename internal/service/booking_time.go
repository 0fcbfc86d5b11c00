package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// Preferred time is a 12-hour clock string with an optional AM/PM suffix.
// Without a suffix the hour is read on the 24-hour clock.
var preferredTimePattern = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*(?i:(AM|PM))?\s*$`)

// TimeWindow is a booked slot expressed in minutes from midnight. It only
// exists while an admission request is being checked; reservations persist
// the formatted clock times.
type TimeWindow struct {
	Start int
	End   int
}

// Overlaps reports whether two windows collide. Boundaries are inclusive on
// both ends: a window starting exactly when another ends is a conflict.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return (w.Start <= other.Start && other.Start <= w.End) ||
		(w.Start <= other.End && other.End <= w.End) ||
		(other.Start <= w.Start && w.End <= other.End)
}

func (w TimeWindow) StartClock() string { return minutesToClock(w.Start) }
func (w TimeWindow) EndClock() string   { return minutesToClock(w.End) }

// ParsePreferredTime converts the request's time-of-day string to minutes
// from midnight.
func ParsePreferredTime(preferred string) (int, error) {
	m := preferredTimePattern.FindStringSubmatch(preferred)
	if m == nil {
		return 0, fmt.Errorf("time %q does not match H:MM or H:MM AM/PM", preferred)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if minutes > 59 {
		return 0, fmt.Errorf("minutes out of range in %q", preferred)
	}
	period := strings.ToUpper(m[3])
	if period != "" {
		if hours < 1 || hours > 12 {
			return 0, fmt.Errorf("hour out of range for 12-hour clock in %q", preferred)
		}
		if period == "PM" && hours != 12 {
			hours += 12
		}
		if period == "AM" && hours == 12 {
			hours = 0
		}
	} else if hours > 23 {
		return 0, fmt.Errorf("hour out of range in %q", preferred)
	}
	return hours*60 + minutes, nil
}

// ComputeWindow builds the window for a service of the given duration.
// Windows never span midnight; a slot that would run past the end of the day
// is rejected rather than wrapped.
func ComputeWindow(startMinutes, durationMinutes int) (TimeWindow, error) {
	end := startMinutes + durationMinutes
	if end >= minutesPerDay {
		return TimeWindow{}, fmt.Errorf("window of %d minutes starting at %s runs past midnight",
			durationMinutes, minutesToClock(startMinutes))
	}
	return TimeWindow{Start: startMinutes, End: end}, nil
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}
