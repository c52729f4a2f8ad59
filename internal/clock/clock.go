// Package clock classifies wall-clock time into the weekday index and time-of-day
// period used for rule matching.
//
// "Now" is always read through a [Clock] so tests can pin it.
package clock

import (
	"time"

	"github.com/desertthunder/daysync/internal/models"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System reads the host clock, optionally converted into Location.
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	now := time.Now()
	if s.Location != nil {
		return now.In(s.Location)
	}
	return now
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Moment is the classification of one instant, computed once per pass.
type Moment struct {
	Time    time.Time
	Weekday int
	Period  models.Period
}

// WeekdayIndex returns the calendar weekday of t with Monday=0 and Sunday=6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// PeriodOf buckets the hour of t into half-open intervals:
// morning [6,12), afternoon [12,17), evening [17,21), night [21,24) and [0,6).
func PeriodOf(t time.Time) models.Period {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return models.Morning
	case h >= 12 && h < 17:
		return models.Afternoon
	case h >= 17 && h < 21:
		return models.Evening
	default:
		return models.Night
	}
}

// Classify reads c once and returns its weekday and period.
func Classify(c Clock) Moment {
	now := c.Now()
	return Moment{Time: now, Weekday: WeekdayIndex(now), Period: PeriodOf(now)}
}

var weekdayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayName returns the lowercase English name for a Monday=0 index.
func WeekdayName(i int) string {
	if i < 0 || i > 6 {
		return ""
	}
	return weekdayNames[i]
}

// WeekdayNames lists the lowercase weekday names, Monday first.
func WeekdayNames() []string {
	names := make([]string, len(weekdayNames))
	copy(names, weekdayNames[:])
	return names
}
