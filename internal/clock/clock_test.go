package clock

import (
	"testing"
	"time"

	"github.com/desertthunder/daysync/internal/models"
)

func at(hour, minute int) time.Time {
	// 2026-10-19 is a Monday
	return time.Date(2026, time.October, 19, hour, minute, 0, 0, time.UTC)
}

func TestPeriodOf(t *testing.T) {
	tc := []struct {
		name string
		time time.Time
		want models.Period
	}{
		{name: "06:00", time: at(6, 0), want: models.Morning},
		{name: "11:59", time: at(11, 59), want: models.Morning},
		{name: "12:00", time: at(12, 0), want: models.Afternoon},
		{name: "16:59", time: at(16, 59), want: models.Afternoon},
		{name: "17:00", time: at(17, 0), want: models.Evening},
		{name: "20:59", time: at(20, 59), want: models.Evening},
		{name: "21:00", time: at(21, 0), want: models.Night},
		{name: "23:59", time: at(23, 59), want: models.Night},
		{name: "00:00", time: at(0, 0), want: models.Night},
		{name: "05:59", time: at(5, 59), want: models.Night},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeriodOf(tt.time); got != tt.want {
				t.Errorf("PeriodOf(%s) = %s, want %s", tt.time.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestWeekdayIndex(t *testing.T) {
	monday := at(9, 0)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		if got := WeekdayIndex(day); got != i {
			t.Errorf("WeekdayIndex(%s) = %d, want %d", day.Weekday(), got, i)
		}
		if WeekdayName(i) != []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}[i] {
			t.Errorf("WeekdayName(%d) = %s", i, WeekdayName(i))
		}
	}

	if WeekdayName(7) != "" {
		t.Error("expected empty name for out of range index")
	}
}

func TestClassify(t *testing.T) {
	t.Run("fixed clock", func(t *testing.T) {
		m := Classify(Fixed(at(18, 30)))
		if m.Weekday != 0 || m.Period != models.Evening {
			t.Errorf("Classify() = %+v", m)
		}
	})

	t.Run("system clock converts to location", func(t *testing.T) {
		loc := time.FixedZone("UTC+13", 13*60*60)
		now := System{Location: loc}.Now()
		if now.Location() != loc {
			t.Errorf("expected location %v, got %v", loc, now.Location())
		}
	})

	t.Run("timezone shifts the calendar day", func(t *testing.T) {
		// Monday 20:00 UTC is Tuesday 09:00 in UTC+13
		utc := at(20, 0)
		local := utc.In(time.FixedZone("UTC+13", 13*60*60))

		m := Classify(Fixed(local))
		if m.Weekday != 1 || m.Period != models.Morning {
			t.Errorf("Classify() = weekday %d period %s, want 1 morning", m.Weekday, m.Period)
		}
	})
}
