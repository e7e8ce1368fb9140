package metrics

import (
	"time"

	"github.com/mooreli104/farmtwin/internal/domain"
)

// Water accounting baseline: a fixed-schedule system uses 5 gallons a day,
// one smart irrigation event uses half a gallon.
const (
	TraditionalGallonsPerDay = 5.0
	GallonsPerEvent          = 0.5
)

type DailySavings struct {
	Events    int     `json:"events"`
	SmartUsed float64 `json:"smart_used"`
	Saved     float64 `json:"saved"`
}

type WeeklySavings struct {
	Events     int     `json:"events"`
	SmartUsed  float64 `json:"smart_used"`
	Saved      float64 `json:"saved"`
	Percentage float64 `json:"percentage"`
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DailyWaterSavings compares the day's irrigation events against the
// traditional baseline. Savings floor at zero; a heavy watering day never
// reports negative savings.
func DailyWaterSavings(events []domain.IrrigationEvent, day time.Time) DailySavings {
	var s DailySavings
	for _, e := range events {
		if sameDay(e.Timestamp, day) {
			s.Events++
		}
	}
	s.SmartUsed = float64(s.Events) * GallonsPerEvent
	if saved := TraditionalGallonsPerDay - s.SmartUsed; saved > 0 {
		s.Saved = saved
	}
	return s
}

// WeeklyWaterSavings accounts the trailing seven days against a 35-gallon
// traditional baseline.
func WeeklyWaterSavings(events []domain.IrrigationEvent, now time.Time) WeeklySavings {
	weekAgo := now.AddDate(0, 0, -7)

	var s WeeklySavings
	for _, e := range events {
		if !e.Timestamp.Before(weekAgo) && !e.Timestamp.After(now) {
			s.Events++
		}
	}
	s.SmartUsed = float64(s.Events) * GallonsPerEvent

	traditional := TraditionalGallonsPerDay * 7
	if saved := traditional - s.SmartUsed; saved > 0 {
		s.Saved = saved
	}
	if traditional > 0 {
		s.Percentage = s.Saved / traditional * 100
	}
	return s
}
