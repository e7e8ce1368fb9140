package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/mooreli104/farmtwin/internal/domain"
)

func eventsAt(n int, at time.Time) []domain.IrrigationEvent {
	out := make([]domain.IrrigationEvent, n)
	for i := range out {
		out[i] = domain.IrrigationEvent{Timestamp: at.Add(time.Duration(i) * time.Minute), WaterAmount: GallonsPerEvent}
	}
	return out
}

func TestDailySavingsFloorsAtZero(t *testing.T) {
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// 10 events x 0.5 gal == the 5 gal traditional baseline: nothing saved
	s := DailyWaterSavings(eventsAt(10, day), day)
	if s.Saved != 0 {
		t.Fatalf("10 events: saved %v want 0", s.Saved)
	}
	if s.SmartUsed != 5.0 {
		t.Fatalf("10 events: used %v want 5.0", s.SmartUsed)
	}

	// 12 events would be negative; still floored
	if s := DailyWaterSavings(eventsAt(12, day), day); s.Saved != 0 {
		t.Fatalf("12 events: saved %v want 0", s.Saved)
	}
}

func TestDailySavings(t *testing.T) {
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	s := DailyWaterSavings(eventsAt(5, day), day)
	if s.Saved != 2.5 {
		t.Fatalf("saved %v want 2.5", s.Saved)
	}
	if s.Events != 5 {
		t.Fatalf("events %d want 5", s.Events)
	}
}

func TestDailySavingsIgnoresOtherDays(t *testing.T) {
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	events := append(eventsAt(3, day), eventsAt(4, day.AddDate(0, 0, -1))...)
	s := DailyWaterSavings(events, day)
	if s.Events != 3 {
		t.Fatalf("events %d want 3", s.Events)
	}
}

func TestWeeklySavings(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	events := append(
		eventsAt(14, now.AddDate(0, 0, -2)),           // in window
		eventsAt(6, now.AddDate(0, 0, -10))...,        // too old
	)
	s := WeeklyWaterSavings(events, now)
	if s.Events != 14 {
		t.Fatalf("events %d want 14", s.Events)
	}
	if s.SmartUsed != 7.0 {
		t.Fatalf("used %v want 7.0", s.SmartUsed)
	}
	if s.Saved != 28.0 {
		t.Fatalf("saved %v want 28.0", s.Saved)
	}
	if math.Abs(s.Percentage-80.0) > 1e-9 {
		t.Fatalf("percentage %v want 80", s.Percentage)
	}
}
