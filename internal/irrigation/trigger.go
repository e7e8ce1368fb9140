// Package irrigation holds the automatic watering rule: fire when soil
// moisture drops below the threshold, at most once per cooldown.
package irrigation

import (
	"time"

	"github.com/mooreli104/farmtwin/internal/domain"
)

const (
	DefaultCooldown    = 60 * time.Second
	DefaultWaterAmount = 0.5 // gallons per event
)

// Trigger owns the cooldown clock for one greenhouse. Not safe for
// concurrent use; the owning session serializes access.
type Trigger struct {
	Threshold float64
	Cooldown  time.Duration

	lastFired time.Time
}

func NewTrigger(threshold float64, cooldown time.Duration) *Trigger {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Trigger{Threshold: threshold, Cooldown: cooldown}
}

// ShouldIrrigate reports whether watering should start now. A zero or
// negative moisture value is treated as an invalid reading, never a trigger.
// On a true result the cooldown clock resets immediately, before any
// persistence confirms, so a burst of low readings yields a single event.
func (t *Trigger) ShouldIrrigate(moisture float64, now time.Time) bool {
	if moisture <= 0 || moisture >= t.Threshold {
		return false
	}
	if !t.lastFired.IsZero() && now.Sub(t.lastFired) <= t.Cooldown {
		return false
	}
	t.lastFired = now
	return true
}

// LastFired returns when the trigger last fired (zero if never).
func (t *Trigger) LastFired() time.Time { return t.lastFired }

// Event builds the irrigation record for a trigger that just fired.
func (t *Trigger) Event(greenhouseID string, now time.Time) domain.IrrigationEvent {
	return domain.IrrigationEvent{
		GreenhouseID: greenhouseID,
		Timestamp:    now,
		WaterAmount:  DefaultWaterAmount,
		TriggeredBy:  domain.TriggerAutomatic,
	}
}
