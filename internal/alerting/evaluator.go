package alerting

import (
	"fmt"
	"time"

	"github.com/mooreli104/farmtwin/internal/domain"
)

// Evaluate checks one reading against the threshold table and returns the new
// alerts, at most one per sensor. Comparisons are strict: a value exactly on
// a boundary is in range. Sensors the reading never reported are skipped.
// Violations already live in the de-dup state are suppressed; emitted ones
// are recorded, and expired entries are purged at the end of the pass.
//
// The function has no side effects beyond dedup bookkeeping; persistence and
// broadcast are the caller's job.
func Evaluate(reading domain.Reading, thresholds []domain.Threshold, dedup *DedupState, now time.Time) []domain.Alert {
	var alerts []domain.Alert

	for _, th := range thresholds {
		value, ok := reading.Value(th.Sensor)
		if !ok {
			continue
		}

		var (
			typ       domain.AlertType
			violation domain.ViolationKind
			message   string
		)
		switch {
		case value < th.CriticalMin:
			typ = domain.AlertCritical
			violation = domain.ViolationCriticalLow
			message = fmt.Sprintf("%s critically low at %.1f%s (min: %g%s)", th.Name, value, th.Unit, th.CriticalMin, th.Unit)
		case value > th.CriticalMax:
			typ = domain.AlertCritical
			violation = domain.ViolationCriticalHigh
			message = fmt.Sprintf("%s critically high at %.1f%s (max: %g%s)", th.Name, value, th.Unit, th.CriticalMax, th.Unit)
		case value < th.OptimalMin:
			typ = domain.AlertWarning
			violation = domain.ViolationWarningLow
			message = fmt.Sprintf("%s below optimal at %.1f%s (optimal: %g-%g%s)", th.Name, value, th.Unit, th.OptimalMin, th.OptimalMax, th.Unit)
		case value > th.OptimalMax:
			typ = domain.AlertWarning
			violation = domain.ViolationWarningHigh
			message = fmt.Sprintf("%s above optimal at %.1f%s (optimal: %g-%g%s)", th.Name, value, th.Unit, th.OptimalMin, th.OptimalMax, th.Unit)
		default:
			continue // in range, nothing surfaced
		}

		key := AlertKey(th.Sensor, violation)
		if dedup.Live(key, now) {
			continue
		}
		dedup.Record(key, now)

		alerts = append(alerts, domain.Alert{
			GreenhouseID: reading.GreenhouseID,
			Type:         typ,
			Sensor:       th.Sensor,
			Message:      message,
			AlertKey:     key,
			Violation:    violation,
			CreatedAt:    now,
		})
	}

	dedup.Purge(now)
	return alerts
}
