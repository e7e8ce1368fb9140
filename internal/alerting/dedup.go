package alerting

import (
	"time"

	"github.com/mooreli104/farmtwin/internal/domain"
)

// DedupWindow is how long a fired violation suppresses an identical one.
// After the window the same violation re-fires, so an ongoing condition keeps
// alerting instead of being silenced forever.
const DedupWindow = 5 * time.Minute

// DedupState tracks the last alert time per (sensor, violation) key.
// Not safe for concurrent use; the owning session serializes access.
type DedupState struct {
	seen map[string]time.Time
}

func NewDedupState() *DedupState {
	return &DedupState{seen: make(map[string]time.Time)}
}

// AlertKey is the composite key used for both de-duplication and correlating
// a locally created alert with its persisted counterpart.
func AlertKey(sensor domain.SensorKind, kind domain.ViolationKind) string {
	return string(sensor) + "_" + string(kind)
}

// Live reports whether an unexpired entry exists for key.
func (d *DedupState) Live(key string, now time.Time) bool {
	at, ok := d.seen[key]
	return ok && now.Sub(at) < DedupWindow
}

func (d *DedupState) Record(key string, now time.Time) {
	d.seen[key] = now
}

// Purge drops every entry older than the window. Called at the end of each
// evaluation pass.
func (d *DedupState) Purge(now time.Time) {
	for k, at := range d.seen {
		if now.Sub(at) >= DedupWindow {
			delete(d.seen, k)
		}
	}
}

func (d *DedupState) Len() int { return len(d.seen) }
