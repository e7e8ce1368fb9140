package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mooreli104/farmtwin/internal/domain"
)

// stubStore satisfies Store in memory so session behavior is testable
// without a database.
type stubStore struct {
	mu      sync.Mutex
	stored  []domain.Alert
	listErr error

	insertedAlerts []domain.Alert
	insertedEvents []domain.IrrigationEvent
}

func (s *stubStore) InsertAlert(a domain.Alert) (domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = int64(len(s.insertedAlerts) + 1)
	s.insertedAlerts = append(s.insertedAlerts, a)
	return a, nil
}

func (s *stubStore) ListRecentAlerts(limit int, greenhouseID string, resolved *bool) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Alert, len(s.stored))
	copy(out, s.stored)
	return out, nil
}

func (s *stubStore) ResolveAlert(id int64) error { return nil }

func (s *stubStore) InsertIrrigationEvent(e domain.IrrigationEvent) (domain.IrrigationEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = int64(len(s.insertedEvents) + 1)
	s.insertedEvents = append(s.insertedEvents, e)
	return e, nil
}

func (s *stubStore) ListRecentIrrigationEvents(limit int) ([]domain.IrrigationEvent, error) {
	return nil, nil
}

func (s *stubStore) SensorHistory(rangeToken, greenhouseID string) ([]domain.Reading, error) {
	return nil, nil
}

func newStubSession(store Store) *Session {
	return newSession(store, Options{
		GreenhouseID:        "greenhouse-test",
		Thresholds:          domain.TomatoThresholds(),
		IrrigationThreshold: 30,
		IrrigationCooldown:  time.Minute,
	})
}

// An alert whose insert never landed (ID still zero) is live on the
// dashboard and must stay visible alongside the stored ones.
func TestRecentAlertsMergesUnsavedCache(t *testing.T) {
	now := time.Now().UTC()
	store := &stubStore{stored: []domain.Alert{
		{ID: 7, AlertKey: "temperature_warning_low", CreatedAt: now.Add(-time.Minute)},
	}}
	s := newStubSession(store)

	s.mu.Lock()
	s.alerts = []domain.Alert{{AlertKey: "soil_moisture_critical_low", CreatedAt: now}}
	s.mu.Unlock()

	alerts := s.RecentAlerts(10, "", nil)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].AlertKey != "soil_moisture_critical_low" || alerts[0].ID != 0 {
		t.Fatalf("unsaved alert should lead: %+v", alerts[0])
	}
	if alerts[1].ID != 7 {
		t.Fatalf("stored alert missing: %+v", alerts[1])
	}
}

func TestRecentAlertsSkipsPersistedDuplicates(t *testing.T) {
	now := time.Now().UTC()
	store := &stubStore{stored: []domain.Alert{
		{ID: 4, AlertKey: "humidity_warning_high", CreatedAt: now},
	}}
	s := newStubSession(store)

	// same alert in cache with its back-filled id: the store copy wins
	s.mu.Lock()
	s.alerts = []domain.Alert{{ID: 4, AlertKey: "humidity_warning_high", CreatedAt: now}}
	s.mu.Unlock()

	alerts := s.RecentAlerts(10, "", nil)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
}

func TestRecentAlertsServesCacheWhenStoreDown(t *testing.T) {
	store := &stubStore{listErr: errors.New("connection refused")}
	s := newStubSession(store)

	s.mu.Lock()
	s.alerts = []domain.Alert{{ID: 3, AlertKey: "humidity_warning_high", CreatedAt: time.Now().UTC()}}
	s.mu.Unlock()

	alerts := s.RecentAlerts(10, "", nil)
	if len(alerts) != 1 || alerts[0].ID != 3 {
		t.Fatalf("cache should serve when the store is down, got %+v", alerts)
	}
}

func TestRecentAlertsResolvedFilterOnCache(t *testing.T) {
	s := newStubSession(&stubStore{})
	now := time.Now().UTC()

	s.mu.Lock()
	s.alerts = []domain.Alert{
		{AlertKey: "temperature_warning_low", Resolved: false, CreatedAt: now},
		{AlertKey: "humidity_warning_high", Resolved: true, CreatedAt: now},
	}
	s.mu.Unlock()

	wantResolved := true
	if got := s.RecentAlerts(10, "", &wantResolved); len(got) != 1 || !got[0].Resolved {
		t.Fatalf("resolved filter: got %+v", got)
	}
	wantResolved = false
	if got := s.RecentAlerts(10, "", &wantResolved); len(got) != 1 || got[0].Resolved {
		t.Fatalf("unresolved filter: got %+v", got)
	}
}

func TestMetricsSnapshotCarriesLastIrrigation(t *testing.T) {
	s := newStubSession(&stubStore{})

	s.Ingest(domain.Reading{
		Temperature:  75,
		Humidity:     70,
		SoilMoisture: 20, // below the irrigation threshold
		LightLevel:   600,
		CO2:          700,
	})
	s.RefreshMetrics()

	snap := s.Metrics()
	if snap.LastIrrigation == nil {
		t.Fatalf("expected last irrigation timestamp after a trigger")
	}
	if len(s.IrrigationEvents()) != 1 {
		t.Fatalf("expected one cached irrigation event")
	}
}
