package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mooreli104/farmtwin/internal/alerting"
	"github.com/mooreli104/farmtwin/internal/domain"
	"github.com/mooreli104/farmtwin/internal/irrigation"
	"github.com/mooreli104/farmtwin/internal/metrics"
	"github.com/mooreli104/farmtwin/internal/ws"
)

const metricsRefreshInterval = 5 * time.Minute

// Session owns all mutable dashboard state: the latest reading, the alert
// de-dup map, the in-memory alert and irrigation caches, and the derived
// metrics snapshot. Everything behind one mutex, no package globals, so
// tests can run independent instances.
//
// The in-memory caches stay authoritative for the current session even when
// a store write fails; persistence is fire-and-forget and only back-fills
// store-assigned ids.
type Session struct {
	repos        Store
	hub          *ws.Hub
	notifier     Notifier
	greenhouseID string
	thresholds   []domain.Threshold

	mu         sync.Mutex
	latest     domain.Reading
	hasReading bool
	dedup      *alerting.DedupState
	trigger    *irrigation.Trigger
	alerts     []domain.Alert // newest first
	events     []domain.IrrigationEvent
	snapshot   MetricsSnapshot

	cancel context.CancelFunc
}

// MetricsSnapshot is the periodically recomputed derived-metrics bundle.
type MetricsSnapshot struct {
	UpdatedAt      time.Time             `json:"updated_at"`
	LossRate       metrics.LossStats     `json:"loss_rate"`
	Prediction     metrics.Prediction    `json:"prediction"`
	OptimalScore   int                   `json:"optimal_score"`
	WeightedScore  int                   `json:"weighted_score"`
	Daily          metrics.DailySavings  `json:"daily"`
	Weekly         metrics.WeeklySavings `json:"weekly"`
	LastIrrigation *time.Time            `json:"last_irrigation,omitempty"`
}

// Start warms the caches from the store and launches the periodic metrics
// refresh. The refresh timer stops when ctx is cancelled; Close also stops it.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	if alerts, err := s.repos.ListRecentAlerts(10, s.greenhouseID, nil); err != nil {
		log.Error().Err(err).Msg("loading recent alerts failed")
	} else {
		s.mu.Lock()
		s.alerts = alerts
		s.mu.Unlock()
	}
	if events, err := s.repos.ListRecentIrrigationEvents(100); err != nil {
		log.Error().Err(err).Msg("loading irrigation events failed")
	} else {
		s.mu.Lock()
		s.events = events
		s.mu.Unlock()
	}

	s.RefreshMetrics()

	go func() {
		ticker := time.NewTicker(metricsRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RefreshMetrics()
			}
		}
	}()
}

// Close stops the session's timers.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Ingest runs one reading through the whole rule engine: evaluate thresholds,
// cache and persist new alerts, check the irrigation trigger, and broadcast
// to dashboard clients. Evaluation of one reading is atomic with respect to
// any other reading or timer tick.
func (s *Session) Ingest(reading domain.Reading) {
	now := time.Now().UTC()
	if reading.Timestamp.IsZero() {
		reading.Timestamp = now
	}
	if reading.GreenhouseID == "" {
		reading.GreenhouseID = s.greenhouseID
	}

	s.mu.Lock()
	s.latest = reading
	s.hasReading = true

	newAlerts := alerting.Evaluate(reading, s.thresholds, s.dedup, now)
	s.alerts = append(newAlerts, s.alerts...)

	var event *domain.IrrigationEvent
	if moisture, ok := reading.Value(domain.SensorSoilMoisture); ok {
		if s.trigger.ShouldIrrigate(moisture, now) {
			e := s.trigger.Event(reading.GreenhouseID, now)
			s.events = append([]domain.IrrigationEvent{e}, s.events...)
			event = &e
		}
	}
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast("sensor_data", reading)
		for _, a := range newAlerts {
			s.hub.Broadcast("alert", a)
		}
	}

	for _, a := range newAlerts {
		go s.persistAlert(a)
		if a.Type == domain.AlertCritical && s.notifier != nil {
			s.notifier.NotifyCriticalAlert(a)
		}
	}
	if event != nil {
		log.Info().Float64("amount_gal", event.WaterAmount).Str("greenhouse", event.GreenhouseID).Msg("irrigation triggered")
		go s.persistIrrigationEvent(*event)
		if s.notifier != nil {
			s.notifier.NotifyIrrigation(*event)
		}
	}
}

// persistAlert is dispatched fire-and-forget; on success the store-assigned
// id is folded back into the cache by alert key.
func (s *Session) persistAlert(a domain.Alert) {
	saved, err := s.repos.InsertAlert(a)
	if err != nil {
		log.Error().Err(err).Str("alert_key", a.AlertKey).Msg("alert save failed; keeping in-memory copy")
		return
	}
	s.mu.Lock()
	for i := range s.alerts {
		if s.alerts[i].AlertKey == saved.AlertKey && s.alerts[i].ID == 0 {
			s.alerts[i].ID = saved.ID
			break
		}
	}
	s.mu.Unlock()
}

func (s *Session) persistIrrigationEvent(e domain.IrrigationEvent) {
	saved, err := s.repos.InsertIrrigationEvent(e)
	if err != nil {
		log.Error().Err(err).Msg("irrigation event save failed; keeping in-memory copy")
		return
	}
	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == 0 && s.events[i].Timestamp.Equal(saved.Timestamp) {
			s.events[i].ID = saved.ID
			break
		}
	}
	s.mu.Unlock()
}

// CurrentReading returns the last ingested reading, if any.
func (s *Session) CurrentReading() (domain.Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasReading
}

// Alerts returns a copy of the in-memory alert cache, newest first.
func (s *Session) Alerts() []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// RecentAlerts is the display query: store results merged with any cached
// alert whose persist never landed, so a failed insert cannot hide an alert
// that is live on the websocket. When the store itself is unavailable the
// cache serves alone.
func (s *Session) RecentAlerts(limit int, greenhouseID string, resolved *bool) []domain.Alert {
	if limit <= 0 {
		limit = 10
	}
	stored, err := s.repos.ListRecentAlerts(limit, greenhouseID, resolved)
	if err != nil {
		log.Error().Err(err).Msg("alert query failed; serving session cache")
		stored = nil
	}

	out := []domain.Alert{}
	if greenhouseID == "" || greenhouseID == s.greenhouseID {
		s.mu.Lock()
		for _, a := range s.alerts {
			if a.ID != 0 && err == nil {
				continue // persisted, already in the store results
			}
			if resolved != nil && a.Resolved != *resolved {
				continue
			}
			out = append(out, a)
		}
		s.mu.Unlock()
	}
	out = append(out, stored...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ResolveAlert marks an alert resolved in the store and mirrors the change
// into the cache.
func (s *Session) ResolveAlert(id int64) error {
	if err := s.repos.ResolveAlert(id); err != nil {
		return err
	}
	now := time.Now().UTC()
	s.mu.Lock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].Resolved = true
			s.alerts[i].ResolvedAt = &now
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// RefreshMetrics recomputes the derived-metrics snapshot from the trailing
// 24 hours of history plus the session caches. A failed history fetch leaves
// the previous loss/prediction values in place and only refreshes what can be
// computed locally.
func (s *Session) RefreshMetrics() {
	history, err := s.repos.SensorHistory("24h", s.greenhouseID)
	if err != nil {
		log.Error().Err(err).Msg("history fetch failed; trend metrics unchanged")
		history = nil
	}
	// newest-first from the store; the estimators want chronological order
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot
	snap.UpdatedAt = now

	if history != nil {
		snap.LossRate = metrics.LossRate(history)
	}
	if s.hasReading {
		if history != nil {
			avg := metrics.PredictorLossAverage(history)
			snap.Prediction = metrics.PredictIrrigation(
				s.latest.SoilMoisture, s.latest.Temperature, s.latest.Humidity,
				avg, s.trigger.Threshold)
		}
		snap.OptimalScore = metrics.OptimalScore(s.latest, s.thresholds)
		snap.WeightedScore = metrics.WeightedOptimalScore(s.latest, s.thresholds)
	}
	snap.Daily = metrics.DailyWaterSavings(s.events, now)
	snap.Weekly = metrics.WeeklyWaterSavings(s.events, now)
	if last := s.trigger.LastFired(); !last.IsZero() {
		snap.LastIrrigation = &last
	}

	s.snapshot = snap
}

// Metrics returns the latest derived-metrics snapshot.
func (s *Session) Metrics() MetricsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// IrrigationEvents returns a copy of the cached events, newest first.
func (s *Session) IrrigationEvents() []domain.IrrigationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.IrrigationEvent, len(s.events))
	copy(out, s.events)
	return out
}
