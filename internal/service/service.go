package service

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mooreli104/farmtwin/internal/alerting"
	"github.com/mooreli104/farmtwin/internal/domain"
	"github.com/mooreli104/farmtwin/internal/irrigation"
	"github.com/mooreli104/farmtwin/internal/repository"
	"github.com/mooreli104/farmtwin/internal/ws"
)

type Services struct {
	Repos   *repository.Repos
	Session *Session
}

// Options configures a dashboard session.
type Options struct {
	GreenhouseID        string
	Thresholds          []domain.Threshold
	IrrigationThreshold float64
	IrrigationCooldown  time.Duration
	Hub                 *ws.Hub
	Notifier            Notifier // optional
}

// Notifier pushes out-of-band notifications for critical conditions.
type Notifier interface {
	NotifyCriticalAlert(alert domain.Alert)
	NotifyIrrigation(event domain.IrrigationEvent)
}

// Store is the persistence surface the session depends on.
type Store interface {
	InsertAlert(a domain.Alert) (domain.Alert, error)
	ListRecentAlerts(limit int, greenhouseID string, resolved *bool) ([]domain.Alert, error)
	ResolveAlert(id int64) error
	InsertIrrigationEvent(e domain.IrrigationEvent) (domain.IrrigationEvent, error)
	ListRecentIrrigationEvents(limit int) ([]domain.IrrigationEvent, error)
	SensorHistory(rangeToken, greenhouseID string) ([]domain.Reading, error)
}

func New(db *sqlx.DB, opts Options) (*Services, error) {
	if err := domain.ValidateThresholds(opts.Thresholds); err != nil {
		return nil, err
	}
	repos := repository.New(db)
	return &Services{Repos: repos, Session: newSession(repos, opts)}, nil
}

func newSession(store Store, opts Options) *Session {
	if opts.IrrigationThreshold <= 0 {
		opts.IrrigationThreshold = 30
	}
	return &Session{
		repos:        store,
		hub:          opts.Hub,
		notifier:     opts.Notifier,
		greenhouseID: opts.GreenhouseID,
		thresholds:   opts.Thresholds,
		trigger:      irrigation.NewTrigger(opts.IrrigationThreshold, opts.IrrigationCooldown),
		dedup:        alerting.NewDedupState(),
	}
}
