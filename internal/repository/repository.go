package repository

import (
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mooreli104/farmtwin/internal/domain"
)

// ErrAlertNotFound is returned when resolving an id the store never assigned.
var ErrAlertNotFound = errors.New("alert not found")

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// InsertAlert persists an alert and returns it with the store-assigned id.
func (r *Repos) InsertAlert(a domain.Alert) (domain.Alert, error) {
	err := r.db.Get(&a.ID,
		`INSERT INTO alerts(greenhouse_id, type, sensor, message, alert_key, violation, created_at, resolved)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,false) RETURNING id`,
		a.GreenhouseID, a.Type, a.Sensor, a.Message, a.AlertKey, a.Violation, a.CreatedAt)
	return a, err
}

// ListRecentAlerts returns alerts newest-first. resolved filters on the
// resolved flag when non-nil; greenhouseID filters when non-empty.
func (r *Repos) ListRecentAlerts(limit int, greenhouseID string, resolved *bool) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT id, greenhouse_id, type, sensor, message, alert_key, violation, created_at, resolved, resolved_at
	      FROM alerts WHERE 1=1`
	args := []any{}
	if greenhouseID != "" {
		args = append(args, greenhouseID)
		q += ` AND greenhouse_id = $` + itoa(len(args))
	}
	if resolved != nil {
		args = append(args, *resolved)
		q += ` AND resolved = $` + itoa(len(args))
	}
	args = append(args, limit)
	q += ` ORDER BY created_at DESC LIMIT $` + itoa(len(args))

	out := []domain.Alert{}
	err := r.db.Select(&out, q, args...)
	return out, err
}

// ResolveAlert flips resolved=false to true and stamps resolved_at.
func (r *Repos) ResolveAlert(id int64) error {
	res, err := r.db.Exec(
		`UPDATE alerts SET resolved = true, resolved_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (r *Repos) InsertIrrigationEvent(e domain.IrrigationEvent) (domain.IrrigationEvent, error) {
	err := r.db.Get(&e.ID,
		`INSERT INTO irrigation_events(greenhouse_id, timestamp, water_amount, triggered_by)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		e.GreenhouseID, e.Timestamp, e.WaterAmount, e.TriggeredBy)
	return e, err
}

func (r *Repos) ListRecentIrrigationEvents(limit int) ([]domain.IrrigationEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.IrrigationEvent{}
	err := r.db.Select(&out,
		`SELECT id, greenhouse_id, timestamp, water_amount, triggered_by
		 FROM irrigation_events ORDER BY timestamp DESC LIMIT $1`, limit)
	return out, err
}

func (r *Repos) InsertReading(rd domain.Reading) error {
	_, err := r.db.Exec(
		`INSERT INTO sensor_history(greenhouse_id, timestamp, temperature, humidity, soil_moisture, light_level, co2)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rd.GreenhouseID, rd.Timestamp, rd.Temperature, rd.Humidity, rd.SoilMoisture, rd.LightLevel, rd.CO2)
	return err
}

// SensorHistory returns readings within the range token (see ParseTimeRange),
// newest-first.
func (r *Repos) SensorHistory(rangeToken, greenhouseID string) ([]domain.Reading, error) {
	since := time.Now().UTC().Add(-ParseTimeRange(rangeToken))

	q := `SELECT id, greenhouse_id, timestamp, temperature, humidity, soil_moisture, light_level, co2
	      FROM sensor_history WHERE timestamp >= $1`
	args := []any{since}
	if greenhouseID != "" {
		args = append(args, greenhouseID)
		q += ` AND greenhouse_id = $` + itoa(len(args))
	}
	q += ` ORDER BY timestamp DESC`

	out := []domain.Reading{}
	err := r.db.Select(&out, q, args...)
	return out, err
}

func itoa(n int) string { return strconv.Itoa(n) }
