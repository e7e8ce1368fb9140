package service

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mooreli104/farmtwin/internal/domain"
)

// wireReading is the permissive ingest shape. Pointer fields distinguish
// "absent" from zero; absent optional sensors become NaN in the domain
// reading so the evaluator skips them.
type wireReading struct {
	GreenhouseID string     `json:"greenhouse_id"`
	Timestamp    *time.Time `json:"timestamp"`
	Temperature  *float64   `json:"temperature"`
	Humidity     *float64   `json:"humidity"`
	SoilMoisture *float64   `json:"soil_moisture"`
	LightLevel   *float64   `json:"light_level"`
	CO2          *float64   `json:"co2"`
	CO2PPM       *float64   `json:"co2_ppm"` // hardware field name
}

func deref(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func (w wireReading) toReading() domain.Reading {
	r := domain.Reading{
		GreenhouseID: w.GreenhouseID,
		Temperature:  deref(w.Temperature),
		Humidity:     deref(w.Humidity),
		SoilMoisture: deref(w.SoilMoisture),
		LightLevel:   deref(w.LightLevel),
		CO2:          deref(w.CO2),
	}
	if w.CO2 == nil && w.CO2PPM != nil {
		r.CO2 = *w.CO2PPM
	}
	if w.Timestamp != nil {
		r.Timestamp = *w.Timestamp
	}
	return r
}

// DecodeStreamPayload accepts both live-feed encodings: a structured reading
// object, or a JSON string wrapping one (double-encoded by some publishers).
func DecodeStreamPayload(payload []byte) (domain.Reading, error) {
	var inner string
	if err := json.Unmarshal(payload, &inner); err == nil {
		payload = []byte(inner)
	}

	var w wireReading
	if err := json.Unmarshal(payload, &w); err != nil {
		return domain.Reading{}, fmt.Errorf("malformed stream payload: %w", err)
	}
	return w.toReading(), nil
}

// FromMQTT ingests one live-feed message. Malformed payloads are reported to
// the caller for logging and otherwise dropped; they never stop the loop.
func (s *Session) FromMQTT(_ string, payload []byte) error {
	reading, err := DecodeStreamPayload(payload)
	if err != nil {
		return err
	}
	s.Ingest(reading)
	return nil
}

// Hardware ingress defaults for sensors the ESP32 build may not carry.
const (
	DefaultLightLevel = 600.0
	DefaultCO2PPM     = 700.0
)

// FromHardware validates a POSTed hardware reading. Temperature, humidity and
// soil moisture are required; light and CO2 fall back to defaults.
func (s *Session) FromHardware(body []byte) (domain.Reading, error) {
	var w wireReading
	if err := json.Unmarshal(body, &w); err != nil {
		return domain.Reading{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	if w.Temperature == nil {
		return domain.Reading{}, fmt.Errorf("missing required field: temperature")
	}
	if w.Humidity == nil {
		return domain.Reading{}, fmt.Errorf("missing required field: humidity")
	}
	if w.SoilMoisture == nil {
		return domain.Reading{}, fmt.Errorf("missing required field: soil_moisture")
	}

	r := w.toReading()
	if w.LightLevel == nil {
		r.LightLevel = DefaultLightLevel
	}
	if w.CO2 == nil && w.CO2PPM == nil {
		r.CO2 = DefaultCO2PPM
	}

	s.Ingest(r)
	return r, nil
}
