package domain

import (
	"encoding/json"
	"math"
	"time"
)

// SensorKind identifies one of the five monitored greenhouse sensors.
type SensorKind string

const (
	SensorTemperature  SensorKind = "temperature"
	SensorHumidity     SensorKind = "humidity"
	SensorSoilMoisture SensorKind = "soil_moisture"
	SensorLightLevel   SensorKind = "light_level"
	SensorCO2          SensorKind = "co2"
)

// SensorKinds lists every sensor in evaluation order.
var SensorKinds = []SensorKind{
	SensorTemperature,
	SensorHumidity,
	SensorSoilMoisture,
	SensorLightLevel,
	SensorCO2,
}

type AlertType string

const (
	AlertCritical AlertType = "critical"
	AlertWarning  AlertType = "warning"
)

// ViolationKind distinguishes which boundary a reading crossed.
type ViolationKind string

const (
	ViolationCriticalLow  ViolationKind = "critical_low"
	ViolationCriticalHigh ViolationKind = "critical_high"
	ViolationWarningLow   ViolationKind = "warning_low"
	ViolationWarningHigh  ViolationKind = "warning_high"
)

type TriggerSource string

const (
	TriggerAutomatic TriggerSource = "automatic"
	TriggerManual    TriggerSource = "manual"
)

// Reading is one snapshot of all sensor values. A field holding NaN means the
// source never reported that sensor; consumers skip it.
type Reading struct {
	ID           int64     `db:"id" json:"id,omitempty"`
	GreenhouseID string    `db:"greenhouse_id" json:"greenhouse_id,omitempty"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
	Temperature  float64   `db:"temperature" json:"temperature"`
	Humidity     float64   `db:"humidity" json:"humidity"`
	SoilMoisture float64   `db:"soil_moisture" json:"soil_moisture"`
	LightLevel   float64   `db:"light_level" json:"light_level"`
	CO2          float64   `db:"co2" json:"co2"`
}

// Value returns the reading for one sensor kind. ok is false when the value
// was never reported or is not a finite number.
func (r Reading) Value(kind SensorKind) (float64, bool) {
	var v float64
	switch kind {
	case SensorTemperature:
		v = r.Temperature
	case SensorHumidity:
		v = r.Humidity
	case SensorSoilMoisture:
		v = r.SoilMoisture
	case SensorLightLevel:
		v = r.LightLevel
	case SensorCO2:
		v = r.CO2
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// MarshalJSON omits sensors that were never reported. NaN has no JSON
// encoding, so an absent field must be dropped rather than fail the marshal
// of the whole reading.
func (r Reading) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID           int64     `json:"id,omitempty"`
		GreenhouseID string    `json:"greenhouse_id,omitempty"`
		Timestamp    time.Time `json:"timestamp"`
		Temperature  *float64  `json:"temperature,omitempty"`
		Humidity     *float64  `json:"humidity,omitempty"`
		SoilMoisture *float64  `json:"soil_moisture,omitempty"`
		LightLevel   *float64  `json:"light_level,omitempty"`
		CO2          *float64  `json:"co2,omitempty"`
	}
	return json.Marshal(wire{
		ID:           r.ID,
		GreenhouseID: r.GreenhouseID,
		Timestamp:    r.Timestamp,
		Temperature:  finiteOrNil(r.Temperature),
		Humidity:     finiteOrNil(r.Humidity),
		SoilMoisture: finiteOrNil(r.SoilMoisture),
		LightLevel:   finiteOrNil(r.LightLevel),
		CO2:          finiteOrNil(r.CO2),
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type Alert struct {
	ID           int64         `db:"id" json:"id,omitempty"`
	GreenhouseID string        `db:"greenhouse_id" json:"greenhouse_id,omitempty"`
	Type         AlertType     `db:"type" json:"type"`
	Sensor       SensorKind    `db:"sensor" json:"sensor"`
	Message      string        `db:"message" json:"message"`
	AlertKey     string        `db:"alert_key" json:"alert_key"`
	Violation    ViolationKind `db:"violation" json:"violation"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	Resolved     bool          `db:"resolved" json:"resolved"`
	ResolvedAt   *time.Time    `db:"resolved_at" json:"resolved_at,omitempty"`
}

type IrrigationEvent struct {
	ID           int64         `db:"id" json:"id,omitempty"`
	GreenhouseID string        `db:"greenhouse_id" json:"greenhouse_id,omitempty"`
	Timestamp    time.Time     `db:"timestamp" json:"timestamp"`
	WaterAmount  float64       `db:"water_amount" json:"water_amount"`
	TriggeredBy  TriggerSource `db:"triggered_by" json:"triggered_by"`
}
