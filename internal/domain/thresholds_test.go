package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestTomatoThresholdsValid(t *testing.T) {
	if err := ValidateThresholds(TomatoThresholds()); err != nil {
		t.Fatalf("default table must validate: %v", err)
	}
}

func TestValidateRejectsMalformedBands(t *testing.T) {
	cases := []Threshold{
		{Sensor: SensorTemperature, OptimalMin: 85, OptimalMax: 65, CriticalMin: 55, CriticalMax: 95}, // min > max
		{Sensor: SensorTemperature, OptimalMin: 65, OptimalMax: 85, CriticalMin: 70, CriticalMax: 95}, // criticalMin above optimalMin
		{Sensor: SensorTemperature, OptimalMin: 65, OptimalMax: 85, CriticalMin: 55, CriticalMax: 80}, // criticalMax below optimalMax
		{Sensor: SensorTemperature, OptimalMin: 65, OptimalMax: 65, CriticalMin: 55, CriticalMax: 95}, // empty optimal band
		{OptimalMin: 65, OptimalMax: 85, CriticalMin: 55, CriticalMax: 95},                            // no sensor key
	}
	for i, th := range cases {
		if err := th.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestValidateRejectsDuplicateSensors(t *testing.T) {
	table := []Threshold{
		{Sensor: SensorCO2, OptimalMin: 400, OptimalMax: 1000, CriticalMin: 300, CriticalMax: 1500},
		{Sensor: SensorCO2, OptimalMin: 400, OptimalMax: 1000, CriticalMin: 300, CriticalMax: 1500},
	}
	if err := ValidateThresholds(table); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestReadingValue(t *testing.T) {
	r := Reading{Temperature: 75, Humidity: 0, SoilMoisture: math.NaN()}

	if v, ok := r.Value(SensorTemperature); !ok || v != 75 {
		t.Fatalf("temperature: got %v/%v", v, ok)
	}
	// zero is a legitimate reading, not a missing one
	if v, ok := r.Value(SensorHumidity); !ok || v != 0 {
		t.Fatalf("humidity zero should be valid: got %v/%v", v, ok)
	}
	if _, ok := r.Value(SensorSoilMoisture); ok {
		t.Fatalf("NaN should report not-ok")
	}
	if _, ok := r.Value(SensorKind("bogus")); ok {
		t.Fatalf("unknown kind should report not-ok")
	}
}

func TestReadingMarshalOmitsUnreported(t *testing.T) {
	r := Reading{
		Temperature:  75,
		Humidity:     0, // legitimate zero, must survive
		SoilMoisture: math.NaN(),
		LightLevel:   math.NaN(),
		CO2:          math.Inf(1),
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	for _, absent := range []string{"soil_moisture", "light_level", "co2"} {
		if _, ok := m[absent]; ok {
			t.Fatalf("unreported field %s should be omitted: %s", absent, b)
		}
	}
	if m["temperature"].(float64) != 75 {
		t.Fatalf("temperature lost: %s", b)
	}
	if m["humidity"].(float64) != 0 {
		t.Fatalf("zero humidity lost: %s", b)
	}
}
