package domain

import "fmt"

// Threshold is the optimal and critical band for one sensor. Loaded once at
// startup and never mutated.
type Threshold struct {
	Sensor      SensorKind
	Name        string
	Unit        string
	OptimalMin  float64
	OptimalMax  float64
	CriticalMin float64
	CriticalMax float64
}

// TomatoThresholds is the default threshold table for a tomato greenhouse.
func TomatoThresholds() []Threshold {
	return []Threshold{
		{Sensor: SensorTemperature, Name: "Temperature", Unit: "°F", OptimalMin: 65, OptimalMax: 85, CriticalMin: 55, CriticalMax: 95},
		{Sensor: SensorHumidity, Name: "Humidity", Unit: "%", OptimalMin: 60, OptimalMax: 80, CriticalMin: 40, CriticalMax: 90},
		{Sensor: SensorSoilMoisture, Name: "Soil Moisture", Unit: "%", OptimalMin: 40, OptimalMax: 65, CriticalMin: 30, CriticalMax: 75},
		{Sensor: SensorLightLevel, Name: "Light Level", Unit: " lux", OptimalMin: 400, OptimalMax: 800, CriticalMin: 200, CriticalMax: 1000},
		{Sensor: SensorCO2, Name: "CO₂", Unit: " ppm", OptimalMin: 400, OptimalMax: 1000, CriticalMin: 300, CriticalMax: 1500},
	}
}

// Validate checks the band invariant criticalMin <= optimalMin < optimalMax
// <= criticalMax. A malformed table is a configuration error and fatal at
// startup; it is never handled per-reading.
func (t Threshold) Validate() error {
	if t.Sensor == "" {
		return fmt.Errorf("threshold without sensor key")
	}
	if !(t.CriticalMin <= t.OptimalMin && t.OptimalMin < t.OptimalMax && t.OptimalMax <= t.CriticalMax) {
		return fmt.Errorf("threshold %s: want criticalMin <= optimalMin < optimalMax <= criticalMax, got %.1f/%.1f/%.1f/%.1f",
			t.Sensor, t.CriticalMin, t.OptimalMin, t.OptimalMax, t.CriticalMax)
	}
	return nil
}

// ValidateThresholds validates a whole table and rejects duplicate sensors.
func ValidateThresholds(table []Threshold) error {
	seen := make(map[SensorKind]bool, len(table))
	for _, t := range table {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.Sensor] {
			return fmt.Errorf("duplicate threshold for sensor %s", t.Sensor)
		}
		seen[t.Sensor] = true
	}
	return nil
}
