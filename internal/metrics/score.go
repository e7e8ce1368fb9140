package metrics

import (
	"math"

	"github.com/mooreli104/farmtwin/internal/domain"
)

// Weights for the weighted adherence variant. Soil moisture dominates; CO2
// carries no weight.
var scoreWeights = map[domain.SensorKind]float64{
	domain.SensorSoilMoisture: 0.4,
	domain.SensorTemperature:  0.2,
	domain.SensorHumidity:     0.2,
	domain.SensorLightLevel:   0.2,
}

func inOptimalRange(reading domain.Reading, th domain.Threshold) bool {
	v, ok := reading.Value(th.Sensor)
	return ok && v >= th.OptimalMin && v <= th.OptimalMax
}

// OptimalScore is the share of configured sensors currently inside their
// optimal band, 0-100. This unweighted ratio is the authoritative score.
func OptimalScore(reading domain.Reading, thresholds []domain.Threshold) int {
	if len(thresholds) == 0 {
		return 0
	}
	inRange := 0
	for _, th := range thresholds {
		if inOptimalRange(reading, th) {
			inRange++
		}
	}
	return int(math.Round(float64(inRange) / float64(len(thresholds)) * 100))
}

// WeightedOptimalScore weighs range membership per sensor instead of counting
// each equally. Weights apply to membership, never to raw sensor values; a
// weighted sum of raw values has no bounded 0-100 meaning.
func WeightedOptimalScore(reading domain.Reading, thresholds []domain.Threshold) int {
	var total, earned float64
	for _, th := range thresholds {
		w, ok := scoreWeights[th.Sensor]
		if !ok {
			continue
		}
		total += w
		if inOptimalRange(reading, th) {
			earned += w
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(earned / total * 100))
}
