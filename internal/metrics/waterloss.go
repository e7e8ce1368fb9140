// Package metrics derives irrigation analytics from the sensor history:
// water-loss rate, time-to-irrigation prediction, optimal-range adherence and
// water-savings accounting.
package metrics

import (
	"github.com/mooreli104/farmtwin/internal/domain"
)

// DefaultLossRate is assumed when the history yields no usable sample pair.
const DefaultLossRate = 0.5 // %/hour

// maxPairGapHours guards the predictor variant against large gaps between
// readings.
const maxPairGapHours = 1.0

// noiseCeiling rejects implausible loss rates in the predictor variant.
const noiseCeiling = 5.0 // %/hour

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

type LossSample struct {
	Timestamp    string  `json:"timestamp"`
	Rate         float64 `json:"rate"`
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture float64 `json:"soil_moisture"`
}

type LossStats struct {
	CurrentRate float64      `json:"current_rate"`
	AverageRate float64      `json:"average_rate"`
	TrendLabel  Trend        `json:"trend"`
	Samples     []LossSample `json:"samples,omitempty"`
}

// tempFactor and humidityFactor model evapotranspiration: heat above 75°F and
// dryness below 65% RH both accelerate moisture loss. Both are exactly 1 at
// the neutral boundary.
func tempFactor(temperature float64) float64 {
	if temperature > 75 {
		return 1 + (temperature-75)*0.02
	}
	return 1
}

func humidityFactor(humidity float64) float64 {
	if humidity < 65 {
		return 1 + (65-humidity)*0.01
	}
	return 1
}

// LossRate walks the history (ordered oldest to newest) pairwise and
// estimates the soil-moisture loss rate in %/hour, adjusted for temperature
// and humidity at each sample. The delta normalizes by elapsed time, so any
// pair with a positive gap contributes; negative rates are skipped because
// irrigation raises moisture and must not count as loss.
func LossRate(history []domain.Reading) LossStats {
	stats := LossStats{AverageRate: DefaultLossRate, TrendLabel: TrendStable}

	var sum float64
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1], history[i]
		dt := curr.Timestamp.Sub(prev.Timestamp).Hours()
		if dt <= 0 {
			continue
		}
		raw := (prev.SoilMoisture - curr.SoilMoisture) / dt
		adjusted := raw * tempFactor(curr.Temperature) * humidityFactor(curr.Humidity)
		if adjusted <= 0 {
			continue
		}
		stats.Samples = append(stats.Samples, LossSample{
			Timestamp:    curr.Timestamp.Format("15:04"),
			Rate:         adjusted,
			Temperature:  curr.Temperature,
			Humidity:     curr.Humidity,
			SoilMoisture: curr.SoilMoisture,
		})
		sum += adjusted
	}

	if len(stats.Samples) == 0 {
		return stats
	}

	stats.CurrentRate = stats.Samples[len(stats.Samples)-1].Rate
	stats.AverageRate = sum / float64(len(stats.Samples))

	switch {
	case stats.CurrentRate > stats.AverageRate*1.15:
		stats.TrendLabel = TrendIncreasing
	case stats.CurrentRate < stats.AverageRate*0.85:
		stats.TrendLabel = TrendDecreasing
	default:
		stats.TrendLabel = TrendStable
	}
	return stats
}

// PredictorLossAverage is the estimator variant feeding the irrigation
// predictor: only the last ten pairs, raw (unadjusted) rates, and anything at
// or above the noise ceiling discarded as sensor noise. Environmental
// adjustment is applied once by the predictor using live conditions.
func PredictorLossAverage(history []domain.Reading) float64 {
	start := len(history) - 10
	if start < 0 {
		start = 0
	}

	var sum float64
	var n int
	for i := start; i < len(history); i++ {
		if i == 0 {
			continue
		}
		prev, curr := history[i-1], history[i]
		dt := curr.Timestamp.Sub(prev.Timestamp).Hours()
		if dt <= 0 || dt >= maxPairGapHours {
			continue
		}
		raw := (prev.SoilMoisture - curr.SoilMoisture) / dt
		if raw <= 0 || raw >= noiseCeiling {
			continue
		}
		sum += raw
		n++
	}
	if n == 0 {
		return DefaultLossRate
	}
	return sum / float64(n)
}
