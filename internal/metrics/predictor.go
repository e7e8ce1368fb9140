package metrics

// DefaultIrrigationThreshold is the soil-moisture level at which automatic
// watering triggers.
const DefaultIrrigationThreshold = 30.0 // %

// NoForeseeableNeed is the hours-until sentinel when moisture is not falling.
const NoForeseeableNeed = 999.0

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyWarning  Urgency = "warning"
	UrgencyNormal   Urgency = "normal"
	UrgencyGood     Urgency = "good"
)

type Prediction struct {
	HoursUntil   float64 `json:"hours_until"`
	Urgency      Urgency `json:"urgency"`
	AdjustedRate float64 `json:"adjusted_loss_rate"`
}

// PredictIrrigation estimates how long until soil moisture falls to the
// irrigation threshold, given the historical average loss rate and the
// current environment. At or below the threshold the answer is "now".
func PredictIrrigation(moisture, temperature, humidity, avgLossRate, threshold float64) Prediction {
	adjusted := avgLossRate * tempFactor(temperature) * humidityFactor(humidity)

	if moisture <= threshold {
		return Prediction{HoursUntil: 0, Urgency: UrgencyCritical, AdjustedRate: adjusted}
	}

	hours := NoForeseeableNeed
	if adjusted > 0 {
		hours = (moisture - threshold) / adjusted
	}

	var urgency Urgency
	switch {
	case hours < 2:
		urgency = UrgencyCritical
	case hours < 6:
		urgency = UrgencyWarning
	case hours < 12:
		urgency = UrgencyNormal
	default:
		urgency = UrgencyGood
	}
	return Prediction{HoursUntil: hours, Urgency: urgency, AdjustedRate: adjusted}
}
