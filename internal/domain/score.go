package domain

import "fmt"

// Risk level names derived from score cut points.
const (
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

// Score maps a condition bundle to a risk score in [0,100] for the given
// disaster type. Pure function: unknown types and mismatched bundles score 0
// rather than erroring.
func Score(disasterTypeID int, c Conditions) float64 {
	switch disasterTypeID {
	case DisasterFlood:
		if c.Weather == nil {
			return 0
		}
		return floodScore(*c.Weather)
	case DisasterEarthquake:
		if c.Seismic == nil {
			return 0
		}
		return earthquakeScore(*c.Seismic)
	case DisasterWildfire:
		if c.Fire == nil {
			return 0
		}
		return wildfireScore(*c.Fire)
	case DisasterStorm:
		if c.Weather == nil {
			return 0
		}
		return stormScore(*c.Weather)
	case DisasterDrought:
		if c.Weather == nil {
			return 0
		}
		return droughtScore(*c.Weather)
	default:
		return 0
	}
}

// floodScore weighs recent precipitation (50mm saturates) against humidity.
func floodScore(w WeatherConditions) float64 {
	precipRisk := clamp100(w.Precipitation * 2)
	humidityRisk := clamp100(w.Humidity * 0.5)
	return clamp100((precipRisk + humidityRisk) / 2)
}

// earthquakeScore weighs magnitude (5.0 saturates) against epicenter distance.
func earthquakeScore(s SeismicConditions) float64 {
	magnitudeRisk := clamp100(s.Magnitude * 20)
	distanceRisk := clamp100(100 - s.DistanceKm*2)
	return clamp100((magnitudeRisk + distanceRisk) / 2)
}

// wildfireScore weighs heat above 25°C, dryness below 50% humidity, and the
// drought index.
func wildfireScore(f FireConditions) float64 {
	tempRisk := clamp100(max0(f.Temperature-25) * 5)
	humidityRisk := clamp100(max0(50-f.Humidity) * 2)
	droughtRisk := clamp100(f.DroughtIndex)
	return clamp100((tempRisk + humidityRisk + droughtRisk) / 3)
}

// stormScore weighs wind speed (30 m/s saturates) against precipitation.
func stormScore(w WeatherConditions) float64 {
	windRisk := clamp100(w.WindSpeed * 3.33)
	precipRisk := clamp100(w.Precipitation * 2)
	return clamp100((windRisk + precipRisk) / 2)
}

// droughtScore weighs low precipitation, heat above 20°C, and low humidity.
func droughtScore(w WeatherConditions) float64 {
	precipRisk := clamp100(max0(50-w.Precipitation) * 2)
	tempRisk := clamp100(max0(w.Temperature-20) * 5)
	humidityRisk := clamp100(max0(60-w.Humidity) * 2.5)
	return clamp100((precipRisk + tempRisk + humidityRisk) / 3)
}

// LevelForScore buckets a score into Low/Medium/High.
func LevelForScore(score float64) string {
	switch {
	case score < 30:
		return LevelLow
	case score < 70:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// DefaultThreshold returns the trigger threshold used when no active alert
// setting exists for a pair.
func DefaultThreshold(disasterTypeID int) float64 {
	switch disasterTypeID {
	case DisasterFlood:
		return 50
	case DisasterEarthquake:
		return 70
	case DisasterWildfire:
		return 60
	case DisasterStorm:
		return 65
	case DisasterDrought:
		return 55
	default:
		return 50
	}
}

// AlertMessage renders the human-readable alert text for a triggering event.
func AlertMessage(level string, score, threshold float64) string {
	base := fmt.Sprintf("Disaster risk detected with %s level (Score: %.2f, Threshold: %.2f)", level, score, threshold)
	switch level {
	case LevelHigh:
		return "HIGH: " + base + " - Urgent attention needed!"
	case LevelMedium:
		return "MEDIUM: " + base + " - Monitor closely!"
	default:
		return "LOW: " + base + " - Stay alert!"
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
