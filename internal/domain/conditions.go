package domain

import "time"

// ConditionKind selects which measurement bundle a disaster type needs.
type ConditionKind string

const (
	ConditionWeather ConditionKind = "weather"
	ConditionSeismic ConditionKind = "seismic"
	ConditionFire    ConditionKind = "fire"
)

// Condition data sources recorded in the audit blob.
const (
	SourceOpenWeather = "openweather"
	SourceUSGS        = "usgs"
	SourceDerived     = "derived"
	SourceSynthetic   = "synthetic"
)

// WeatherConditions are current atmospheric measurements for a coordinate.
type WeatherConditions struct {
	Temperature   float64 `json:"temperature"`   // degrees Celsius
	Humidity      float64 `json:"humidity"`      // percent
	Precipitation float64 `json:"precipitation"` // mm in the last hour
	WindSpeed     float64 `json:"wind_speed"`    // m/s
}

// SeismicConditions describe the strongest recent earthquake near a coordinate.
// Zero values mean no qualifying event was recorded.
type SeismicConditions struct {
	Magnitude  float64 `json:"magnitude"`
	DepthKm    float64 `json:"depth_km"`
	DistanceKm float64 `json:"distance_km"`
}

// FireConditions are the fire-risk inputs derived from current weather.
type FireConditions struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	WindSpeed    float64 `json:"wind_speed"`
	DroughtIndex float64 `json:"drought_index"` // [0,100]
}

// Conditions is the disaster-type-specific measurement bundle consumed by the
// scorer and embedded into reports and alerts as an audit trail. Exactly one
// of Weather, Seismic, or Fire is set, matching Kind. Immutable once fetched.
type Conditions struct {
	Kind      ConditionKind      `json:"kind"`
	Source    string             `json:"source"`
	Weather   *WeatherConditions `json:"weather,omitempty"`
	Seismic   *SeismicConditions `json:"seismic,omitempty"`
	Fire      *FireConditions    `json:"fire,omitempty"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// KindForDisasterType maps a disaster-type ID to the bundle it scores on.
// Unknown types fall back to weather; their score is 0 regardless.
func KindForDisasterType(disasterTypeID int) ConditionKind {
	switch disasterTypeID {
	case DisasterEarthquake:
		return ConditionSeismic
	case DisasterWildfire:
		return ConditionFire
	default:
		return ConditionWeather
	}
}

// DeriveFireConditions builds the wildfire input bundle from current weather.
// The drought index mirrors the upstream derivation: mean of a temperature
// component above 20°C, a dryness component from inverted humidity, and a
// wind component, clamped to [0,100].
func DeriveFireConditions(w WeatherConditions) FireConditions {
	tempComponent := clamp100(max0(w.Temperature-20) * 2)
	dryComponent := clamp100(100 - w.Humidity)
	windComponent := clamp100(w.WindSpeed * 5)

	return FireConditions{
		Temperature:  w.Temperature,
		Humidity:     w.Humidity,
		WindSpeed:    w.WindSpeed,
		DroughtIndex: clamp100((tempComponent + dryComponent + windComponent) / 3),
	}
}
