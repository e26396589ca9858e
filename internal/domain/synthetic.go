package domain

import "math/rand"

// SyntheticConditions generates deterministic substitute measurements for a
// coordinate pair, used when a hazard provider is unreachable. The generator
// is seeded from the coordinates plus a per-kind salt, so identical
// coordinates always yield identical bundles within a process run. The values
// are plausible-range noise, not a model of local climate.
func SyntheticConditions(kind ConditionKind, lat, lon float64) Conditions {
	c := Conditions{
		Kind:      kind,
		Source:    SourceSynthetic,
		FetchedAt: clock.Now().UTC(),
	}

	switch kind {
	case ConditionSeismic:
		rng := rand.New(rand.NewSource(syntheticSeed(lat, lon) + 1))
		c.Seismic = &SeismicConditions{
			Magnitude:  float64(rng.Intn(10)),
			DepthKm:    float64(rng.Intn(100)),
			DistanceKm: float64(rng.Intn(50)),
		}
	case ConditionFire:
		rng := rand.New(rand.NewSource(syntheticSeed(lat, lon) + 2))
		fire := DeriveFireConditions(WeatherConditions{
			Temperature: 25 + float64(rng.Intn(20)) - 5,
			Humidity:    30 + float64(rng.Intn(40)),
			WindSpeed:   float64(rng.Intn(25)),
		})
		c.Fire = &fire
	default:
		rng := rand.New(rand.NewSource(syntheticSeed(lat, lon)))
		c.Weather = &WeatherConditions{
			Temperature:   20 + float64(rng.Intn(25)) - 10,
			Humidity:      40 + float64(rng.Intn(40)),
			Precipitation: float64(rng.Intn(100)),
			WindSpeed:     float64(rng.Intn(30)),
		}
	}

	return c
}

// syntheticSeed folds a coordinate pair into a PRNG seed. Truncation to three
// decimal places keeps the seed stable across float formatting differences.
func syntheticSeed(lat, lon float64) int64 {
	return int64(lat*1000) + int64(lon*1000)
}
