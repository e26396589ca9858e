package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

type stubWeather struct {
	cond  domain.WeatherConditions
	err   error
	calls int
}

func (s *stubWeather) Current(_ context.Context, _, _ float64) (domain.WeatherConditions, error) {
	s.calls++
	return s.cond, s.err
}

type stubSeismic struct {
	cond  domain.SeismicConditions
	err   error
	calls int
}

func (s *stubSeismic) Strongest(_ context.Context, _, _ float64) (domain.SeismicConditions, error) {
	s.calls++
	return s.cond, s.err
}

type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (m *memCache) Get(key string) ([]byte, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *memCache) Set(key string, value []byte, _ time.Duration) {
	m.entries[key] = value
}

func newTestGateway(w WeatherSource, s SeismicSource, c CacheStore) *Gateway {
	return New(w, s, c, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func TestFetchWeatherConditions(t *testing.T) {
	weather := &stubWeather{cond: domain.WeatherConditions{
		Temperature:   28,
		Humidity:      65,
		Precipitation: 12,
		WindSpeed:     4,
	}}
	gw := newTestGateway(weather, &stubSeismic{}, newMemCache())

	cond := gw.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)

	assert.Equal(t, domain.ConditionWeather, cond.Kind)
	assert.Equal(t, domain.SourceOpenWeather, cond.Source)
	require.NotNil(t, cond.Weather)
	assert.Equal(t, 28.0, cond.Weather.Temperature)
	assert.Equal(t, 1, weather.calls)
}

func TestFetchSeismicConditions(t *testing.T) {
	seismic := &stubSeismic{cond: domain.SeismicConditions{Magnitude: 4.2, DepthKm: 10, DistanceKm: 35}}
	gw := newTestGateway(&stubWeather{}, seismic, newMemCache())

	cond := gw.Fetch(context.Background(), domain.DisasterEarthquake, 35.6762, 139.6503)

	assert.Equal(t, domain.ConditionSeismic, cond.Kind)
	assert.Equal(t, domain.SourceUSGS, cond.Source)
	require.NotNil(t, cond.Seismic)
	assert.Equal(t, 4.2, cond.Seismic.Magnitude)
	assert.Equal(t, 1, seismic.calls)
}

func TestFetchFireConditionsDerivedFromWeather(t *testing.T) {
	weather := &stubWeather{cond: domain.WeatherConditions{
		Temperature:   38,
		Humidity:      18,
		Precipitation: 0,
		WindSpeed:     9,
	}}
	gw := newTestGateway(weather, &stubSeismic{}, newMemCache())

	cond := gw.Fetch(context.Background(), domain.DisasterWildfire, -33.8688, 151.2093)

	assert.Equal(t, domain.ConditionFire, cond.Kind)
	assert.Equal(t, domain.SourceDerived, cond.Source)
	require.NotNil(t, cond.Fire)
	assert.Equal(t, 38.0, cond.Fire.Temperature)
	assert.Greater(t, cond.Fire.DroughtIndex, 0.0)
	assert.Equal(t, 1, weather.calls)
}

func TestFetchUsesCachedConditions(t *testing.T) {
	weather := &stubWeather{cond: domain.WeatherConditions{Temperature: 22}}
	gw := newTestGateway(weather, &stubSeismic{}, newMemCache())

	first := gw.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)
	second := gw.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)

	assert.Equal(t, 1, weather.calls, "second fetch should hit the cache")
	assert.Equal(t, first.Source, second.Source)
	require.NotNil(t, second.Weather)
	assert.Equal(t, first.Weather.Temperature, second.Weather.Temperature)
}

func TestFetchSharesCacheAcrossTypesOfSameKind(t *testing.T) {
	weather := &stubWeather{cond: domain.WeatherConditions{Temperature: 22}}
	gw := newTestGateway(weather, &stubSeismic{}, newMemCache())

	gw.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)
	gw.Fetch(context.Background(), domain.DisasterStorm, 13.7563, 100.5018)

	assert.Equal(t, 1, weather.calls, "flood and storm share the weather bundle")
}

func TestFetchFallsBackToSyntheticOnProviderError(t *testing.T) {
	weather := &stubWeather{err: errors.New("connection refused")}
	gw := newTestGateway(weather, &stubSeismic{}, newMemCache())

	cond := gw.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)

	assert.Equal(t, domain.SourceSynthetic, cond.Source)
	require.NotNil(t, cond.Weather)
}

func TestFetchSyntheticFallbackIsDeterministic(t *testing.T) {
	weather := &stubWeather{err: errors.New("timeout")}

	// Separate caches so both calls reach the fallback path.
	a := newTestGateway(weather, &stubSeismic{}, newMemCache())
	b := newTestGateway(weather, &stubSeismic{}, newMemCache())

	first := a.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)
	second := b.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)

	require.NotNil(t, first.Weather)
	require.NotNil(t, second.Weather)
	assert.Equal(t, *first.Weather, *second.Weather)
}

func TestFetchCachesSyntheticFallback(t *testing.T) {
	weather := &stubWeather{err: errors.New("timeout")}
	cache := newMemCache()
	gw := newTestGateway(weather, &stubSeismic{}, cache)

	gw.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)
	gw.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)

	assert.Equal(t, 1, weather.calls, "fallback data should be cached like real data")
}

func TestFetchOverwritesCorruptCacheEntry(t *testing.T) {
	weather := &stubWeather{cond: domain.WeatherConditions{Temperature: 22}}
	cache := newMemCache()
	key := domain.ConditionCacheKey(domain.ConditionWeather, 13.7563, 100.5018)
	cache.entries[key] = []byte("{not json")

	gw := newTestGateway(weather, &stubSeismic{}, cache)
	cond := gw.Fetch(context.Background(), domain.DisasterFlood, 13.7563, 100.5018)

	assert.Equal(t, domain.SourceOpenWeather, cond.Source)
	assert.Equal(t, 1, weather.calls)
}
