// Package gateway fetches hazard-relevant conditions for a coordinate,
// routing each disaster type to its provider and shielding callers from
// provider failures.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

// WeatherSource fetches current atmospheric conditions.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (domain.WeatherConditions, error)
}

// SeismicSource fetches the strongest recent earthquake near a coordinate.
type SeismicSource interface {
	Strongest(ctx context.Context, lat, lon float64) (domain.SeismicConditions, error)
}

// CacheStore memoizes fetched condition bundles.
type CacheStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// Gateway resolves the condition bundle for a (disaster type, coordinate)
// request. It never fails the caller: any provider error degrades to
// deterministic synthetic conditions. Real and synthetic bundles are cached
// alike for the standard TTL.
type Gateway struct {
	weather WeatherSource
	seismic SeismicSource
	cache   CacheStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a condition gateway.
func New(weather WeatherSource, seismic SeismicSource, cache CacheStore, logger *slog.Logger, metrics *observability.Metrics) *Gateway {
	return &Gateway{
		weather: weather,
		seismic: seismic,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch returns the condition bundle the given disaster type scores on.
func (g *Gateway) Fetch(ctx context.Context, disasterTypeID int, lat, lon float64) domain.Conditions {
	kind := domain.KindForDisasterType(disasterTypeID)
	key := domain.ConditionCacheKey(kind, lat, lon)

	if data, ok := g.cache.Get(key); ok {
		var cached domain.Conditions
		if err := json.Unmarshal(data, &cached); err == nil {
			g.metrics.ConditionCache.WithLabelValues(string(kind), "hit").Inc()
			return cached
		}
		// A corrupt entry is treated as a miss and overwritten below.
		g.logger.Warn("corrupt cached conditions, refetching", "key", key, "error", "unmarshal failed")
	}
	g.metrics.ConditionCache.WithLabelValues(string(kind), "miss").Inc()

	cond, err := g.fetchFromProvider(ctx, kind, lat, lon)
	if err != nil {
		g.logger.Warn("condition fetch failed, using synthetic fallback",
			"kind", kind,
			"lat", lat,
			"lon", lon,
			"error", err,
		)
		g.metrics.ConditionFetches.WithLabelValues(string(kind), "fallback").Inc()
		cond = domain.SyntheticConditions(kind, lat, lon)
	} else {
		g.metrics.ConditionFetches.WithLabelValues(string(kind), "success").Inc()
	}

	if data, err := json.Marshal(cond); err == nil {
		g.cache.Set(key, data, domain.CacheTTL)
	}

	return cond
}

func (g *Gateway) fetchFromProvider(ctx context.Context, kind domain.ConditionKind, lat, lon float64) (domain.Conditions, error) {
	switch kind {
	case domain.ConditionSeismic:
		seismic, err := g.seismic.Strongest(ctx, lat, lon)
		if err != nil {
			return domain.Conditions{}, err
		}
		return domain.Conditions{
			Kind:      kind,
			Source:    domain.SourceUSGS,
			Seismic:   &seismic,
			FetchedAt: domain.Now().UTC(),
		}, nil

	case domain.ConditionFire:
		weather, err := g.weather.Current(ctx, lat, lon)
		if err != nil {
			return domain.Conditions{}, err
		}
		fire := domain.DeriveFireConditions(weather)
		return domain.Conditions{
			Kind:      kind,
			Source:    domain.SourceDerived,
			Fire:      &fire,
			FetchedAt: domain.Now().UTC(),
		}, nil

	default:
		weather, err := g.weather.Current(ctx, lat, lon)
		if err != nil {
			return domain.Conditions{}, err
		}
		return domain.Conditions{
			Kind:      kind,
			Source:    domain.SourceOpenWeather,
			Weather:   &weather,
			FetchedAt: domain.Now().UTC(),
		}, nil
	}
}
