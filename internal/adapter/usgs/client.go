// Package usgs queries the USGS FDSN event service for recent earthquakes
// near a coordinate.
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// DefaultBaseURL is the public USGS FDSN event endpoint.
const DefaultBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1"

// Query window: strongest event of the last day within 100 km, ignoring
// micro-quakes below magnitude 2.0.
const (
	searchRadiusKm = 100.0
	minMagnitude   = 2.0
	lookback       = 24 * time.Hour
)

// Client calls the USGS earthquake catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a USGS client. An empty baseURL uses the public endpoint.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Strongest returns the strongest earthquake near the coordinate within the
// lookback window. No qualifying event yields zero-value conditions, not an
// error: quiet ground is a valid measurement.
func (c *Client) Strongest(ctx context.Context, lat, lon float64) (domain.SeismicConditions, error) {
	now := time.Now().UTC()
	params := url.Values{
		"format":       {"geojson"},
		"starttime":    {now.Add(-lookback).Format("2006-01-02")},
		"endtime":      {now.Format("2006-01-02")},
		"latitude":     {fmt.Sprintf("%.4f", lat)},
		"longitude":    {fmt.Sprintf("%.4f", lon)},
		"maxradiuskm":  {fmt.Sprintf("%.0f", searchRadiusKm)},
		"minmagnitude": {fmt.Sprintf("%.1f", minMagnitude)},
		"orderby":      {"magnitude"},
		"limit":        {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return domain.SeismicConditions{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SeismicConditions{}, fmt.Errorf("earthquake request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.SeismicConditions{}, fmt.Errorf("usgs API error: status %d: %s", resp.StatusCode, body)
	}

	var usgsResp response
	if err := json.NewDecoder(resp.Body).Decode(&usgsResp); err != nil {
		return domain.SeismicConditions{}, fmt.Errorf("decode response: %w", err)
	}

	if len(usgsResp.Features) == 0 {
		return domain.SeismicConditions{}, nil
	}

	f := usgsResp.Features[0]
	cond := domain.SeismicConditions{
		Magnitude: f.Properties.Mag,
	}
	// GeoJSON coordinates are [lon, lat, depth].
	if len(f.Geometry.Coordinates) >= 3 {
		cond.DepthKm = f.Geometry.Coordinates[2]
	}
	if len(f.Geometry.Coordinates) >= 2 {
		cond.DistanceKm = haversineKm(lat, lon, f.Geometry.Coordinates[1], f.Geometry.Coordinates[0])
	}
	return cond, nil
}

// haversineKm computes the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// USGS GeoJSON response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Mag  float64 `json:"mag"`
	Time int64   `json:"time"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}
