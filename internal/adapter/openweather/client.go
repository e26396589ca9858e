// Package openweather fetches current atmospheric conditions from the
// OpenWeather current-weather API.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// ErrNoAPIKey is returned when the client is constructed without a key;
// callers fall back to synthetic conditions.
var ErrNoAPIKey = errors.New("openweather API key not configured")

// Client calls the OpenWeather current-weather endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an OpenWeather client. An empty apiKey is allowed; every
// request then fails with ErrNoAPIKey and the caller degrades to fallback data.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		logger:  logger,
	}
}

// Current fetches the present weather conditions for a coordinate pair.
func (c *Client) Current(ctx context.Context, lat, lon float64) (domain.WeatherConditions, error) {
	if c.apiKey == "" {
		return domain.WeatherConditions{}, ErrNoAPIKey
	}

	params := url.Values{
		"lat":   {fmt.Sprintf("%.4f", lat)},
		"lon":   {fmt.Sprintf("%.4f", lon)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherConditions{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherConditions{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherConditions{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	var owResp response
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.WeatherConditions{}, fmt.Errorf("decode response: %w", err)
	}

	cond := domain.WeatherConditions{
		Temperature: owResp.Main.Temp,
		Humidity:    owResp.Main.Humidity,
		WindSpeed:   owResp.Wind.Speed,
	}
	if owResp.Rain != nil {
		cond.Precipitation = owResp.Rain.OneHour
	}
	return cond, nil
}

// OpenWeather API response types.

type response struct {
	Main mainInfo  `json:"main"`
	Wind windInfo  `json:"wind"`
	Rain *rainInfo `json:"rain"`
}

type mainInfo struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
}

type windInfo struct {
	Speed float64 `json:"speed"`
}

type rainInfo struct {
	OneHour float64 `json:"1h"`
}
