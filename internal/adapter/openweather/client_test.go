package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(serverURL string) *Client {
	c := NewClient("test-key", 5*time.Second, discardLogger())
	c.baseURL = serverURL
	return c
}

func TestCurrent_ParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "13.7563", r.URL.Query().Get("lat"))
		assert.Equal(t, "100.5018", r.URL.Query().Get("lon"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"main": {"temp": 31.5, "humidity": 78},
			"wind": {"speed": 4.2},
			"rain": {"1h": 12.5}
		}`)
	}))
	defer srv.Close()

	cond, err := testClient(srv.URL).Current(context.Background(), 13.7563, 100.5018)
	require.NoError(t, err)

	assert.InDelta(t, 31.5, cond.Temperature, 0.001)
	assert.InDelta(t, 78.0, cond.Humidity, 0.001)
	assert.InDelta(t, 4.2, cond.WindSpeed, 0.001)
	assert.InDelta(t, 12.5, cond.Precipitation, 0.001)
}

func TestCurrent_MissingRainMeansDry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"main": {"temp": 22, "humidity": 40}, "wind": {"speed": 1}}`)
	}))
	defer srv.Close()

	cond, err := testClient(srv.URL).Current(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cond.Precipitation)
}

func TestCurrent_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Current(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestCurrent_MalformedJSONIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `not-json{{{`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Current(context.Background(), 1, 2)
	assert.Error(t, err)
}

func TestCurrent_NoAPIKey(t *testing.T) {
	c := NewClient("", time.Second, discardLogger())

	_, err := c.Current(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
