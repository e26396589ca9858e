package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

func testAlert() domain.Alert {
	return domain.Alert{
		ID:             "a1b2c3",
		RegionID:       1,
		DisasterTypeID: domain.DisasterFlood,
		RiskScore:      72.5,
		ThresholdValue: 50,
		Message:        "HIGH: Disaster risk detected",
		DetectedAt:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestWebhookSendsSignedPayload(t *testing.T) {
	var gotBody []byte
	var gotSig, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Signature-256")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, "topsecret")
	recipient := domain.Recipient{Email: "ops@example.com", Name: "Ops"}
	require.NoError(t, hook.Send(context.Background(), recipient, testAlert()))

	assert.Equal(t, "application/json", gotContentType)

	var payload webhookPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "disaster_alert", payload.Event)
	assert.Equal(t, "ops@example.com", payload.Recipient)
	assert.Equal(t, "a1b2c3", payload.Alert.ID)

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(gotBody)
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), gotSig)
}

func TestWebhookOmitsSignatureWithoutSecret(t *testing.T) {
	var gotSig string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature-256")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, "")
	require.NoError(t, hook.Send(context.Background(), domain.Recipient{Email: "a@b.c"}, testAlert()))
	assert.Empty(t, gotSig)
}

func TestWebhookRejectsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, "")
	err := hook.Send(context.Background(), domain.Recipient{Email: "a@b.c"}, testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSerializeNotification(t *testing.T) {
	alert := testAlert()
	recipient := domain.Recipient{Email: "ops@example.com", Name: "Ops"}

	msg, err := serializeNotification(recipient, alert)
	require.NoError(t, err)

	assert.Equal(t, []byte("ops@example.com"), msg.Key)

	var decoded kafkaNotification
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "ops@example.com", decoded.Recipient)
	assert.Equal(t, 72.5, decoded.Alert.RiskScore)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, kafkago.Header{Key: "alert_id", Value: []byte("a1b2c3")}, msg.Headers[0])
	assert.Equal(t, "detected_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-03-14T09:30:00Z"), msg.Headers[1].Value)
}
