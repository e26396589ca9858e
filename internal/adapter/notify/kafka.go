package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// Kafka publishes alert notifications to a Kafka topic so downstream
// consumers (mailers, pagers) can fan them out.
type Kafka struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewKafka creates a producer for the alert topic.
func NewKafka(brokers []string, topic string, logger *slog.Logger) *Kafka {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Kafka{writer: w, logger: logger}
}

func (k *Kafka) Name() string { return "kafka" }

// Send publishes one alert notification, keyed by recipient email so all
// messages for a recipient land on the same partition.
func (k *Kafka) Send(ctx context.Context, recipient domain.Recipient, alert domain.Alert) error {
	msg, err := serializeNotification(recipient, alert)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, msg)
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

type kafkaNotification struct {
	Recipient string       `json:"recipient"`
	Name      string       `json:"name,omitempty"`
	Alert     domain.Alert `json:"alert"`
}

// serializeNotification marshals one recipient's notification into a Kafka
// message.
func serializeNotification(recipient domain.Recipient, alert domain.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(kafkaNotification{
		Recipient: recipient.Email,
		Name:      recipient.Name,
		Alert:     alert,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize notification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(recipient.Email),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_id", Value: []byte(alert.ID)},
			{Key: "detected_at", Value: []byte(alert.DetectedAt.Format(time.RFC3339))},
		},
	}, nil
}
