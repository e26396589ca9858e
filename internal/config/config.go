package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Notifier transport selectors.
const (
	NotifierWebhook = "webhook"
	NotifierKafka   = "kafka"
	NotifierNone    = "none"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DBPath string

	// Hazard provider configuration.
	OpenWeatherAPIKey  string
	OpenWeatherTimeout time.Duration
	USGSBaseURL        string
	USGSTimeout        time.Duration

	// Notification transport: webhook, kafka, or none.
	Notifier        string
	WebhookURL      string
	WebhookSecret   string
	KafkaBrokers    []string
	KafkaAlertTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	owTimeout, err := parseTimeout("OPENWEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	usgsTimeout, err := parseTimeout("USGS_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DBPath: sharedcfg.EnvOrDefault("DB_PATH", "data/disaster_risk.db"),

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherTimeout: owTimeout,
		USGSBaseURL:        sharedcfg.EnvOrDefault("USGS_BASE_URL", ""),
		USGSTimeout:        usgsTimeout,

		Notifier:        sharedcfg.EnvOrDefault("NOTIFIER", NotifierNone),
		WebhookURL:      os.Getenv("WEBHOOK_URL"),
		WebhookSecret:   os.Getenv("WEBHOOK_SECRET"),
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: sharedcfg.EnvOrDefault("KAFKA_ALERT_TOPIC", "disaster-alerts"),
	}

	switch cfg.Notifier {
	case NotifierWebhook:
		if cfg.WebhookURL == "" {
			return nil, errors.New("NOTIFIER is webhook but WEBHOOK_URL is not set")
		}
	case NotifierKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("NOTIFIER is kafka but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaAlertTopic == "" {
			return nil, errors.New("NOTIFIER is kafka but KAFKA_ALERT_TOPIC is empty")
		}
	case NotifierNone:
	default:
		return nil, errors.New("invalid NOTIFIER: must be webhook, kafka, or none")
	}

	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}

	return cfg, nil
}

func parseTimeout(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}
