package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Generative AI (Gemini generateContent REST API)
	GenAIAPIURL string
	GenAIAPIKey string
	GenAIModel  string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxConcurrency int

	// Observability
	OTLPEndpoint string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Platform capabilities, selected once at startup
	BarcodeDetection bool
	Haptics          bool

	// Demo timings
	ScanPollInterval  time.Duration
	ScanSimulateDelay time.Duration
	PaymentDelay      time.Duration
}

var defaults = map[string]any{
	"port":      8080,
	"log_level": "info",

	"genai_api_url": "https://generativelanguage.googleapis.com",
	"genai_api_key": "",
	"genai_model":   "gemini-2.5-flash",

	"http_timeout":    10 * time.Second,
	"max_concurrency": 50,

	"otel_exporter_otlp_endpoint": "",

	"session_secret": "wallet-default-dev-secret-change-me",
	"session_ttl":    30 * time.Minute,

	"barcode_detection": true,
	"haptics":           true,

	"scan_poll_interval":  300 * time.Millisecond,
	"scan_simulate_delay": 1500 * time.Millisecond,
	"payment_delay":       2 * time.Second,
}

// Load reads configuration from environment variables with defaults.
// If envFile names an existing dotenv file its values are used for keys
// that are not set in the real environment (env takes precedence).
func Load(envFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{
		Port:     v.GetInt("port"),
		LogLevel: v.GetString("log_level"),

		GenAIAPIURL: v.GetString("genai_api_url"),
		GenAIAPIKey: v.GetString("genai_api_key"),
		GenAIModel:  v.GetString("genai_model"),

		HTTPTimeout:    v.GetDuration("http_timeout"),
		MaxConcurrency: v.GetInt("max_concurrency"),

		OTLPEndpoint: v.GetString("otel_exporter_otlp_endpoint"),

		SessionSecret: v.GetString("session_secret"),
		SessionTTL:    v.GetDuration("session_ttl"),

		BarcodeDetection: v.GetBool("barcode_detection"),
		Haptics:          v.GetBool("haptics"),

		ScanPollInterval:  v.GetDuration("scan_poll_interval"),
		ScanSimulateDelay: v.GetDuration("scan_simulate_delay"),
		PaymentDelay:      v.GetDuration("payment_delay"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects durations that would stall or panic a ticker. Unparsable
// values read as zero and are rejected too.
func (c *Config) validate() error {
	positive := []struct {
		key string
		d   time.Duration
	}{
		{"HTTP_TIMEOUT", c.HTTPTimeout},
		{"SESSION_TTL", c.SessionTTL},
		{"SCAN_POLL_INTERVAL", c.ScanPollInterval},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("config: %s must be a positive duration, got %v", p.key, p.d)
		}
	}
	if c.ScanSimulateDelay < 0 {
		return fmt.Errorf("config: SCAN_SIMULATE_DELAY must not be negative, got %v", c.ScanSimulateDelay)
	}
	if c.PaymentDelay < 0 {
		return fmt.Errorf("config: PAYMENT_DELAY must not be negative, got %v", c.PaymentDelay)
	}
	return nil
}

// GenAIConfigured reports whether an API key is available. Without one the
// collaborators run on their fixed fallbacks.
func (c *Config) GenAIConfigured() bool {
	return c.GenAIAPIKey != ""
}

// isNotExist treats a missing dotenv file as "no overrides".
func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
