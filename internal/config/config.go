package config

import (
	"errors"
	"fmt"

	"github.com/anoideaopen/delegate/core/stringsx"
	"github.com/caarlos0/env/v11"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	// ErrUnknownLogFormat is returned when the log format is neither text nor json.
	ErrUnknownLogFormat = errors.New("unknown log format")

	// ErrMetricsNamespaceEmpty is returned when metrics are enabled without a namespace.
	ErrMetricsNamespaceEmpty = errors.New("metrics namespace is empty")
)

// Config is the process configuration of the delegate runtime.
type Config struct {
	// LogLevel is a logrus level name.
	LogLevel string `env:"DELEGATE_LOG_LEVEL" envDefault:"warning"`
	// LogFormat is either text or json.
	LogFormat string `env:"DELEGATE_LOG_FORMAT" envDefault:"text"`
	// FallbackScan enables the exhaustive signature scan over registered classes.
	FallbackScan bool `env:"DELEGATE_FALLBACK_SCAN" envDefault:"true"`
	// Metrics enables the Prometheus collector of the default runtime.
	Metrics bool `env:"DELEGATE_METRICS" envDefault:"false"`
	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `env:"DELEGATE_METRICS_NAMESPACE" envDefault:"delegate"`
	// OTLPEndpoint is host:port of an OTLP/HTTP trace collector. Tracing is off when empty.
	OTLPEndpoint string `env:"DELEGATE_OTLP_ENDPOINT"`
	// OTLPCACerts is a base64 encoded PEM bundle for the collector connection.
	OTLPCACerts string `env:"DELEGATE_OTLP_CA_CERTS"`
	// ServiceName is reported to the trace collector.
	ServiceName string `env:"DELEGATE_SERVICE_NAME" envDefault:"delegate"`
}

// FromEnv loads the configuration from environment variables and validates it.
func FromEnv() (*Config, error) {
	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:         "warning",
		LogFormat:        LogFormatText,
		FallbackScan:     true,
		MetricsNamespace: "delegate",
		ServiceName:      "delegate",
	}
}

// Validate checks the configuration values that env parsing cannot.
func (c *Config) Validate() error {
	if !stringsx.OneOf(c.LogFormat, LogFormatText, LogFormatJSON) {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogFormat, c.LogFormat)
	}

	if c.Metrics && c.MetricsNamespace == "" {
		return ErrMetricsNamespaceEmpty
	}

	return nil
}
