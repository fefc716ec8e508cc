package utils

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/gritdb/gritdb/utils/log"
)

// Config holds the server-level settings for a coordination pool. The
// transaction timeout is deliberately absent: it is a fixed property
// of the coordinator, not an operator knob.
type Config struct {
	Database      string
	Workers       int
	MetricsListen string
	LogLevel      log.Level
}

// ParseConfig reads a YAML configuration document.
func ParseConfig(data []byte) (*Config, error) {
	var aux struct {
		Database      string `yaml:"database"`
		Workers       int    `yaml:"workers"`
		MetricsListen string `yaml:"metrics_listen"`
		LogLevel      string `yaml:"log_level"`
	}

	if err := yaml.Unmarshal(data, &aux); err != nil {
		return nil, errors.Wrap(err, "parsing configuration")
	}

	if aux.Database == "" {
		return nil, errors.New("no database path configured")
	}
	if aux.Workers < 0 {
		return nil, errors.Errorf("invalid worker count %d", aux.Workers)
	}

	cfg := &Config{
		Database:      aux.Database,
		Workers:       aux.Workers,
		MetricsListen: aux.MetricsListen,
	}

	switch strings.ToLower(aux.LogLevel) {
	case "", "info":
		cfg.LogLevel = log.INFO
	case "debug":
		cfg.LogLevel = log.DEBUG
	case "warning", "warn":
		cfg.LogLevel = log.WARNING
	case "error":
		cfg.LogLevel = log.ERROR
	default:
		return nil, errors.Errorf("unknown log level %q", aux.LogLevel)
	}

	return cfg, nil
}
