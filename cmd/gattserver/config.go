package main

import (
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the demo server's configuration. The core gatt package
// itself takes no configuration (spec.md's explicit non-goal); everything
// here is specific to cmd/gattserver's own demo wiring.
type Config struct {
	LogLevel   string        `yaml:"log_level" default:"info"`
	ServerID   uint16        `yaml:"server_id" default:"1"`
	DeviceName string        `yaml:"device_name" default:"gattserver-demo"`
	DialDelay  time.Duration `yaml:"dial_delay" default:"0s"`
}

// DefaultConfig returns a Config with every field set to its default tag,
// mirroring the teacher's config.DefaultConfig().
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// LoadConfig reads a YAML file at path, applying defaults for any field
// the file omits. A missing file is not an error: callers get DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewLogger builds a logger the way the teacher's config.Config.NewLogger
// does: text formatter, full timestamps, level parsed from LogLevel.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger
}
