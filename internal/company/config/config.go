// Package config loads the YAML configuration shared by the company API
// and the notification service.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings for both binaries. Zero values fall back to
// the defaults applied by Load.
type Config struct {
	DBHost     string `yaml:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	GroupID      string   `yaml:"GROUP_ID"`

	CacheCapacity        uint64 `yaml:"CACHE_CAPACITY"`
	CompanyTTLSeconds    int    `yaml:"COMPANY_TTL_SECONDS"`
	CollectionTTLSeconds int    `yaml:"COLLECTION_TTL_SECONDS"`

	MetricsWindowMinutes int `yaml:"METRICS_WINDOW_MINUTES"`
	MetricsSweepSeconds  int `yaml:"METRICS_SWEEP_SECONDS"`
}

// Load reads and parses the config file, applying defaults for settings
// left unset.
func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Topic == "" {
		c.Topic = "companycreated"
	}
	if c.GroupID == "" {
		c.GroupID = "notification-service"
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = 10000
	}
	if c.CompanyTTLSeconds == 0 {
		c.CompanyTTLSeconds = 60
	}
	if c.CollectionTTLSeconds == 0 {
		c.CollectionTTLSeconds = 300
	}
	if c.MetricsWindowMinutes == 0 {
		c.MetricsWindowMinutes = 10
	}
	if c.MetricsSweepSeconds == 0 {
		c.MetricsSweepSeconds = 60
	}
}

// CompanyTTL is the TTL for single-entity cache entries.
func (c *Config) CompanyTTL() time.Duration {
	return time.Duration(c.CompanyTTLSeconds) * time.Second
}

// CollectionTTL is the TTL for the cached full listing.
func (c *Config) CollectionTTL() time.Duration {
	return time.Duration(c.CollectionTTLSeconds) * time.Second
}

// MetricsWindow is the trailing window for operation counts.
func (c *Config) MetricsWindow() time.Duration {
	return time.Duration(c.MetricsWindowMinutes) * time.Minute
}

// MetricsSweep is the interval between window sweeps.
func (c *Config) MetricsSweep() time.Duration {
	return time.Duration(c.MetricsSweepSeconds) * time.Second
}
