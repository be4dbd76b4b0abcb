package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address            string `yaml:"address"`
		Password           string `yaml:"password"`
		DB                 int    `yaml:"db"`
		SnapshotTTLMinutes int    `yaml:"snapshot_ttl_minutes"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Session struct {
		TimeoutMinutes         int     `yaml:"timeout_minutes"`
		CleanupIntervalMinutes int     `yaml:"cleanup_interval_minutes"`
		RateLimitPerSecond     float64 `yaml:"rate_limit_per_second"`
		RateLimitBurst         int     `yaml:"rate_limit_burst"`
	} `yaml:"session"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/lineup.db"
	}

	return &cfg, nil
}

func (c *Config) SessionTimeout() time.Duration {
	if c.Session.TimeoutMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.Session.TimeoutMinutes) * time.Minute
}

func (c *Config) SessionCleanupInterval() time.Duration {
	if c.Session.CleanupIntervalMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Session.CleanupIntervalMinutes) * time.Minute
}

func (c *Config) SnapshotTTL() time.Duration {
	if c.Redis.SnapshotTTLMinutes <= 0 {
		return 4 * time.Hour
	}
	return time.Duration(c.Redis.SnapshotTTLMinutes) * time.Minute
}

func (c *Config) RateLimit() (float64, int) {
	rate, burst := c.Session.RateLimitPerSecond, c.Session.RateLimitBurst
	if rate <= 0 {
		rate = 25
	}
	if burst <= 0 {
		burst = 50
	}
	return rate, burst
}
