package main

import (
	"fmt"
	"wodassist-backend/internal/components/telemetry"
	"wodassist-backend/internal/scrapers/wodify"
)

type RateLimitConfig struct {
	PerSecond float64 `json:"per_second"`
	Burst     int     `json:"burst"`
}

type Config struct {
	BaseUrl        string               `json:"base_url"`
	ListenPort     int                  `json:"listen_port"`
	TimeoutMs      int                  `json:"timeout_ms"`
	RateLimit      RateLimitConfig      `json:"rate_limit"`
	ProgramAliases map[string]string    `json:"program_aliases"`
	Otlp           telemetry.OtlpConfig `json:"otlp"`
}

func (c *Config) applyDefaults() {
	if c.BaseUrl == "" {
		c.BaseUrl = wodify.DEFAULT_BASE_URL
	}
	if c.ListenPort == 0 {
		c.ListenPort = 8080
	}
	if c.TimeoutMs == 0 {
		c.TimeoutMs = int(wodify.DEFAULT_TIMEOUT.Milliseconds())
	}
	if c.RateLimit.PerSecond == 0 {
		c.RateLimit.PerSecond = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
}

func (c Config) validate() error {
	if c.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	if c.RateLimit.PerSecond < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit must be positive")
	}
	return nil
}
