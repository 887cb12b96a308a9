// Package config loads the pilot's settings from the environment, with an
// optional YAML file layered on top.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cxd309/pilot-engine/internal/predict"
)

// Config holds all configuration for the pilot.
type Config struct {
	// Loop settings
	TickRate           int `yaml:"tick_rate"` // ticks per second
	MaxActionsPerTick  int `yaml:"max_actions_per_tick"`
	MaxSegmentsPerTick int `yaml:"max_segments_per_tick"`

	// Prediction settings
	PredictionHorizon  time.Duration `yaml:"prediction_horizon"`
	InterceptPredicate string        `yaml:"intercept_predicate"`

	// Debug output
	LogLevel string `yaml:"log_level"`
	EEGQueue int    `yaml:"eeg_queue"`
	VizAddr  string `yaml:"viz_addr"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		TickRate:           getEnvInt("PILOT_TICK_RATE", 60),
		MaxActionsPerTick:  getEnvInt("PILOT_MAX_ACTIONS_PER_TICK", 64),
		MaxSegmentsPerTick: getEnvInt("PILOT_MAX_SEGMENTS_PER_TICK", 8),
		PredictionHorizon:  getEnvDuration("PILOT_PREDICTION_HORIZON", 6*time.Second),
		InterceptPredicate: getEnv("PILOT_INTERCEPT_PREDICATE", predict.DefaultInterceptExpr),
		LogLevel:           getEnv("PILOT_LOG_LEVEL", "info"),
		EEGQueue:           getEnvInt("PILOT_EEG_QUEUE", 64),
		VizAddr:            getEnv("PILOT_VIZ_ADDR", ":8089"),
	}

	return cfg, cfg.Validate()
}

// LoadFile loads the environment and then overlays the YAML document at path.
// Keys missing from the file keep their environment or default values.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("PILOT_TICK_RATE must be 1-240, got %d", c.TickRate)
	}
	if c.PredictionHorizon <= 0 || c.PredictionHorizon > 30*time.Second {
		return fmt.Errorf("PILOT_PREDICTION_HORIZON must be in (0, 30s], got %v", c.PredictionHorizon)
	}
	if c.MaxActionsPerTick < 1 {
		return fmt.Errorf("PILOT_MAX_ACTIONS_PER_TICK must be positive, got %d", c.MaxActionsPerTick)
	}
	if c.MaxSegmentsPerTick < 1 {
		return fmt.Errorf("PILOT_MAX_SEGMENTS_PER_TICK must be positive, got %d", c.MaxSegmentsPerTick)
	}
	if c.EEGQueue < 1 {
		return fmt.Errorf("PILOT_EEG_QUEUE must be positive, got %d", c.EEGQueue)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := predict.CompilePredicate(c.InterceptPredicate); err != nil {
		return fmt.Errorf("PILOT_INTERCEPT_PREDICATE: %w", err)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("PILOT_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return l, nil
}

// TimeStep is the length of one tick in seconds.
func (c *Config) TimeStep() float64 { return 1 / float64(c.TickRate) }

// Predictor is the ball predictor for this tick rate and horizon.
func (c *Config) Predictor() predict.Predictor {
	return predict.Predictor{Step: c.TimeStep(), Horizon: c.PredictionHorizon.Seconds()}
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
