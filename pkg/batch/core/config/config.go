// Package config provides structures and utilities for managing application
// configuration loaded from embedded YAML, .env files and environment
// variables.
package config

// EmbeddedConfig holds the content of the configuration file, typically
// passed from main.go. This is used when loading configuration from an
// embedded source (e.g. a compiled binary).
type EmbeddedConfig []byte

// BatchConfig holds configuration specific to the batch processing engine.
type BatchConfig struct {
	// JobName is the default job name if not specified elsewhere.
	JobName string `yaml:"job_name"`
	// ChunkSize is the default chunk size for chunk-oriented steps.
	ChunkSize int `yaml:"chunk_size"`
	// SkipLimit is the default number of item-level errors tolerated per step.
	SkipLimit int `yaml:"skip_limit"`
	// JobDefinitionPath is the path of the YAML job definition, when jobs are
	// assembled through the JobFactory rather than in code.
	JobDefinitionPath string `yaml:"job_definition_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the logging level (e.g. "INFO", "DEBUG").
	Level string `yaml:"level"`
}

// MetricsConfig holds metrics exposition configuration.
type MetricsConfig struct {
	// Enabled toggles the Prometheus recorder; when false the engine falls
	// back to the no-op recorder.
	Enabled bool `yaml:"enabled"`
}

// SystemConfig holds system-wide settings.
type SystemConfig struct {
	// Timezone is the application timezone (e.g. "UTC", "Asia/Tokyo").
	Timezone string `yaml:"timezone"`
	// Logging is the logging configuration.
	Logging LoggingConfig `yaml:"logging"`
	// Metrics is the metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// RiptideConfig holds all configuration under the "riptide" top-level key.
type RiptideConfig struct {
	// Batch contains batch processing specific configurations.
	Batch BatchConfig `yaml:"batch"`
	// System contains system-wide configurations.
	System SystemConfig `yaml:"system"`
}

// Config is the root structure for the entire application configuration.
type Config struct {
	// Riptide contains the top-level configuration for the Riptide batch engine.
	Riptide RiptideConfig `yaml:"riptide"`
	// EmbeddedConfig holds configuration loaded from an embedded source, not from YAML.
	EmbeddedConfig EmbeddedConfig `yaml:"-"`
}

// NewConfig returns a new instance of Config with default values.
func NewConfig() *Config {
	return &Config{
		Riptide: RiptideConfig{
			Batch: BatchConfig{
				JobName:   "",
				ChunkSize: 10,
				SkipLimit: 0,
			},
			System: SystemConfig{
				Timezone: "UTC",
				Logging:  LoggingConfig{Level: "INFO"},
				Metrics:  MetricsConfig{Enabled: false},
			},
		},
	}
}
