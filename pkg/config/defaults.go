package config

import "strings"

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Digester-specific defaults are handled by the digester factory
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDigestDefaults(&cfg.Digest)
	applyMetricsDefaults(&cfg.Metrics)

	// Import.Xattrs defaults to false
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyDigestDefaults sets digester defaults.
func applyDigestDefaults(cfg *DigestConfig) {
	if cfg.Type == "" {
		cfg.Type = "blake3"
	}

	if cfg.Blake3 == nil {
		cfg.Blake3 = make(map[string]any)
	}
	if _, ok := cfg.Blake3["length"]; !ok {
		cfg.Blake3["length"] = 16
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false

	if cfg.Listen == "" {
		cfg.Listen = "localhost:9464"
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Digest: DigestConfig{
			Blake3: make(map[string]any),
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
