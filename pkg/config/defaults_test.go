package config

import "testing"

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Digest.Type != "blake3" {
		t.Errorf("Expected default digest type 'blake3', got %q", cfg.Digest.Type)
	}
	if cfg.Digest.Blake3["length"] != 16 {
		t.Errorf("Expected default blake3 length 16, got %v", cfg.Digest.Blake3["length"])
	}
	if cfg.Metrics.Listen != "localhost:9464" {
		t.Errorf("Expected default metrics listen 'localhost:9464', got %q", cfg.Metrics.Listen)
	}
	if cfg.Import.Xattrs {
		t.Error("Expected import.xattrs to default to false")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "error", Format: "json", Output: "stderr"},
		Digest:  DigestConfig{Type: "none"},
		Metrics: MetricsConfig{Enabled: true, Listen: "0.0.0.0:9000"},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected normalized level 'ERROR', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json' preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected output 'stderr' preserved, got %q", cfg.Logging.Output)
	}
	if cfg.Digest.Type != "none" {
		t.Errorf("Expected digest type 'none' preserved, got %q", cfg.Digest.Type)
	}
	if cfg.Metrics.Listen != "0.0.0.0:9000" {
		t.Errorf("Expected listen '0.0.0.0:9000' preserved, got %q", cfg.Metrics.Listen)
	}
}

func TestGetDefaultConfig_Validates(t *testing.T) {
	cfg := GetDefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Default config must validate, got: %v", err)
	}
}
