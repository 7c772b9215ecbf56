package config

import (
	"testing"
)

func TestCreateDigester_Blake3(t *testing.T) {
	cfg := &DigestConfig{
		Type:   "blake3",
		Blake3: map[string]any{"length": 8},
	}

	digester, err := CreateDigester(cfg)
	if err != nil {
		t.Fatalf("Failed to create digester: %v", err)
	}
	if digester == nil {
		t.Fatal("Expected digester, got nil")
	}

	sum := digester.Sum([]byte("hello"))
	if len(sum) != 16 { // 8 bytes hex-encoded
		t.Errorf("Expected 16 hex chars, got %d (%q)", len(sum), sum)
	}
	if sum != digester.Sum([]byte("hello")) {
		t.Error("Expected deterministic digests")
	}
}

func TestCreateDigester_Blake3DefaultLength(t *testing.T) {
	cfg := &DigestConfig{Type: "blake3", Blake3: map[string]any{}}

	digester, err := CreateDigester(cfg)
	if err != nil {
		t.Fatalf("Failed to create digester: %v", err)
	}

	sum := digester.Sum([]byte("hello"))
	if len(sum) != 32 { // 16 bytes hex-encoded
		t.Errorf("Expected 32 hex chars, got %d", len(sum))
	}
}

func TestCreateDigester_Blake3InvalidLength(t *testing.T) {
	cfg := &DigestConfig{
		Type:   "blake3",
		Blake3: map[string]any{"length": 64},
	}

	if _, err := CreateDigester(cfg); err == nil {
		t.Fatal("Expected error for out-of-range digest length")
	}
}

func TestCreateDigester_None(t *testing.T) {
	digester, err := CreateDigester(&DigestConfig{Type: "none"})
	if err != nil {
		t.Fatalf("Expected no error for 'none', got: %v", err)
	}
	if digester != nil {
		t.Error("Expected nil digester for 'none'")
	}
}

func TestCreateDigester_UnknownType(t *testing.T) {
	if _, err := CreateDigester(&DigestConfig{Type: "sha1"}); err == nil {
		t.Fatal("Expected error for unknown digest type")
	}
}
