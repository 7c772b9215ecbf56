package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/sendfs/pkg/fs"
)

// CreateDigester creates a digester based on configuration.
//
// This factory function uses the Type field to determine which digester
// implementation to create, then decodes the type-specific configuration
// from the corresponding map and passes it to the constructor.
//
// Supported types:
//   - "blake3": BLAKE3 content digests (pkg/fs)
//   - "none": digests disabled, returns (nil, nil)
//
// Returns:
//   - fs.Digester: Initialized digester, or nil when disabled
//   - error: Configuration or initialization error
func CreateDigester(cfg *DigestConfig) (fs.Digester, error) {
	switch cfg.Type {
	case "blake3":
		return createBlake3Digester(cfg.Blake3)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown digest type: %q", cfg.Type)
	}
}

// createBlake3Digester creates a BLAKE3 digester from its option map.
func createBlake3Digester(options map[string]any) (fs.Digester, error) {
	type Blake3DigestConfig struct {
		Length int `mapstructure:"length"`
	}

	var digestCfg Blake3DigestConfig
	if err := mapstructure.Decode(options, &digestCfg); err != nil {
		return nil, fmt.Errorf("failed to decode blake3 digest config: %w", err)
	}

	if digestCfg.Length == 0 {
		digestCfg.Length = 16
	}

	digester, err := fs.NewBlake3Digester(digestCfg.Length)
	if err != nil {
		return nil, fmt.Errorf("failed to create blake3 digester: %w", err)
	}

	return digester, nil
}
