// Package metrics provides Prometheus metrics collection for sendfs
// components.
//
// All metrics are optional - if the registry is not initialized, components
// use no-op implementations that have zero overhead. This allows sendfs to
// run with or without metrics collection enabled.
//
// Usage:
//
//	// Initialize global registry (typically in main.go)
//	metrics.InitRegistry()
//
//	// Create metrics instances for components
//	interpreterMetrics := metrics.NewInterpreterMetrics()
//
//	// Or use nil for no-op behavior
//	ledger := sendstream.NewSubvols(nil) // No metrics
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry for all sendfs metrics.
	// Protected by registryOnce for write-once, read-many access.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry.
//
// This must be called before creating any metrics instances. It's safe to
// call multiple times - subsequent calls are ignored.
//
// If not called, GetRegistry() returns nil and all metrics constructors
// return no-op implementations.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global Prometheus registry, or nil if metrics are
// disabled (InitRegistry never called).
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether the global registry has been initialized.
func IsEnabled() bool {
	return registry != nil
}
