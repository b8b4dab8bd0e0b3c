// FILE: lixenwraith/tierlog/default.go
package tierlog

// Global registry for package-level functions
var defaultRegistry = NewRegistry()

// Default package-level functions that delegate to the default registry

// Init returns the logger for cfg.Name from the default registry, building it on first use
func Init(cfg *Config, opts ...Option) (*Logger, error) {
	return defaultRegistry.Init(cfg, opts...)
}

// InitWithDefaults initializes a logger from built-in defaults and "key=value" overrides
func InitWithDefaults(overrides ...string) (*Logger, error) {
	cfg := DefaultConfig()
	if err := ApplyOverride(cfg, overrides...); err != nil {
		return nil, newSetupError(cfg.Name, err)
	}
	return defaultRegistry.Init(cfg)
}

// Get returns a logger of the default registry by name
func Get(name string) (*Logger, bool) {
	return defaultRegistry.Get(name)
}

// Shutdown closes every logger of the default registry
func Shutdown() error {
	return defaultRegistry.Shutdown()
}
