// FILE: lixenwraith/tierlog/registry.go
package tierlog

import (
	"errors"
	"sort"
	"sync"
)

// Registry maps logger names to live loggers so each name is wired exactly once.
// Tests create their own; package-level functions use a process-wide default.
type Registry struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{loggers: make(map[string]*Logger)}
}

// Init validates cfg and returns the logger registered under cfg.Name, building it on first use.
// A repeated Init for a live name attaches no new sinks; it only applies the new minimum level.
// Every failure is returned as a *SetupError; nothing is registered in that case.
func (r *Registry) Init(cfg *Config, opts ...Option) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, newSetupError(cfg.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.loggers[cfg.Name]; ok {
		for _, w := range cfg.Warnings() {
			existing.onWarning(w)
		}
		existing.SetLevel(cfg.level())
		return existing, nil
	}

	l, err := newLogger(cfg, opts...)
	if err != nil {
		return nil, err
	}
	l.registry = r
	r.loggers[cfg.Name] = l
	return l, nil
}

// Get returns the live logger registered under name
func (r *Registry) Get(name string) (*Logger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loggers[name]
	return l, ok
}

// Names returns the registered logger names, sorted
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shutdown closes every registered logger and empties the registry
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	loggers := r.loggers
	r.loggers = make(map[string]*Logger)
	r.mu.Unlock()

	var errs []error
	for _, l := range loggers {
		l.shutdown()
		if l.closeErr != nil {
			errs = append(errs, l.closeErr)
		}
	}
	return errors.Join(errs...)
}

// forget removes l if it is still the logger registered under its name
func (r *Registry) forget(l *Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loggers[l.name] == l {
		delete(r.loggers, l.name)
	}
}
