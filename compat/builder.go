// FILE: lixenwraith/tierlog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/tierlog"
)

// Builder provides a flexible way to create configured logger adapters for gnet and fasthttp.
// It can use an existing *tierlog.Logger or initialize one from a *tierlog.Config.
type Builder struct {
	logger   *tierlog.Logger
	cfg      *tierlog.Config
	registry *tierlog.Registry
	opts     []tierlog.Option
	err      error
}

// NewBuilder creates a new adapter builder using the default registry
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l *tierlog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("tierlog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides the configuration of the logger to initialize.
// It is used only if no logger was provided via WithLogger; without either the defaults apply.
func (b *Builder) WithConfig(cfg *tierlog.Config) *Builder {
	b.cfg = cfg
	return b
}

// WithRegistry selects the registry the logger is initialized in
func (b *Builder) WithRegistry(r *tierlog.Registry) *Builder {
	b.registry = r
	return b
}

// WithOptions passes construction options to the initialized logger
func (b *Builder) WithOptions(opts ...tierlog.Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// getLogger resolves the logger to be used, initializing one if necessary
func (b *Builder) getLogger() (*tierlog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.logger != nil {
		return b.logger, nil
	}

	cfg := b.cfg
	if cfg == nil {
		cfg = tierlog.DefaultConfig()
	}

	var l *tierlog.Logger
	var err error
	if b.registry != nil {
		l, err = b.registry.Init(cfg, b.opts...)
	} else {
		l, err = tierlog.Init(cfg, b.opts...)
	}
	if err != nil {
		return nil, err
	}

	// Cache the logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying logger, initializing it if needed
func (b *Builder) GetLogger() (*tierlog.Logger, error) {
	return b.getLogger()
}

// Example usage with a shared logger:
//
//	appLogger, err := tierlog.Init(cfg)
//	if err != nil { /* handle error */ }
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
