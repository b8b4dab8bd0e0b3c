// FILE: lixenwraith/tierlog/compat/gnet.go
package compat

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/tierlog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps a tierlog.Logger to implement the gnet logging.Logger interface.
// Records are attributed to the gnet call site, not to the adapter.
type GnetAdapter struct {
	logger       *tierlog.Logger
	prefix       string
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *tierlog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		prefix: "gnet: ",
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetPrefix replaces the "gnet: " message prefix
func WithGnetPrefix(prefix string) GnetOption {
	return func(a *GnetAdapter) {
		a.prefix = prefix
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.output(tierlog.LevelDebug, format, args)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.output(tierlog.LevelInfo, format, args)
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.output(tierlog.LevelWarn, format, args)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.output(tierlog.LevelError, format, args)
}

// Fatalf logs at critical level, which alerts when enabled, then triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := a.output(tierlog.LevelCritical, format, args)

	// Ensure the record is on disk before exit
	_ = a.logger.Flush()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

// output emits through Logger.Output; failures are counted in the logger's Stats
func (a *GnetAdapter) output(level tierlog.Level, format string, args []any) string {
	msg := fmt.Sprintf(format, args...)
	// Frames above Output: output, the adapter method, gnet
	_ = a.logger.Output(3, level, a.prefix+msg)
	return msg
}
