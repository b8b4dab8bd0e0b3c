// FILE: lixenwraith/tierlog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/tierlog"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps a tierlog.Logger to implement the fasthttp Logger interface
type FastHTTPAdapter struct {
	logger        *tierlog.Logger
	prefix        string
	defaultLevel  tierlog.Level
	levelDetector func(string) (tierlog.Level, bool) // Detect the level from message content
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *tierlog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		prefix:        "fasthttp: ",
		defaultLevel:  tierlog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level of Printf calls the detector does not classify
func WithDefaultLevel(level tierlog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect the level from message content.
// A nil detector logs everything at the default level.
func WithLevelDetector(detector func(string) (tierlog.Level, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// WithFastHTTPPrefix replaces the "fasthttp: " message prefix
func WithFastHTTPPrefix(prefix string) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.prefix = prefix
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected, ok := a.levelDetector(msg); ok {
			level = detected
		}
	}

	_ = a.logger.Output(2, level, a.prefix+msg)
}

// DetectLogLevel classifies a message by keywords; ok is false when nothing matched
func DetectLogLevel(msg string) (tierlog.Level, bool) {
	msgLower := strings.ToLower(msg)

	if strings.Contains(msgLower, "panic") ||
		strings.Contains(msgLower, "fatal") {
		return tierlog.LevelCritical, true
	}

	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") {
		return tierlog.LevelError, true
	}

	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return tierlog.LevelWarn, true
	}

	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return tierlog.LevelDebug, true
	}

	return 0, false
}
