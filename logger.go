// FILE: lixenwraith/tierlog/logger.go
package tierlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is one named logger: a severity-routed set of rotating files, an optional
// console mirror and an optional CRITICAL alert channel. All methods are safe for concurrent use.
type Logger struct {
	name     string
	cfg      *Config
	minLevel atomic.Int64
	sinks    *SinkSet
	state    *state
	clock    func() time.Time
	pid      int

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
	registry  *Registry

	onError   func(error)
	onWarning func(Warning)
}

// Option customizes logger construction
type Option func(*options)

type options struct {
	clock     func() time.Time
	transport MailTransport
	console   io.Writer
	onError   func(error)
	onWarning func(Warning)
}

// WithClock replaces time.Now as the source of record timestamps and rotation decisions
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithMailTransport replaces the SMTP transport used for alerts and credential checks
func WithMailTransport(t MailTransport) Option {
	return func(o *options) { o.transport = t }
}

// WithConsole replaces the console_target stream of the console mirror
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithErrorHandler receives errors that emit methods without an error return cannot report,
// and every RotationError
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithWarningHandler receives configuration advisories
func WithWarningHandler(fn func(Warning)) Option {
	return func(o *options) { o.onWarning = fn }
}

// newLogger wires a logger from a validated configuration.
// On failure every opened file is closed and a *SetupError is returned.
func newLogger(cfg *Config, opts ...Option) (*Logger, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logger{
		name:  cfg.Name,
		cfg:   cfg.Clone(),
		state: &state{},
		clock: o.clock,
		pid:   os.Getpid(),
	}
	l.state.startTime = l.clock()
	l.minLevel.Store(int64(cfg.level()))
	l.onError = o.onError
	if l.onError == nil {
		l.onError = l.defaultErrorHandler
	}
	l.onWarning = o.onWarning
	if l.onWarning == nil {
		l.onWarning = l.defaultWarningHandler
	}

	for _, w := range cfg.Warnings() {
		l.onWarning(w)
	}

	sinks, err := l.build(cfg, o)
	if err != nil {
		return nil, newSetupError(cfg.Name, err)
	}
	l.sinks = sinks
	return l, nil
}

// build performs every I/O step of initialization in order: credential check,
// directory bootstrap, file opening
func (l *Logger) build(cfg *Config, o options) (*SinkSet, error) {
	policy, err := cfg.policy()
	if err != nil {
		return nil, err
	}
	formatter, err := newFormatter(cfg)
	if err != nil {
		return nil, err
	}
	encoder, err := resolveEncoding(cfg.TextEncoding)
	if err != nil {
		return nil, &ConfigError{Key: "text_encoding", Msg: trimPrefix(err.Error())}
	}

	set := &SinkSet{formatter: formatter, encoder: encoder, state: l.state}

	if cfg.AlertingEnabled {
		transport := o.transport
		if transport == nil {
			smtpTransport, err := newSMTPTransport(cfg)
			if err != nil {
				return nil, err
			}
			transport = smtpTransport
		}
		set.alert = newAlertChannel(cfg, transport, l.state)
		if cfg.VerifyCredentials {
			if err := set.alert.Verify(); err != nil {
				return nil, err
			}
		}
	}

	root, err := prepareDirectories(cfg.Directory, cfg.Name)
	if err != nil {
		return nil, err
	}

	sinkOpts := sinkOptions{
		policy:   policy,
		retain:   int(cfg.RetainCount),
		truncate: cfg.AppendMode == AppendModeTruncate,
		state:    l.state,
		diag:     l.onError,
	}
	for _, t := range tiers {
		set.files = append(set.files, newFileSink(root, t, cfg.Name, sinkOpts))
	}

	if !cfg.OpenDelay {
		now := l.clock()
		for _, f := range set.files {
			f.mu.Lock()
			err := f.open(now)
			f.mu.Unlock()
			if err != nil {
				return nil, errors.Join(&WriteError{Sink: f.name, Path: f.path, Err: err}, set.Close())
			}
		}
	}

	if cfg.ConsoleEnabled {
		w := o.console
		if w == nil {
			w = os.Stdout
			if cfg.ConsoleTarget == ConsoleStderr {
				w = os.Stderr
			}
		}
		set.console = &consoleSink{w: w}
	}
	return set, nil
}

// prepareDirectories creates {dir}/{name} and one subdirectory per severity tier
func prepareDirectories(dir, name string) (string, error) {
	root := filepath.Join(dir, name)
	for _, t := range tiers {
		path := filepath.Join(root, t.dir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", &DirectoryError{Path: path, Err: err}
		}
	}
	return root, nil
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Config returns a copy of the configuration the logger was built from
func (l *Logger) Config() *Config {
	cfg := l.cfg.Clone()
	cfg.MinimumLevel = l.Level().String()
	return cfg
}

// Level returns the current minimum level
func (l *Logger) Level() Level {
	return Level(l.minLevel.Load())
}

// SetLevel changes the minimum level
func (l *Logger) SetLevel(level Level) {
	l.minLevel.Store(int64(level))
}

// Enabled reports whether a record at level would be emitted
func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level() && !l.closed.Load()
}

// Debug logs a message at debug level
func (l *Logger) Debug(args ...any) {
	l.report(l.log(callerSkip, LevelDebug, args))
}

// Info logs a message at info level
func (l *Logger) Info(args ...any) {
	l.report(l.log(callerSkip, LevelInfo, args))
}

// Warn logs a message at warning level
func (l *Logger) Warn(args ...any) {
	l.report(l.log(callerSkip, LevelWarn, args))
}

// Error logs a message at error level
func (l *Logger) Error(args ...any) {
	l.report(l.log(callerSkip, LevelError, args))
}

// Critical logs a message at critical level and sends an alert when alerting is enabled
func (l *Logger) Critical(args ...any) {
	l.report(l.log(callerSkip, LevelCritical, args))
}

// Debugf logs a formatted message at debug level
func (l *Logger) Debugf(format string, args ...any) {
	l.report(l.logf(callerSkip, LevelDebug, format, args))
}

// Infof logs a formatted message at info level
func (l *Logger) Infof(format string, args ...any) {
	l.report(l.logf(callerSkip, LevelInfo, format, args))
}

// Warnf logs a formatted message at warning level
func (l *Logger) Warnf(format string, args ...any) {
	l.report(l.logf(callerSkip, LevelWarn, format, args))
}

// Errorf logs a formatted message at error level
func (l *Logger) Errorf(format string, args ...any) {
	l.report(l.logf(callerSkip, LevelError, format, args))
}

// Criticalf logs a formatted message at critical level
func (l *Logger) Criticalf(format string, args ...any) {
	l.report(l.logf(callerSkip, LevelCritical, format, args))
}

// Log emits at an arbitrary level and returns the joined write and alert errors
// instead of passing them to the error handler
func (l *Logger) Log(level Level, args ...any) error {
	return l.log(callerSkip, level, args)
}

// Output emits a preformatted message. calldepth counts frames above Output,
// so 1 attributes the record to the direct caller of Output.
func (l *Logger) Output(calldepth int, level Level, msg string) error {
	if level < l.Level() {
		return nil
	}
	return l.dispatch(level, msg, callerLocation(calldepth+1))
}

func (l *Logger) log(skip int, level Level, args []any) error {
	if level < l.Level() {
		return nil
	}
	return l.dispatch(level, l.sinks.formatter.Message(args...), callerLocation(skip))
}

func (l *Logger) logf(skip int, level Level, format string, args []any) error {
	if level < l.Level() {
		return nil
	}
	return l.dispatch(level, fmt.Sprintf(format, args...), callerLocation(skip))
}

func (l *Logger) dispatch(level Level, msg string, loc Location) error {
	if l.closed.Load() {
		return ErrLoggerClosed
	}
	rec := Record{
		Time:     l.clock(),
		Level:    level,
		Message:  msg,
		Location: loc,
		Name:     l.name,
		PID:      l.pid,
	}
	l.state.records.Add(1)
	return l.sinks.Emit(rec)
}

func (l *Logger) report(err error) {
	if err != nil {
		l.onError(err)
	}
}

// Flush syncs every open file to disk
func (l *Logger) Flush() error {
	if l.closed.Load() {
		return ErrLoggerClosed
	}
	return l.sinks.Flush()
}

// Stats returns a snapshot of the logger counters
func (l *Logger) Stats() Stats {
	return l.state.snapshot(l.name, l.clock())
}

// Close flushes and closes every file and removes the logger from its registry.
// Safe to call more than once.
func (l *Logger) Close() error {
	l.shutdown()
	if l.registry != nil {
		l.registry.forget(l)
	}
	return l.closeErr
}

func (l *Logger) shutdown() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		l.closeErr = l.sinks.Close()
	})
}

// defaultErrorHandler reports runtime errors through internalLog
func (l *Logger) defaultErrorHandler(err error) {
	var rotErr *RotationError
	if errors.As(err, &rotErr) {
		l.internalLog("warning - %s\n", trimPrefix(err.Error()))
		return
	}
	l.internalLog("error - %s\n", trimPrefix(err.Error()))
}

func (l *Logger) defaultWarningHandler(w Warning) {
	l.internalLog("%s\n", w)
}

// internalLog handles writing internal logger diagnostics to stderr, if enabled
func (l *Logger) internalLog(format string, args ...any) {
	if !l.cfg.InternalErrorsToStderr {
		return
	}
	fmt.Fprintf(os.Stderr, "tierlog: "+format, args...)
}
