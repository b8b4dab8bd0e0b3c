// FILE: lixenwraith/tierlog/errors.go
package tierlog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfig matches every ConfigError via errors.Is
	ErrInvalidConfig = errors.New("tierlog: invalid configuration")
	// ErrAlertRateLimited is returned when an alert is suppressed by mail_rate_per_min
	ErrAlertRateLimited = errors.New("tierlog: alert rate limit exceeded")
	// ErrLoggerClosed is returned by Log after Close
	ErrLoggerClosed = errors.New("tierlog: logger closed")
)

// ConfigError reports an invalid option or option combination
type ConfigError struct {
	Key string
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tierlog: invalid %s: %s", e.Key, e.Msg)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// DirectoryError reports a failure to create the log directory tree
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("tierlog: unable to create log directory '%s': %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// RotationError reports a failed archive rename, prune or reopen.
// It never reaches the caller of an emit method; the record is still written.
type RotationError struct {
	Sink string
	Op   string
	Path string
	Err  error
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("tierlog: %s sink rotation failed (%s '%s'): %v", e.Sink, e.Op, e.Path, e.Err)
}

func (e *RotationError) Unwrap() error { return e.Err }

// AlertError reports a mail transport, authentication or delivery failure
type AlertError struct {
	Op  string
	Err error
}

func (e *AlertError) Error() string {
	return fmt.Sprintf("tierlog: alert %s failed: %v", e.Op, e.Err)
}

func (e *AlertError) Unwrap() error { return e.Err }

// WriteError reports a failed append to a file sink
type WriteError struct {
	Sink string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("tierlog: %s sink write to '%s' failed: %v", e.Sink, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// SetupError aggregates every failure that aborted logger initialization
type SetupError struct {
	Name string
	Errs []error
}

func (e *SetupError) Error() string {
	if len(e.Errs) == 1 {
		return fmt.Sprintf("tierlog: setup of logger '%s' failed: %s", e.Name, trimPrefix(e.Errs[0].Error()))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "tierlog: setup of logger '%s' failed with %d errors:", e.Name, len(e.Errs))
	for i, err := range e.Errs {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, trimPrefix(err.Error()))
	}
	return sb.String()
}

func (e *SetupError) Unwrap() []error { return e.Errs }

// newSetupError flattens joined errors so each cause is listed once
func newSetupError(name string, errs ...error) *SetupError {
	se := &SetupError{Name: name}
	for _, err := range errs {
		se.Errs = append(se.Errs, flatten(err)...)
	}
	return se
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*SetupError); ok {
		return se.Errs
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// WarningKind classifies a non-fatal advisory
type WarningKind int

const (
	// WarnDeprecated flags legacy usage such as numeric levels
	WarnDeprecated WarningKind = iota + 1
	// WarnExperimental flags the hybrid size-or-time rotation mode
	WarnExperimental
)

func (k WarningKind) String() string {
	switch k {
	case WarnDeprecated:
		return "deprecated"
	case WarnExperimental:
		return "experimental"
	default:
		return "warning"
	}
}

// Warning is a non-fatal configuration advisory
type Warning struct {
	Kind WarningKind
	Msg  string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Msg
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "tierlog: ") {
		format = "tierlog: " + format
	}
	return fmt.Errorf(format, args...)
}

func trimPrefix(msg string) string {
	return strings.TrimPrefix(msg, "tierlog: ")
}
