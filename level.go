// FILE: lixenwraith/tierlog/level.go
package tierlog

import (
	"strconv"
	"strings"
)

// Level is a record severity. Levels are totally ordered: DEBUG < INFO < WARNING < ERROR < CRITICAL.
type Level int64

// Severity levels
const (
	LevelDebug    Level = -4
	LevelInfo     Level = 0
	LevelWarn     Level = 4
	LevelError    Level = 8
	LevelCritical Level = 12
)

// Legacy numeric levels, accepted for compatibility and flagged as deprecated
const (
	legacyDebug    = 10
	legacyInfo     = 20
	legacyWarn     = 30
	legacyError    = 40
	legacyCritical = 50
)

// String returns the upper-case level name used in records
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "LEVEL(" + strconv.FormatInt(int64(l), 10) + ")"
	}
}

// Next returns the next higher severity, or l itself for CRITICAL
func (l Level) Next() Level {
	if l >= LevelCritical {
		return LevelCritical
	}
	return l + 4
}

// ParseLevel converts a level name to a Level.
// Legacy numeric values (10, 20, 30, 40, 50) are accepted and reported through the
// second return value so callers can emit a deprecation warning.
func ParseLevel(s string) (Level, bool, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "debug":
		return LevelDebug, false, nil
	case "info":
		return LevelInfo, false, nil
	case "warn", "warning":
		return LevelWarn, false, nil
	case "error":
		return LevelError, false, nil
	case "critical", "fatal":
		return LevelCritical, false, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmtErrorf("invalid level string: '%s' (use DEBUG, INFO, WARNING, ERROR, CRITICAL)", s)
	}
	lvl, err := LevelFromLegacy(n)
	if err != nil {
		return 0, false, err
	}
	return lvl, true, nil
}

// LevelFromLegacy maps the traditional numeric severities to a Level
func LevelFromLegacy(n int) (Level, error) {
	switch n {
	case legacyDebug:
		return LevelDebug, nil
	case legacyInfo:
		return LevelInfo, nil
	case legacyWarn:
		return LevelWarn, nil
	case legacyError:
		return LevelError, nil
	case legacyCritical:
		return LevelCritical, nil
	default:
		return 0, fmtErrorf("invalid numeric level: %d (use 10, 20, 30, 40 or 50)", n)
	}
}
