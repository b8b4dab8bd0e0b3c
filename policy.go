// FILE: lixenwraith/tierlog/policy.go
package tierlog

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Mode selects which condition triggers a rotation
type Mode int

const (
	ModeSize Mode = iota + 1
	ModeTime
	// ModeSizeOrTime rotates when either condition holds. Experimental.
	ModeSizeOrTime
)

func (m Mode) String() string {
	switch m {
	case ModeSize:
		return "size"
	case ModeTime:
		return "time"
	case ModeSizeOrTime:
		return "size_or_time"
	default:
		return "unknown"
	}
}

func (m Mode) hasSize() bool { return m == ModeSize || m == ModeSizeOrTime }
func (m Mode) hasTime() bool { return m == ModeTime || m == ModeSizeOrTime }

// ParseMode converts a rotation_mode value to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "size":
		return ModeSize, nil
	case "time":
		return ModeTime, nil
	case "size_or_time", "sizeortime", "timeandsize", "sizeandtime":
		return ModeSizeOrTime, nil
	default:
		return 0, fmtErrorf("invalid rotation mode: '%s' (use size, time or size_or_time)", s)
	}
}

// TimeUnit is the unit of the rotation interval
type TimeUnit int

const (
	UnitSecond TimeUnit = iota + 1
	UnitMinute
	UnitHour
	UnitDay
	// UnitMidnight is a day unit whose first boundary is the next midnight
	UnitMidnight
)

func (u TimeUnit) String() string {
	switch u {
	case UnitSecond:
		return "second"
	case UnitMinute:
		return "minute"
	case UnitHour:
		return "hour"
	case UnitDay:
		return "day"
	case UnitMidnight:
		return "midnight"
	default:
		return "unknown"
	}
}

// ParseTimeUnit converts a rotate_when value to a TimeUnit
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "second", "seconds":
		return UnitSecond, nil
	case "m", "minute", "minutes":
		return UnitMinute, nil
	case "h", "hour", "hours":
		return UnitHour, nil
	case "d", "day", "days":
		return UnitDay, nil
	case "midnight":
		return UnitMidnight, nil
	default:
		return 0, fmtErrorf("invalid rotation unit: '%s' (use second, minute, hour, day or midnight)", s)
	}
}

func (u TimeUnit) duration() time.Duration {
	switch u {
	case UnitSecond:
		return time.Second
	case UnitMinute:
		return time.Minute
	case UnitHour:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// suffixLayout is the archive timestamp layout, truncated to the unit's resolution
func (u TimeUnit) suffixLayout() string {
	switch u {
	case UnitSecond:
		return "2006-01-02_15-04-05"
	case UnitMinute:
		return "2006-01-02_15-04"
	case UnitHour:
		return "2006-01-02_15"
	default:
		return "2006-01-02"
	}
}

// Policy decides, per record, whether a file stream must be rolled over.
// It is immutable after construction and shared read-only by every sink.
type Policy struct {
	Mode     Mode
	MaxBytes int64
	Unit     TimeUnit
	Interval int
	UTC      bool
}

// SinkState is the view of a sink the policy decides on
type SinkState struct {
	Path         string
	Size         int64
	NextRotation time.Time
}

// Validate checks the invariants of the selected mode
func (p Policy) Validate() error {
	var errs []error
	switch p.Mode {
	case ModeSize, ModeTime, ModeSizeOrTime:
	default:
		errs = append(errs, &ConfigError{Key: "rotation_mode", Msg: "unknown mode"})
	}
	if p.Mode.hasSize() && p.MaxBytes <= 0 {
		errs = append(errs, &ConfigError{Key: "max_bytes", Msg: "must be positive for " + p.Mode.String() + " rotation"})
	}
	if p.Mode.hasTime() {
		validUnit := p.Unit >= UnitSecond && p.Unit <= UnitMidnight
		if !validUnit {
			errs = append(errs, &ConfigError{Key: "rotate_when", Msg: "unknown time unit"})
		}
		switch {
		case p.Interval <= 0:
			errs = append(errs, &ConfigError{Key: "rotate_interval", Msg: "must be positive for " + p.Mode.String() + " rotation"})
		case validUnit && int64(p.Interval) > math.MaxInt64/int64(p.Unit.duration()):
			errs = append(errs, &ConfigError{Key: "rotate_interval", Msg: "too large for unit " + p.Unit.String()})
		}
	}
	return errors.Join(errs...)
}

// ShouldRotate reports whether the sink must be rotated before appending n bytes at now.
// The size check counts the pending record, so a file never reaches MaxBytes unless a
// single record is larger than MaxBytes; such a record is still written after rotation.
func (p Policy) ShouldRotate(st SinkState, n int64, now time.Time) bool {
	if p.Mode.hasSize() && p.MaxBytes > 0 && st.Size+n >= p.MaxBytes {
		return true
	}
	if p.Mode.hasTime() && !st.NextRotation.IsZero() && !now.Before(st.NextRotation) {
		return true
	}
	return false
}

// FirstRotation returns the first boundary for a stream whose period started at base
func (p Policy) FirstRotation(base time.Time) time.Time {
	if !p.Mode.hasTime() {
		return time.Time{}
	}
	base = p.zone(base)
	if p.Unit == UnitMidnight {
		y, m, d := base.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, base.Location())
		return midnight.AddDate(0, 0, p.Interval)
	}
	return p.advance(base)
}

// NextRotation returns the boundary following prev, skipping whole periods that already
// elapsed by now. Boundaries stay aligned to the first one, so late writes do not drift.
func (p Policy) NextRotation(prev, now time.Time) time.Time {
	if !p.Mode.hasTime() || p.Interval <= 0 {
		return time.Time{}
	}
	next := p.advance(p.zone(prev))
	if next.After(now) {
		return next
	}

	period := p.period()
	elapsed := now.Sub(next)
	if !p.calendar() {
		return next.Add((elapsed/period + 1) * period)
	}

	// Calendar days vary by an hour around DST changes; jump to one period short, then step
	if skip := int(elapsed / period); skip > 1 {
		next = next.AddDate(0, 0, (skip-1)*p.Interval)
	}
	for !next.After(now) {
		next = p.advance(next)
	}
	return next
}

// periodStart returns the start of the period that ends at boundary
func (p Policy) periodStart(boundary time.Time) time.Time {
	boundary = p.zone(boundary)
	if p.calendar() {
		return boundary.AddDate(0, 0, -p.Interval)
	}
	return boundary.Add(-p.period())
}

// calendar reports whether periods are counted in calendar days rather than fixed durations
func (p Policy) calendar() bool {
	return p.Unit == UnitMidnight || p.Unit == UnitDay
}

func (p Policy) advance(t time.Time) time.Time {
	if p.calendar() {
		return t.AddDate(0, 0, p.Interval)
	}
	return t.Add(p.period())
}

func (p Policy) period() time.Duration {
	return time.Duration(p.Interval) * p.Unit.duration()
}

func (p Policy) zone(t time.Time) time.Time {
	if p.UTC {
		return t.UTC()
	}
	return t.Local()
}
