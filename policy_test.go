// FILE: lixenwraith/tierlog/policy_test.go
package tierlog

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func TestShouldRotateSize(t *testing.T) {
	p := Policy{Mode: ModeSize, MaxBytes: 100}

	assert.False(t, p.ShouldRotate(SinkState{Size: 0}, 99, t0))
	assert.False(t, p.ShouldRotate(SinkState{Size: 84}, 15, t0))
	assert.True(t, p.ShouldRotate(SinkState{Size: 85}, 15, t0), "size + n reaching the bound rotates")
	assert.True(t, p.ShouldRotate(SinkState{Size: 90}, 15, t0))
	assert.True(t, p.ShouldRotate(SinkState{Size: 0}, 150, t0), "an oversized record rotates even an empty file")

	// Time state is ignored in size mode
	assert.False(t, p.ShouldRotate(SinkState{Size: 1, NextRotation: t0.Add(-time.Hour)}, 1, t0))
}

func TestShouldRotateTime(t *testing.T) {
	p := Policy{Mode: ModeTime, Unit: UnitMinute, Interval: 5, UTC: true}
	st := SinkState{Size: 1 << 40, NextRotation: t0.Add(5 * time.Minute)}

	assert.False(t, p.ShouldRotate(st, 1<<20, t0), "size is ignored in time mode")
	assert.False(t, p.ShouldRotate(st, 1, t0.Add(5*time.Minute-time.Nanosecond)))
	assert.True(t, p.ShouldRotate(st, 1, t0.Add(5*time.Minute)))
	assert.True(t, p.ShouldRotate(st, 1, t0.Add(time.Hour)))
}

func TestShouldRotateSizeOrTime(t *testing.T) {
	p := Policy{Mode: ModeSizeOrTime, MaxBytes: 100, Unit: UnitHour, Interval: 1, UTC: true}
	next := t0.Add(time.Hour)

	assert.False(t, p.ShouldRotate(SinkState{Size: 10, NextRotation: next}, 10, t0))
	assert.True(t, p.ShouldRotate(SinkState{Size: 95, NextRotation: next}, 10, t0), "size alone")
	assert.True(t, p.ShouldRotate(SinkState{Size: 10, NextRotation: next}, 10, next), "time alone")
}

func TestBoundaryAlignment(t *testing.T) {
	p := Policy{Mode: ModeTime, Unit: UnitSecond, Interval: 10, UTC: true}

	first := p.FirstRotation(t0)
	assert.True(t, first.Equal(t0.Add(10*time.Second)))

	// A late write still lands on the grid: next is T0+2I, not now+I
	next := p.NextRotation(first, t0.Add(13*time.Second))
	assert.True(t, next.Equal(t0.Add(20*time.Second)), "got %v", next)

	// Whole elapsed periods are skipped
	next = p.NextRotation(first, t0.Add(47*time.Second))
	assert.True(t, next.Equal(t0.Add(50*time.Second)), "got %v", next)

	// Exactly on a boundary moves past it
	next = p.NextRotation(first, t0.Add(20*time.Second))
	assert.True(t, next.Equal(t0.Add(30*time.Second)), "got %v", next)
}

func TestDayAndMidnightUnits(t *testing.T) {
	day := Policy{Mode: ModeTime, Unit: UnitDay, Interval: 2, UTC: true}
	assert.True(t, day.FirstRotation(t0).Equal(t0.AddDate(0, 0, 2)))
	assert.True(t, day.periodStart(t0.AddDate(0, 0, 2)).Equal(t0))

	midnight := Policy{Mode: ModeTime, Unit: UnitMidnight, Interval: 1, UTC: true}
	first := midnight.FirstRotation(t0)
	assert.True(t, first.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)), "got %v", first)

	next := midnight.NextRotation(first, first.Add(time.Minute))
	assert.True(t, next.Equal(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)), "got %v", next)
}

func TestFirstRotationSizeModeIsZero(t *testing.T) {
	p := Policy{Mode: ModeSize, MaxBytes: 10}
	assert.True(t, p.FirstRotation(t0).IsZero())
	assert.True(t, p.NextRotation(t0, t0).IsZero())
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, Policy{Mode: ModeSize, MaxBytes: 1}.Validate())
	require.NoError(t, Policy{Mode: ModeTime, Unit: UnitDay, Interval: 1}.Validate())

	err := Policy{Mode: ModeSizeOrTime}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "max_bytes")
	assert.Contains(t, err.Error(), "rotate_interval")

	// Unused options are not checked
	require.NoError(t, Policy{Mode: ModeTime, Unit: UnitHour, Interval: 3, MaxBytes: -1}.Validate())
	require.NoError(t, Policy{Mode: ModeSize, MaxBytes: 5, Interval: -1}.Validate())
}

func TestPolicyValidateIntervalOverflow(t *testing.T) {
	maxHours := int(math.MaxInt64 / int64(time.Hour))
	require.NoError(t, Policy{Mode: ModeTime, Unit: UnitHour, Interval: maxHours}.Validate())

	for _, p := range []Policy{
		{Mode: ModeTime, Unit: UnitSecond, Interval: 10_000_000_000},
		{Mode: ModeTime, Unit: UnitHour, Interval: maxHours + 1},
		{Mode: ModeSizeOrTime, MaxBytes: 10, Unit: UnitDay, Interval: 200_000},
	} {
		err := p.Validate()
		require.Error(t, err, "%s x %d", p.Unit, p.Interval)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.Contains(t, err.Error(), "rotate_interval")
	}

	cfg := DefaultConfig()
	cfg.RotationMode = "time"
	cfg.RotateWhen = "second"
	cfg.RotateInterval = 10_000_000_000
	assert.Equal(t, []string{"rotate_interval"}, configErrorKeys(cfg.Validate()))
}

func TestNextRotationSkipsLongGaps(t *testing.T) {
	p := Policy{Mode: ModeTime, Unit: UnitSecond, Interval: 7, UTC: true}
	prev := t0.AddDate(-1, 0, 0)
	now := t0.Add(500 * time.Millisecond)

	next := p.NextRotation(prev, now)
	assert.True(t, next.After(now), "got %v", next)
	assert.False(t, next.Add(-7*time.Second).After(now), "got %v", next)
	assert.Zero(t, next.Sub(prev)%(7*time.Second), "boundary left the grid: %v", next)

	day := Policy{Mode: ModeTime, Unit: UnitDay, Interval: 1, UTC: true}
	next = day.NextRotation(t0.AddDate(-3, 0, 0), t0.Add(time.Hour))
	assert.True(t, next.Equal(t0.AddDate(0, 0, 1)), "got %v", next)

	midnight := Policy{Mode: ModeTime, Unit: UnitMidnight, Interval: 2, UTC: true}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// 2026-03-14 is 803 days after base, so the two-day grid ends on the 15th
	next = midnight.NextRotation(base, time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC))
	assert.True(t, next.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)), "got %v", next)
}

func TestParseModeAndUnit(t *testing.T) {
	for in, want := range map[string]Mode{"size": ModeSize, "TIME": ModeTime, "size_or_time": ModeSizeOrTime, "timeandsize": ModeSizeOrTime} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("weekly")
	assert.Error(t, err)

	for in, want := range map[string]TimeUnit{"s": UnitSecond, "minute": UnitMinute, "H": UnitHour, "days": UnitDay, "midnight": UnitMidnight} {
		got, err := ParseTimeUnit(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = ParseTimeUnit("week")
	assert.Error(t, err)
}
