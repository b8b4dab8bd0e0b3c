// FILE: lixenwraith/tierlog/level_test.go
package tierlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   Level
		legacy bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warning ", LevelWarn, false},
		{"warn", LevelWarn, false},
		{"Error", LevelError, false},
		{"CRITICAL", LevelCritical, false},
		{"10", LevelDebug, true},
		{"20", LevelInfo, true},
		{"30", LevelWarn, true},
		{"40", LevelError, true},
		{"50", LevelCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, legacy, err := ParseLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.legacy, legacy)
		})
	}

	for _, bad := range []string{"", "verbose", "15", "-4"} {
		_, _, err := ParseLevel(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestLevelOrderAndNames(t *testing.T) {
	levels := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCritical}
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i])
		assert.Equal(t, levels[i], levels[i-1].Next())
	}
	assert.Equal(t, LevelCritical, LevelCritical.Next())

	assert.Equal(t, "WARNING", LevelWarn.String())
	assert.Equal(t, "CRITICAL", LevelCritical.String())
	assert.Equal(t, "LEVEL(3)", Level(3).String())
}
