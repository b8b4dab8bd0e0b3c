// FILE: lixenwraith/tierlog/archive_test.go
package tierlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArchiveSuffix(t *testing.T) {
	a, ok := parseArchiveSuffix("12")
	require.True(t, ok)
	assert.Equal(t, 12, a.index)

	a, ok = parseArchiveSuffix("2026-03-14_10-30")
	require.True(t, ok)
	assert.True(t, a.stamp.Equal(time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, 0, a.tie)

	a, ok = parseArchiveSuffix("2026-03-14.2")
	require.True(t, ok)
	assert.Equal(t, 2, a.tie)

	for _, bad := range []string{"", "0", "01", "bak", "2026-03-14.x", "1.2", "2026-13-40"} {
		_, ok := parseArchiveSuffix(bad)
		assert.False(t, ok, "suffix %q", bad)
	}
}

func TestListArchivesOrder(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "svc.error")
	for _, name := range []string{"svc.error", "svc.error.10", "svc.error.2", "svc.error.9", "svc.error.tmp", "svc.info.1"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	archives, err := listArchives(active)
	require.NoError(t, err)
	require.Len(t, archives, 3)
	assert.Equal(t, []int{2, 9, 10}, []int{archives[0].index, archives[1].index, archives[2].index})
	assert.Equal(t, active+".11", nextIndexName(active, archives))
}

func TestListArchivesTimestampOrder(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "svc.info")
	for _, name := range []string{"svc.info.2026-03-15", "svc.info.2026-03-14.1", "svc.info.2026-03-14"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	archives, err := listArchives(active)
	require.NoError(t, err)
	require.Len(t, archives, 3)
	assert.Equal(t, filepath.Join(dir, "svc.info.2026-03-14"), archives[0].path)
	assert.Equal(t, filepath.Join(dir, "svc.info.2026-03-14.1"), archives[1].path)
	assert.Equal(t, filepath.Join(dir, "svc.info.2026-03-15"), archives[2].path)
}

func TestListArchivesMissingDir(t *testing.T) {
	archives, err := listArchives(filepath.Join(t.TempDir(), "missing", "svc.debug"))
	require.NoError(t, err)
	assert.Empty(t, archives)
}

func TestTimestampNameTiebreaker(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "svc.warn")
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	name := timestampName(active, start, UnitHour)
	assert.Equal(t, active+".2026-03-14_10", name)

	require.NoError(t, os.WriteFile(name, nil, 0644))
	assert.Equal(t, active+".2026-03-14_10.1", timestampName(active, start, UnitHour))

	require.NoError(t, os.WriteFile(active+".2026-03-14_10.1", nil, 0644))
	assert.Equal(t, active+".2026-03-14_10.2", timestampName(active, start, UnitHour))
}
