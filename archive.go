// FILE: lixenwraith/tierlog/archive.go
package tierlog

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// archive is one retired file of a sink, identified by its suffix
type archive struct {
	path    string
	index   int       // index suffix, 0 for timestamp archives
	stamp   time.Time // timestamp suffix, zero for index archives
	tie     int       // collision tiebreaker of a timestamp archive
	modTime time.Time
}

// archiveLayouts lists every timestamp layout an archive suffix may carry, most precise first
var archiveLayouts = []string{
	UnitSecond.suffixLayout(),
	UnitMinute.suffixLayout(),
	UnitHour.suffixLayout(),
	UnitDay.suffixLayout(),
}

// listArchives returns the archives of the active file at path, oldest first
func listArchives(path string) ([]archive, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmtErrorf("failed to read log directory '%s': %w", dir, err)
	}

	var archives []archive
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		a, ok := parseArchiveSuffix(strings.TrimPrefix(entry.Name(), prefix))
		if !ok {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		a.path = filepath.Join(dir, entry.Name())
		a.modTime = info.ModTime()
		archives = append(archives, a)
	}

	sort.Slice(archives, func(i, j int) bool { return archives[i].older(archives[j]) })
	return archives, nil
}

// parseArchiveSuffix recognizes "N", "<timestamp>" and "<timestamp>.N"
func parseArchiveSuffix(suffix string) (archive, bool) {
	if n, ok := parseIndex(suffix); ok {
		return archive{index: n}, true
	}

	stamp, tie := suffix, 0
	if i := strings.LastIndexByte(suffix, '.'); i > 0 {
		n, ok := parseIndex(suffix[i+1:])
		if !ok {
			return archive{}, false
		}
		stamp, tie = suffix[:i], n
	}
	for _, layout := range archiveLayouts {
		if len(layout) != len(stamp) {
			continue
		}
		if t, err := time.ParseInLocation(layout, stamp, time.UTC); err == nil {
			return archive{stamp: t, tie: tie}, true
		}
	}
	return archive{}, false
}

func parseIndex(s string) (int, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// older orders archives by rotation order.
// Archives of different naming schemes (left by a previous run in another mode) fall back to mtime.
func (a archive) older(b archive) bool {
	switch {
	case a.index > 0 && b.index > 0:
		return a.index < b.index
	case a.index == 0 && b.index == 0:
		if !a.stamp.Equal(b.stamp) {
			return a.stamp.Before(b.stamp)
		}
		return a.tie < b.tie
	default:
		return a.modTime.Before(b.modTime)
	}
}

// nextIndexName returns the path of the next index archive, one above the highest existing index
func nextIndexName(path string, archives []archive) string {
	highest := 0
	for _, a := range archives {
		if a.index > highest {
			highest = a.index
		}
	}
	return path + "." + strconv.Itoa(highest+1)
}

// timestampName returns the path of a timestamp archive for the period starting at start.
// An existing archive with the same stamp is never overwritten; a numeric tiebreaker is appended instead.
func timestampName(path string, start time.Time, unit TimeUnit) string {
	name := path + "." + start.Format(unit.suffixLayout())
	if _, err := os.Lstat(name); os.IsNotExist(err) {
		return name
	}
	for k := 1; ; k++ {
		candidate := name + "." + strconv.Itoa(k)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
