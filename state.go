// FILE: lixenwraith/tierlog/state.go
package tierlog

import (
	"sync/atomic"
	"time"
)

// state holds the runtime counters of a logger, shared by its sinks and alert channel
type state struct {
	startTime      time.Time
	records        atomic.Uint64 // records that passed the minimum level
	rotations      atomic.Uint64 // successful rotations, all sinks
	deletions      atomic.Uint64 // archives pruned or files discarded by retention
	rotationErrors atomic.Uint64
	writeErrors    atomic.Uint64
	alertsSent     atomic.Uint64
	alertErrors    atomic.Uint64
}

// Stats is a point-in-time snapshot of the logger counters
type Stats struct {
	Name           string
	Uptime         time.Duration
	Records        uint64
	Rotations      uint64
	Deletions      uint64
	RotationErrors uint64
	WriteErrors    uint64
	AlertsSent     uint64
	AlertErrors    uint64
}

func (s *state) snapshot(name string, now time.Time) Stats {
	return Stats{
		Name:           name,
		Uptime:         now.Sub(s.startTime),
		Records:        s.records.Load(),
		Rotations:      s.rotations.Load(),
		Deletions:      s.deletions.Load(),
		RotationErrors: s.rotationErrors.Load(),
		WriteErrors:    s.writeErrors.Load(),
		AlertsSent:     s.alertsSent.Load(),
		AlertErrors:    s.alertErrors.Load(),
	}
}
