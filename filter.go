// FILE: lixenwraith/tierlog/filter.go
package tierlog

// Admits reports whether a filter configured at filter lets a record of severity sev
// through. The comparison is inclusive from below: every severity up to and including
// filter passes. Combined with a sink's own minimum level this yields the sink's window.
func Admits(filter, sev Level) bool {
	return sev <= filter
}

// window is the admission range of one sink: its own minimum level plus its filter level
type window struct {
	min    Level
	filter Level
}

func (w window) admits(sev Level) bool {
	return sev >= w.min && Admits(w.filter, sev)
}

// tier describes one physical file sink of the directory layout
type tier struct {
	dir    string // subdirectory under {directory}/{name}
	ext    string // file extension appended to the logger name
	window window
}

// tiers is the fixed severity-to-file assignment.
// The Error tier's filter is CRITICAL so critical records are durably written
// alongside errors; every other tier admits exactly its own severity.
var tiers = []tier{
	{dir: "Debug", ext: "debug", window: window{min: LevelDebug, filter: LevelDebug}},
	{dir: "Info", ext: "info", window: window{min: LevelInfo, filter: LevelInfo}},
	{dir: "Warning", ext: "warn", window: window{min: LevelWarn, filter: LevelWarn}},
	{dir: "Error", ext: "error", window: window{min: LevelError, filter: LevelCritical}},
}
