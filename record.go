// FILE: lixenwraith/tierlog/record.go
package tierlog

import (
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Location identifies the call site that emitted a record
type Location struct {
	Path string // full source path
	File string // base name of Path
	Func string // short function name
	Line int
}

// Record is the immutable value produced per emit and shared by every sink
type Record struct {
	Time     time.Time
	Level    Level
	Message  string
	Location Location
	Name     string
	PID      int
}

// callerSkip is the number of frames between runtime.Callers and the user call site:
// callerLocation -> Logger.log -> public emit method
const callerSkip = 3

// callerLocation resolves the source location skip frames above its caller
func callerLocation(skip int) Location {
	pc := make([]uintptr, 1)
	n := runtime.Callers(skip+1, pc) // +1 because Callers includes its own frame
	if n == 0 {
		return Location{Path: "(unknown)", File: "(unknown)", Func: "(unknown)"}
	}
	frames := runtime.CallersFrames(pc[:n])
	frame, _ := frames.Next()
	return Location{
		Path: frame.File,
		File: filepath.Base(frame.File),
		Func: shortFuncName(frame.Function),
		Line: frame.Line,
	}
}

// shortFuncName strips the package path, keeping the receiver for methods
// and naming anonymous functions after their enclosing function
func shortFuncName(full string) string {
	if full == "" {
		return "(unknown)"
	}
	name := filepath.Base(full)
	parts := strings.Split(name, ".")
	if len(parts) == 1 {
		return name
	}
	parts = parts[1:] // package
	last := parts[len(parts)-1]
	if isAnonymous(last) && len(parts) > 1 {
		return "(anonymous in " + strings.Join(parts[:len(parts)-1], ".") + ")"
	}
	return strings.Join(parts, ".")
}

func isAnonymous(part string) bool {
	if !strings.HasPrefix(part, "func") || len(part) == 4 {
		return false
	}
	for _, r := range part[4:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
