// FILE: lixenwraith/tierlog/sink.go
package tierlog

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// renameFile moves the active file to its archive name; tests swap it to inject failures
var renameFile = os.Rename

// fileSink is one rotating file stream admitting a severity window.
// Its mutex serializes the policy check, rotation, append and size update of every write.
type fileSink struct {
	mu     sync.Mutex
	name   string // tier directory name, used in diagnostics
	path   string
	window window
	policy Policy
	retain int

	truncate bool // truncate on the first open only
	opened   bool // the stream was opened at least once
	closed   bool

	file *os.File
	size int64
	next time.Time

	state *state
	diag  func(error)
}

type sinkOptions struct {
	policy   Policy
	retain   int
	truncate bool
	state    *state
	diag     func(error)
}

func newFileSink(root string, t tier, loggerName string, opts sinkOptions) *fileSink {
	return &fileSink{
		name:     t.dir,
		path:     filepath.Join(root, t.dir, loggerName+"."+t.ext),
		window:   t.window,
		policy:   opts.policy,
		retain:   opts.retain,
		truncate: opts.truncate,
		state:    opts.state,
		diag:     opts.diag,
	}
}

// admits reports whether the record severity falls in the sink window
func (s *fileSink) admits(sev Level) bool {
	return s.window.admits(sev)
}

// snapshot is the read-only view handed to the policy; caller holds s.mu
func (s *fileSink) snapshot() SinkState {
	return SinkState{Path: s.path, Size: s.size, NextRotation: s.next}
}

// open opens the active file; caller holds s.mu
func (s *fileSink) open(now time.Time) error {
	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	first := !s.opened
	if first && s.truncate {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(s.path, flags, 0644)
	if err != nil {
		return fmtErrorf("failed to open/create log file '%s': %w", s.path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmtErrorf("failed to stat log file '%s': %w", s.path, err)
	}

	s.file = file
	s.size = info.Size()
	s.opened = true

	if first && s.policy.Mode.hasTime() {
		base := now
		// A non-empty file left by a previous run belongs to the period of its last write
		if info.Size() > 0 {
			base = info.ModTime()
		}
		s.next = s.policy.FirstRotation(base)
	}
	return nil
}

// write appends one encoded line, rotating first when the policy demands it
func (s *fileSink) write(line []byte, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrLoggerClosed
	}
	if s.file == nil {
		if err := s.open(now); err != nil {
			return &WriteError{Sink: s.name, Path: s.path, Err: err}
		}
	}

	n := int64(len(line))
	if s.policy.ShouldRotate(s.snapshot(), n, now) && !s.oversizedIntoEmpty(now) {
		if err := s.rotate(now); err != nil {
			return &WriteError{Sink: s.name, Path: s.path, Err: err}
		}
	}

	written, err := s.file.Write(line)
	s.size += int64(written)
	if err != nil {
		return &WriteError{Sink: s.name, Path: s.path, Err: err}
	}
	return nil
}

// oversizedIntoEmpty reports whether only the size of the pending record triggered rotation
// of an empty file. The record is then written into that file without archiving it.
func (s *fileSink) oversizedIntoEmpty(now time.Time) bool {
	return s.size == 0 && !s.policy.ShouldRotate(s.snapshot(), 0, now)
}

// rotate archives the active file, prunes old archives and reopens a fresh one; caller holds s.mu.
// Archive failures are reported as RotationError and the write continues on the reopened original.
// The returned error means no stream could be reopened.
func (s *fileSink) rotate(now time.Time) error {
	boundary := s.next
	// A size-triggered rotation inside the current period keeps its boundary
	if s.policy.Mode.hasTime() && !now.Before(boundary) {
		s.next = s.policy.NextRotation(boundary, now)
	}

	if err := s.file.Close(); err != nil {
		s.report("close", s.path, err)
	}
	s.file = nil

	archived := false
	if s.retain == 0 {
		if err := os.Remove(s.path); err != nil {
			s.report("remove", s.path, err)
		} else {
			s.state.deletions.Add(1)
			archived = true
		}
	} else {
		archived = s.archive(boundary)
	}

	// The file stays active, so the rotation stays due and is retried on the next write
	if !archived && s.policy.Mode.hasTime() {
		s.next = boundary
	}

	if err := s.open(now); err != nil {
		return err
	}
	if archived {
		s.state.rotations.Add(1)
	}
	return nil
}

// archive renames the active file, then prunes the oldest archives down to retain
func (s *fileSink) archive(boundary time.Time) bool {
	var target string
	if s.policy.Mode == ModeSize {
		archives, err := listArchives(s.path)
		if err != nil {
			s.report("list", filepath.Dir(s.path), err)
		}
		target = nextIndexName(s.path, archives)
	} else {
		target = timestampName(s.path, s.policy.periodStart(boundary), s.policy.Unit)
	}
	if err := renameFile(s.path, target); err != nil {
		s.report("rename", target, err)
		return false
	}
	s.prune()
	return true
}

func (s *fileSink) prune() {
	archives, err := listArchives(s.path)
	if err != nil {
		s.report("list", filepath.Dir(s.path), err)
		return
	}
	for len(archives) > s.retain {
		oldest := archives[0]
		archives = archives[1:]
		if err := os.Remove(oldest.path); err != nil {
			s.report("prune", oldest.path, err)
			continue
		}
		s.state.deletions.Add(1)
	}
}

func (s *fileSink) report(op, path string, err error) {
	s.state.rotationErrors.Add(1)
	if s.diag != nil {
		s.diag(&RotationError{Sink: s.name, Op: op, Path: path, Err: err})
	}
}

func (s *fileSink) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return fmtErrorf("failed to sync log file '%s': %w", s.path, err)
	}
	return nil
}

func (s *fileSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.file == nil {
		return nil
	}
	var err error
	if syncErr := s.file.Sync(); syncErr != nil {
		err = fmtErrorf("failed to sync log file '%s' during close: %w", s.path, syncErr)
	}
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = fmtErrorf("failed to close log file '%s': %w", s.path, closeErr)
	}
	s.file = nil
	return err
}
