// FILE: lixenwraith/tierlog/sinkset.go
package tierlog

import (
	"errors"
	"io"
	"sync"
)

// consoleSink mirrors every record that passed the logger's minimum level
type consoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *consoleSink) write(line []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.w.Write(line); err != nil {
		return &WriteError{Sink: "console", Err: err}
	}
	return nil
}

// SinkSet fans one record out to the console mirror, the admitted file sinks and,
// for CRITICAL records, the alert channel
type SinkSet struct {
	formatter *Formatter
	encoder   *lineEncoder
	console   *consoleSink  // nil when disabled
	files     []*fileSink
	alert     *alertChannel // nil when alerting is disabled
	state     *state
}

// Emit writes rec to every destination that admits it.
// Every destination is attempted; failures are joined into the returned error.
// Rotation problems are reported through diagnostics only.
func (s *SinkSet) Emit(rec Record) error {
	line := s.formatter.Format(rec)

	var errs []error
	if s.console != nil {
		if err := s.console.write(line); err != nil {
			errs = append(errs, err)
		}
	}

	encoded, err := s.encoder.encode(line)
	if err != nil {
		errs = append(errs, &WriteError{Sink: "encoder", Err: err})
	} else {
		for _, f := range s.files {
			if !f.admits(rec.Level) {
				continue
			}
			if err := f.write(encoded, rec.Time); err != nil {
				s.state.writeErrors.Add(1)
				errs = append(errs, err)
			}
		}
	}

	if s.alert != nil && rec.Level == LevelCritical {
		if err := s.alert.Deliver(rec, line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush syncs every open file
func (s *SinkSet) Flush() error {
	var errs []error
	for _, f := range s.files {
		if err := f.flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close syncs and closes every file; later writes fail with ErrLoggerClosed
func (s *SinkSet) Close() error {
	var errs []error
	for _, f := range s.files {
		if err := f.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
