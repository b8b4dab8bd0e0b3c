// FILE: lixenwraith/tierlog/format.go
package tierlog

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/tierlog/sanitizer"
)

// field is a substitution token of the record template
type field int

const (
	fieldLiteral field = iota
	fieldTime
	fieldLevel
	fieldFile
	fieldPath
	fieldFunc
	fieldLine
	fieldMessage
	fieldName
	fieldPID
)

var fieldNames = map[string]field{
	"time":    fieldTime,
	"level":   fieldLevel,
	"file":    fieldFile,
	"path":    fieldPath,
	"func":    fieldFunc,
	"line":    fieldLine,
	"message": fieldMessage,
	"name":    fieldName,
	"pid":     fieldPID,
}

type segment struct {
	field   field
	literal string
}

// dumper renders composite values inline with their types, keeping one record per line
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Formatter renders a Record into one terminated line.
// It holds no mutable state and is shared by every sink of a logger.
type Formatter struct {
	segments   []segment
	timeFormat string
	sanitizer  *sanitizer.Sanitizer
}

// NewFormatter compiles a record template such as "[{time}] {level} {message}".
// "{{" and "}}" produce literal braces; unknown tokens are rejected.
func NewFormatter(template, timeFormat string, san *sanitizer.Sanitizer) (*Formatter, error) {
	segs, err := parseTemplate(template)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(timeFormat) == "" {
		timeFormat = DefaultTimestampFormat
	}
	if san == nil {
		san = sanitizer.New(sanitizer.PolicyRaw)
	}
	return &Formatter{segments: segs, timeFormat: timeFormat, sanitizer: san}, nil
}

func parseTemplate(tpl string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{field: fieldLiteral, literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch {
		case c == '{' && i+1 < len(tpl) && tpl[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tpl) && tpl[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tpl[i+1:], '}')
			if end < 0 {
				return nil, &ConfigError{Key: "record_format", Msg: fmt.Sprintf("unclosed token at offset %d", i)}
			}
			name := strings.ToLower(strings.TrimSpace(tpl[i+1 : i+1+end]))
			f, ok := fieldNames[name]
			if !ok {
				return nil, &ConfigError{Key: "record_format", Msg: fmt.Sprintf("unknown token '{%s}'", name)}
			}
			flush()
			segs = append(segs, segment{field: f})
			i += end + 1
		case c == '}':
			return nil, &ConfigError{Key: "record_format", Msg: fmt.Sprintf("unmatched '}' at offset %d", i)}
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return segs, nil
}

// Format renders rec, appending the line terminator
func (f *Formatter) Format(rec Record) []byte {
	buf := make([]byte, 0, 128+len(rec.Message))
	for _, seg := range f.segments {
		switch seg.field {
		case fieldLiteral:
			buf = append(buf, seg.literal...)
		case fieldTime:
			buf = rec.Time.AppendFormat(buf, f.timeFormat)
		case fieldLevel:
			buf = append(buf, rec.Level.String()...)
		case fieldFile:
			buf = append(buf, rec.Location.File...)
		case fieldPath:
			buf = append(buf, rec.Location.Path...)
		case fieldFunc:
			buf = append(buf, rec.Location.Func...)
		case fieldLine:
			buf = strconv.AppendInt(buf, int64(rec.Location.Line), 10)
		case fieldMessage:
			buf = append(buf, f.sanitizer.Sanitize(rec.Message)...)
		case fieldName:
			buf = append(buf, rec.Name...)
		case fieldPID:
			buf = strconv.AppendInt(buf, int64(rec.PID), 10)
		}
	}
	return append(buf, '\n')
}

// Message joins emit arguments with single spaces
func (f *Formatter) Message(args ...any) string {
	var buf []byte
	for i, arg := range args {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = f.appendValue(buf, arg)
	}
	return string(buf)
}

// appendValue converts any value to its text representation.
// Composite values fall back to go-spew.
func (f *Formatter) appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int32:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return val.AppendFormat(buf, f.timeFormat)
	case time.Duration:
		return append(buf, val.String()...)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	case []byte:
		return hex.AppendEncode(buf, val)
	default:
		return append(buf, dumper.Sprintf("%#v", val)...)
	}
}

// newFormatter builds the formatter described by the record_format, timestamp_format and sanitize options
func newFormatter(c *Config) (*Formatter, error) {
	policy, err := sanitizer.ParsePolicy(c.Sanitize)
	if err != nil {
		return nil, &ConfigError{Key: "sanitize", Msg: fmt.Sprintf("'%s' (use raw, txt or strip)", c.Sanitize)}
	}
	if strings.TrimSpace(c.TimestampFormat) == "" {
		return nil, &ConfigError{Key: "timestamp_format", Msg: "cannot be empty"}
	}
	return NewFormatter(c.RecordFormat, c.TimestampFormat, sanitizer.New(policy))
}
