// FILE: lixenwraith/tierlog/sanitizer/sanitizer.go
// Package sanitizer rewrites message text before it is written to a log file,
// so a caller-controlled string cannot forge extra records or embed terminal escapes.
package sanitizer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match flags select the runes a rule applies to
const (
	MatchNonPrintable uint64 = 1 << iota // runes strconv.IsPrint rejects
	MatchControl                         // unicode.IsControl
	MatchLineBreak                       // '\n', '\r', U+2028, U+2029
)

// Action flags choose what happens to a matched rune
const (
	ActionStrip  uint64 = 1 << iota // drop the rune
	ActionHex                       // replace with "<xx..>" of its UTF-8 bytes
	ActionSpace                     // replace with a single space
)

// Policy names a preset rule set, selected by the sanitize config key
type Policy string

const (
	PolicyRaw   Policy = "raw"   // passthrough
	PolicyTxt   Policy = "txt"   // hex-encode non-printable runes
	PolicyStrip Policy = "strip" // drop control runes, fold line breaks into spaces
)

var presets = map[Policy][]rule{
	PolicyRaw:   nil,
	PolicyTxt:   {{match: MatchNonPrintable, action: ActionHex}},
	PolicyStrip: {{match: MatchLineBreak, action: ActionSpace}, {match: MatchControl, action: ActionStrip}},
}

type rule struct {
	match  uint64
	action uint64
}

var matchers = []struct {
	flag uint64
	fn   func(rune) bool
}{
	{MatchNonPrintable, func(r rune) bool { return !strconv.IsPrint(r) }},
	{MatchControl, unicode.IsControl},
	{MatchLineBreak, func(r rune) bool { return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029' }},
}

// Sanitizer applies an ordered rule list; the first matching rule wins.
// It is immutable once built and safe for concurrent use.
type Sanitizer struct {
	rules []rule
}

// ParsePolicy validates a policy name
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PolicyRaw, nil
	}
	if _, ok := presets[p]; !ok {
		return "", fmt.Errorf("sanitizer: unknown policy '%s' (use raw, txt or strip)", s)
	}
	return p, nil
}

// New returns a sanitizer for the preset policy; an unknown policy behaves as raw
func New(p Policy) *Sanitizer {
	return &Sanitizer{rules: append([]rule(nil), presets[p]...)}
}

// With returns a copy with an additional rule appended
func (s *Sanitizer) With(match, action uint64) *Sanitizer {
	rules := make([]rule, len(s.rules), len(s.rules)+1)
	copy(rules, s.rules)
	return &Sanitizer{rules: append(rules, rule{match: match, action: action})}
}

// Passthrough reports whether Sanitize returns its input unchanged
func (s *Sanitizer) Passthrough() bool {
	return len(s.rules) == 0
}

// Sanitize applies the rules to data
func (s *Sanitizer) Sanitize(data string) string {
	if s.Passthrough() || !s.needsWork(data) {
		return data
	}

	buf := make([]byte, 0, len(data)+16)
	for _, r := range data {
		if rl, ok := s.find(r); ok {
			buf = apply(buf, r, rl.action)
			continue
		}
		buf = utf8.AppendRune(buf, r)
	}
	return string(buf)
}

func (s *Sanitizer) needsWork(data string) bool {
	for _, r := range data {
		if _, ok := s.find(r); ok {
			return true
		}
	}
	return false
}

func (s *Sanitizer) find(r rune) (rule, bool) {
	for _, rl := range s.rules {
		for _, m := range matchers {
			if rl.match&m.flag != 0 && m.fn(r) {
				return rl, true
			}
		}
	}
	return rule{}, false
}

func apply(buf []byte, r rune, action uint64) []byte {
	switch {
	case action&ActionStrip != 0:
		return buf
	case action&ActionSpace != 0:
		return append(buf, ' ')
	case action&ActionHex != 0:
		var rb [utf8.UTFMax]byte
		n := utf8.EncodeRune(rb[:], r)
		buf = append(buf, '<')
		buf = append(buf, hex.EncodeToString(rb[:n])...)
		return append(buf, '>')
	default:
		return utf8.AppendRune(buf, r)
	}
}
