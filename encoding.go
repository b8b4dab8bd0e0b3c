// FILE: lixenwraith/tierlog/encoding.go
package tierlog

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// lineEncoder converts formatted UTF-8 lines to the file charset.
// A nil *lineEncoder writes lines unchanged.
type lineEncoder struct {
	name string
	enc  encoding.Encoding
}

// resolveEncoding looks up an IANA charset name; UTF-8 and empty resolve to nil
func resolveEncoding(name string) (*lineEncoder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmtErrorf("unknown text encoding '%s': %w", name, err)
	}
	if enc == nil {
		return nil, fmtErrorf("text encoding '%s' is not supported", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err == nil && canonical == "UTF-8" {
		return nil, nil
	}
	return &lineEncoder{name: name, enc: enc}, nil
}

// encode converts one line; runes the charset cannot represent are replaced
func (e *lineEncoder) encode(line []byte) ([]byte, error) {
	if e == nil {
		return line, nil
	}
	out, err := encoding.ReplaceUnsupported(e.enc.NewEncoder()).Bytes(line)
	if err != nil {
		return nil, fmtErrorf("failed to encode record as %s: %w", e.name, err)
	}
	return out, nil
}
