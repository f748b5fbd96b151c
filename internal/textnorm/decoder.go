// internal/textnorm/decoder.go
package textnorm

const escapeByte = '\\'

type unitState uint8

const (
	unitComplete   unitState = iota
	unitShort                // more input needed (streaming only)
	unitEscapeCut            // `\` with fewer than two bytes left
	unitIncomplete           // lead byte without all of its continuation bytes
)

// unit is one decoded packed code point and the input it consumed.
type unit struct {
	n      int
	code   uint32
	state  unitState
	badHex bool
}

// continuationBytes classifies a raw byte by its high bits.
func continuationBytes(b byte) int {
	switch {
	case b>>3 == 0x1E: // 11110xxx
		return 3
	case b>>4 == 0x0E: // 1110xxxx
		return 2
	case b>>5 == 0x06: // 110xxxxx
		return 1
	}
	return 0
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// parseHex reads two escape digits the way strtol(…, 16) does: digits are
// consumed until the first non-hex byte, no digits yields 0.
func parseHex(hi, lo byte) (byte, bool) {
	h, ok := hexVal(hi)
	if !ok {
		return 0, false
	}
	l, ok := hexVal(lo)
	if !ok {
		return h, false
	}
	return h<<4 | l, true
}

// readRaw returns the next raw byte of src, resolving a leading escape.
func readRaw(src []byte, atEOF bool) (b byte, n int, st unitState, badHex bool) {
	if src[0] != escapeByte {
		return src[0], 1, unitComplete, false
	}
	if len(src) < 3 {
		if !atEOF {
			return 0, 0, unitShort, false
		}
		return 0, len(src), unitEscapeCut, false
	}
	v, ok := parseHex(src[1], src[2])
	return v, 3, unitComplete, !ok
}

// scanUnit decodes one packed code point from the start of src.
// src must not be empty. Continuation bytes are appended whole:
// acc = acc<<8 | raw.
func scanUnit(src []byte, atEOF bool) unit {
	var u unit
	need := 0
	started := false

	for i := 0; i < len(src); {
		b, n, st, bad := readRaw(src[i:], atEOF)
		switch st {
		case unitShort:
			return unit{state: unitShort}
		case unitEscapeCut:
			return unit{n: len(src), state: unitEscapeCut, badHex: u.badHex}
		}
		i += n
		u.badHex = u.badHex || bad

		if !started {
			started = true
			u.code = uint32(b)
			need = continuationBytes(b)
		} else {
			u.code = u.code<<8 | uint32(b)
			need--
		}

		if need == 0 {
			u.n = i
			return u
		}
	}

	if !atEOF {
		return unit{state: unitShort}
	}
	u.n = len(src)
	u.state = unitIncomplete
	return u
}

// Decoder yields packed code points from an input held fully in memory.
//
//	d := NewDecoder(src)
//	for d.Next() {
//		use(d.Code())
//	}
//	if err := d.Err(); err != nil { ... }
type Decoder struct {
	src []byte
	pos int

	off    int
	code   uint32
	badHex bool
	err    error
}

// NewDecoder returns a Decoder reading src.
func NewDecoder(src []byte) *Decoder {
	return &Decoder{src: src}
}

// Next advances to the next complete code point. It returns false at the end
// of input or when decoding stopped early (see Err).
func (d *Decoder) Next() bool {
	if d.err != nil || d.pos >= len(d.src) {
		return false
	}

	u := scanUnit(d.src[d.pos:], true)
	d.off = d.pos
	d.pos += u.n

	switch u.state {
	case unitEscapeCut:
		d.err = ErrTruncatedEscape
		return false
	case unitIncomplete:
		d.err = ErrIncompleteSequence
		return false
	}

	d.code = u.code
	d.badHex = u.badHex
	return true
}

// Code returns the current packed code point.
func (d *Decoder) Code() uint32 { return d.code }

// Offset returns the input offset where the current code point started.
func (d *Decoder) Offset() int { return d.off }

// InvalidEscape reports whether the current code point used an escape with
// non-hex digits.
func (d *Decoder) InvalidEscape() bool { return d.badHex }

// Err returns ErrTruncatedEscape or ErrIncompleteSequence when the input ended
// early, nil otherwise.
func (d *Decoder) Err() error { return d.err }
