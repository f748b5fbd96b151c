// internal/textnorm/mapper.go
package textnorm

const (
	asciiMax uint32 = 0x7F

	// Packed range of U+00A1..U+00BF (C2 A1 .. C2 BF).
	latin1First uint32 = 0xC2A1
	latin1Last  uint32 = 0xC2BF

	// maxExpansion is the longest output of a single code point.
	maxExpansion = 3
)

// encodeInto writes the display bytes for one packed code point into buf and
// returns how many were written.
func encodeInto(buf *[maxExpansion]byte, code uint32) int {
	switch {
	case code <= asciiMax:
		buf[0] = byte(code)
		return 1

	case code >= latin1First && code <= latin1Last:
		ext := (code & 0xFF) + ((code>>8)-0xC2)*64
		if ext < 0xFF {
			buf[0] = byte(ext)
			return 1
		}
		return 0

	case code > latin1Last:
		return copy(buf[:], translit[key(code)])
	}

	// 0x80..0xC2A0: stray bytes, C1 controls and NBSP.
	return 0
}

// Map returns the display bytes for one packed code point.
// The result is empty when the code point has no mapping.
func Map(code uint32) []byte {
	return AppendMap(nil, code)
}

// AppendMap appends the display bytes for code to dst.
func AppendMap(dst []byte, code uint32) []byte {
	var buf [maxExpansion]byte
	n := encodeInto(&buf, code)
	return append(dst, buf[:n]...)
}

// Mapped reports whether code produces at least one display byte.
func Mapped(code uint32) bool {
	var buf [maxExpansion]byte
	return encodeInto(&buf, code) > 0
}
