// internal/textnorm/errors.go
package textnorm

import (
	"errors"
	"fmt"
)

var (
	// ErrOutputFull is returned when the next character does not fit into the
	// destination. Bytes written before it remain valid.
	ErrOutputFull = errors.New("textnorm: output capacity exceeded")

	// ErrTruncatedEscape marks a `\` with fewer than two bytes after it.
	ErrTruncatedEscape = errors.New("textnorm: truncated escape at end of input")

	// ErrInvalidEscape marks an escape whose two bytes are not both hex digits.
	ErrInvalidEscape = errors.New("textnorm: invalid hex escape")

	// ErrIncompleteSequence marks a multi-byte sequence cut off by end of input.
	ErrIncompleteSequence = errors.New("textnorm: incomplete multi-byte sequence at end of input")
)

// UnmappedError reports a code point with no display representation.
// Only returned in strict mode.
type UnmappedError struct {
	Offset int    // input offset of the first byte of the unit
	Code   uint32 // packed code point
}

func (e *UnmappedError) Error() string {
	return fmt.Sprintf("textnorm: no mapping for packed code point 0x%X at offset %d", e.Code, e.Offset)
}
