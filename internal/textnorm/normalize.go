// internal/textnorm/normalize.go
package textnorm

import (
	"errors"
	"fmt"
)

// Options controls how degraded input is reported.
type Options struct {
	// Strict turns dropped characters, bad escapes and cut-off sequences into
	// errors. The zero value is lenient.
	Strict bool
}

// Result describes one Normalize pass.
type Result struct {
	N               int  // bytes written to dst
	Units           int  // code points decoded
	Dropped         int  // code points that produced no output
	InvalidEscapes  int  // escapes with non-hex digits
	EscapeTruncated bool // input ended inside an escape
	Incomplete      bool // input ended inside a multi-byte sequence
}

// Degraded reports whether any input was lost or guessed.
func (r Result) Degraded() bool {
	return r.Dropped > 0 || r.InvalidEscapes > 0 || r.EscapeTruncated || r.Incomplete
}

// Normalize decodes src and writes display bytes into dst. len(dst) is the
// output capacity; output is never written past it.
//
// When a character's output does not fit, Normalize stops before it and
// returns ErrOutputFull together with a Result whose N counts the bytes
// already written. Multi-byte transliterations are never split.
func Normalize(dst, src []byte, opts Options) (Result, error) {
	var (
		res Result
		buf [maxExpansion]byte
	)

	d := NewDecoder(src)
	for d.Next() {
		res.Units++

		if d.InvalidEscape() {
			res.InvalidEscapes++
			if opts.Strict {
				return res, fmt.Errorf("%w at offset %d", ErrInvalidEscape, d.Offset())
			}
		}

		n := encodeInto(&buf, d.Code())
		if n == 0 {
			res.Dropped++
			if opts.Strict {
				return res, &UnmappedError{Offset: d.Offset(), Code: d.Code()}
			}
			continue
		}

		if res.N+n > len(dst) {
			return res, ErrOutputFull
		}
		res.N += copy(dst[res.N:], buf[:n])
	}

	err := d.Err()
	switch {
	case errors.Is(err, ErrTruncatedEscape):
		res.EscapeTruncated = true
	case errors.Is(err, ErrIncompleteSequence):
		res.Incomplete = true
	}
	if opts.Strict && err != nil {
		return res, err
	}
	return res, nil
}

// String normalizes s into a new slice of at most capacity bytes.
// On ErrOutputFull the returned slice holds the part that fit.
func String(s string, capacity int, opts Options) ([]byte, error) {
	if capacity < 0 {
		capacity = 0
	}
	dst := make([]byte, capacity)
	res, err := Normalize(dst, []byte(s), opts)
	return dst[:res.N], err
}
