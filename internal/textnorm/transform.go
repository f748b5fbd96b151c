// internal/textnorm/transform.go
package textnorm

import (
	"fmt"

	"golang.org/x/text/transform"
)

// Transformer is the streaming form of Normalize. It implements
// transform.Transformer, so it works with transform.NewReader,
// transform.NewWriter and transform.String.
//
// A unit split across two src chunks is left unconsumed with
// transform.ErrShortSrc; no decode state is carried between calls.
type Transformer struct {
	opts Options
}

var _ transform.Transformer = (*Transformer)(nil)

// NewTransformer returns a Transformer using opts.
func NewTransformer(opts Options) *Transformer {
	return &Transformer{opts: opts}
}

// Reset implements transform.Transformer.
func (t *Transformer) Reset() {}

// Transform implements transform.Transformer.
func (t *Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var buf [maxExpansion]byte

	for nSrc < len(src) {
		u := scanUnit(src[nSrc:], atEOF)

		switch u.state {
		case unitShort:
			return nDst, nSrc, transform.ErrShortSrc
		case unitEscapeCut:
			if t.opts.Strict {
				return nDst, nSrc, ErrTruncatedEscape
			}
			return nDst, len(src), nil
		case unitIncomplete:
			if t.opts.Strict {
				return nDst, nSrc, ErrIncompleteSequence
			}
			return nDst, len(src), nil
		}

		if u.badHex && t.opts.Strict {
			return nDst, nSrc, fmt.Errorf("%w at offset %d", ErrInvalidEscape, nSrc)
		}

		n := encodeInto(&buf, u.code)
		if n == 0 {
			if t.opts.Strict {
				return nDst, nSrc, &UnmappedError{Offset: nSrc, Code: u.code}
			}
			nSrc += u.n
			continue
		}

		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], buf[:n])
		nSrc += u.n
	}

	return nDst, nSrc, nil
}
