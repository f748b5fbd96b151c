// internal/textnorm/doc.go

// Package textnorm converts human-entered text into the 8-bit code page of the
// fixed-font character display.
//
// Input is UTF-8, optionally mixed with backslash-hex escapes (`\C3\A9`) that
// stand for raw bytes. Decoding produces packed code points: the raw bytes of
// one UTF-8 sequence concatenated big-endian, continuation marker bits
// included. A packed code point is NOT a Unicode scalar value. The
// transliteration table is keyed in the same convention, so the decoder
// arithmetic and the table must change together.
//
// Each packed code point maps to zero to three display bytes:
//
//   - 0x00-0x7F passes through
//   - 0xC2A1-0xC2BF (U+00A1-U+00BF) lands in the display's 0xA1-0xBF band
//   - anything above 0xC2BF is looked up in the transliteration table
//
// Everything else produces no output. Lookup folds accented Latin letters onto
// their base letter, expands ligatures ("Ae", "ss", "Th") and places Cyrillic on
// 0xC0-0xFF in the Windows-1251 layout used by the display font.
//
// The pipeline is lenient by default: unmapped characters are dropped and a
// trailing escape with fewer than two digits ends the input. Options.Strict
// turns each of those conditions into an error. Output is always bounded by
// the destination capacity.
package textnorm
