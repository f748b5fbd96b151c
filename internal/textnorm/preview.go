// internal/textnorm/preview.go
package textnorm

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// cyrillicFirst is the first display byte of the Cyrillic band.
const cyrillicFirst = 0xC0

// Preview renders display bytes as UTF-8 so they can be logged or printed.
// 0xA1-0xBF follow Latin-1, 0xC0-0xFF follow Windows-1251.
func Preview(display []byte) string {
	var sb strings.Builder
	sb.Grow(len(display))

	for _, b := range display {
		switch {
		case b < 0x80:
			sb.WriteByte(b)
		case b < cyrillicFirst:
			sb.WriteRune(charmap.ISO8859_1.DecodeByte(b))
		default:
			sb.WriteRune(charmap.Windows1251.DecodeByte(b))
		}
	}
	return sb.String()
}
