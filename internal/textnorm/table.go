// internal/textnorm/table.go
package textnorm

import "fmt"

// key is a packed code point used as a transliteration table key.
// Example: U+00C9 (UTF-8 C3 89) is key 0xC389, U+2019 (E2 80 99) is 0xE28099.
type key uint32

type entry struct {
	k   key
	r   rune
	out string
}

// Entry is an exported view of one transliteration table row.
type Entry struct {
	Code   uint32 // packed code point
	Rune   rune   // character the key encodes
	Output []byte // display bytes
}

// entries is the transliteration table in display code page order.
// The table is a versioned contract with the display font: a font change
// means regenerating the whole table.
var entries = [...]entry{
	// ---- Latin-1 Supplement, capitals ----
	{0xC380, 'À', "A"},
	{0xC381, 'Á', "A"},
	{0xC382, 'Â', "A"},
	{0xC383, 'Ã', "A"},
	{0xC384, 'Ä', "A"},
	{0xC385, 'Å', "A"},
	{0xC386, 'Æ', "Ae"},
	{0xC387, 'Ç', "C"},
	{0xC388, 'È', "E"},
	{0xC389, 'É', "E"},
	{0xC38A, 'Ê', "E"},
	{0xC38B, 'Ë', "E"},
	{0xC38C, 'Ì', "I"},
	{0xC38D, 'Í', "I"},
	{0xC38E, 'Î', "I"},
	{0xC38F, 'Ï', "I"},
	{0xC390, 'Ð', "Eth"},
	{0xC391, 'Ñ', "N"},
	{0xC392, 'Ò', "O"},
	{0xC393, 'Ó', "O"},
	{0xC394, 'Ô', "O"},
	{0xC395, 'Õ', "O"},
	{0xC396, 'Ö', "O"},
	{0xC397, '×', "x"},
	{0xC398, 'Ø', "O"},
	{0xC399, 'Ù', "U"},
	{0xC39A, 'Ú', "U"},
	{0xC39B, 'Û', "U"},
	{0xC39C, 'Ü', "U"},
	{0xC39D, 'Ý', "Y"},
	{0xC39E, 'Þ', "Th"},
	{0xC39F, 'ß', "ss"},

	// ---- Latin-1 Supplement, small ----
	{0xC3A0, 'à', "a"},
	{0xC3A1, 'á', "a"},
	{0xC3A2, 'â', "a"},
	{0xC3A3, 'ã', "a"},
	{0xC3A4, 'ä', "a"},
	{0xC3A5, 'å', "a"},
	{0xC3A6, 'æ', "ae"},
	{0xC3A7, 'ç', "c"},
	{0xC3A8, 'è', "e"},
	{0xC3A9, 'é', "e"},
	{0xC3AA, 'ê', "e"},
	{0xC3AB, 'ë', "e"},
	{0xC3AC, 'ì', "i"},
	{0xC3AD, 'í', "i"},
	{0xC3AE, 'î', "i"},
	{0xC3AF, 'ï', "i"},
	{0xC3B0, 'ð', "eth"},
	{0xC3B1, 'ñ', "n"},
	{0xC3B2, 'ò', "o"},
	{0xC3B3, 'ó', "o"},
	{0xC3B4, 'ô', "o"},
	{0xC3B5, 'õ', "o"},
	{0xC3B6, 'ö', "o"},
	{0xC3B7, '÷', "%"}, // display font has no division glyph
	{0xC3B8, 'ø', "o"},
	{0xC3B9, 'ù', "u"},
	{0xC3BA, 'ú', "u"},
	{0xC3BB, 'û', "u"},
	{0xC3BC, 'ü', "u"},
	{0xC3BD, 'ý', "y"},
	{0xC3BE, 'þ', "th"},
	{0xC3BF, 'ÿ', "y"},

	// ---- IPA ----
	{0xCA80, 'ʀ', "R"},

	// ---- Cyrillic, capitals ----
	{0xD081, 'Ё', "\xC5"},
	{0xD084, 'Є', "\xC5"},
	{0xD086, 'І', "I"},
	{0xD087, 'Ї', "I"},
	{0xD08E, 'Ў', "\xD3"},
	{0xD090, 'А', "\xC0"},
	{0xD091, 'Б', "\xC1"},
	{0xD092, 'В', "\xC2"},
	{0xD093, 'Г', "\xC3"},
	{0xD094, 'Д', "\xC4"},
	{0xD095, 'Е', "\xC5"},
	{0xD096, 'Ж', "\xC6"},
	{0xD097, 'З', "\xC7"},
	{0xD098, 'И', "\xC8"},
	{0xD099, 'Й', "\xC9"},
	{0xD09A, 'К', "\xCA"},
	{0xD09B, 'Л', "\xCB"},
	{0xD09C, 'М', "\xCC"},
	{0xD09D, 'Н', "\xCD"},
	{0xD09E, 'О', "\xCE"},
	{0xD09F, 'П', "\xCF"},
	{0xD0A0, 'Р', "\xD0"},
	{0xD0A1, 'С', "\xD1"},
	{0xD0A2, 'Т', "\xD2"},
	{0xD0A3, 'У', "\xD3"},
	{0xD0A4, 'Ф', "\xD4"},
	{0xD0A5, 'Х', "\xD5"},
	{0xD0A6, 'Ц', "\xD6"},
	{0xD0A7, 'Ч', "\xD7"},
	{0xD0A8, 'Ш', "\xD8"},
	{0xD0A9, 'Щ', "\xD9"},
	{0xD0AA, 'Ъ', "\xDA"},
	{0xD0AB, 'Ы', "\xDB"},
	{0xD0AC, 'Ь', "\xDC"},
	{0xD0AD, 'Э', "\xDD"},
	{0xD0AE, 'Ю', "\xDE"},
	{0xD0AF, 'Я', "\xDF"},

	// ---- Cyrillic, small ----
	{0xD0B0, 'а', "\xE0"},
	{0xD0B1, 'б', "\xE1"},
	{0xD0B2, 'в', "\xE2"},
	{0xD0B3, 'г', "\xE3"},
	{0xD0B4, 'д', "\xE4"},
	{0xD0B5, 'е', "\xE5"},
	{0xD0B6, 'ж', "\xE6"},
	{0xD0B7, 'з', "\xE7"},
	{0xD0B8, 'и', "\xE8"},
	{0xD0B9, 'й', "\xE9"},
	{0xD0BA, 'к', "\xEA"},
	{0xD0BB, 'л', "\xEB"},
	{0xD0BC, 'м', "\xEC"},
	{0xD0BD, 'н', "\xED"},
	{0xD0BE, 'о', "\xEE"},
	{0xD0BF, 'п', "\xEF"},
	{0xD180, 'р', "\xF0"},
	{0xD181, 'с', "\xF1"},
	{0xD182, 'т', "\xF2"},
	{0xD183, 'у', "\xF3"},
	{0xD184, 'ф', "\xF4"},
	{0xD185, 'х', "\xF5"},
	{0xD186, 'ц', "\xF6"},
	{0xD187, 'ч', "\xF7"},
	{0xD188, 'ш', "\xF8"},
	{0xD189, 'щ', "\xF9"},
	{0xD18A, 'ъ', "\xFA"},
	{0xD18B, 'ы', "\xFB"},
	{0xD18C, 'ь', "\xFC"},
	{0xD18D, 'э', "\xFD"},
	{0xD18E, 'ю', "\xFE"},
	{0xD18F, 'я', "\xFF"},
	{0xD191, 'ё', "\xE5"},
	{0xD194, 'є', "\xE5"},
	{0xD196, 'і', "i"},
	{0xD197, 'ї', "i"},
	{0xD19E, 'ў', "\xF3"},

	// ---- General Punctuation ----
	{0xE28098, '‘', "'"},
	{0xE28099, '’', "'"},
}

var translit = buildIndex(entries[:])

func buildIndex(list []entry) map[key]string {
	idx := make(map[key]string, len(list))
	for _, e := range list {
		if _, dup := idx[e.k]; dup {
			panic(fmt.Sprintf("textnorm: duplicate table key 0x%X", uint32(e.k)))
		}
		if len(e.out) > maxExpansion {
			panic(fmt.Sprintf("textnorm: output for key 0x%X exceeds %d bytes", uint32(e.k), maxExpansion))
		}
		idx[e.k] = e.out
	}
	return idx
}

// Entries returns a copy of the transliteration table in table order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{
			Code:   uint32(e.k),
			Rune:   e.r,
			Output: []byte(e.out),
		}
	}
	return out
}
