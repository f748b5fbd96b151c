// internal/textnorm/table_test.go
package textnorm

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func packRune(r rune) uint32 {
	var b [utf8.UTFMax]byte
	n := utf8.EncodeRune(b[:], r)
	var v uint32
	for _, c := range b[:n] {
		v = v<<8 | uint32(c)
	}
	return v
}

func TestEntries_KeyIsPackedUTF8(t *testing.T) {
	for _, e := range Entries() {
		require.Equalf(t, packRune(e.Rune), e.Code, "rune %q", e.Rune)
	}
}

func TestEntries_AboveLatin1Band(t *testing.T) {
	for _, e := range Entries() {
		require.Greaterf(t, e.Code, latin1Last, "rune %q would never reach the table", e.Rune)
	}
}

func TestEntries_OutputLength(t *testing.T) {
	for _, e := range Entries() {
		require.NotEmptyf(t, e.Output, "rune %q", e.Rune)
		require.LessOrEqualf(t, len(e.Output), maxExpansion, "rune %q", e.Rune)
	}
}

func TestEntries_IndexMatchesList(t *testing.T) {
	list := Entries()
	require.Len(t, translit, len(list))
	for _, e := range list {
		require.Equal(t, e.Output, Map(e.Code))
	}
}

func TestEntries_CopyIsDetached(t *testing.T) {
	list := Entries()
	list[0].Output[0] = '?'
	require.Equal(t, []byte("A"), Map(0xC380))
}

func TestTable_CyrillicMatchesWindows1251(t *testing.T) {
	for r := rune(0x0410); r <= 0x044F; r++ {
		want, ok := charmap.Windows1251.EncodeRune(r)
		require.True(t, ok)

		got := Map(packRune(r))
		require.Equalf(t, []byte{want}, got, "rune %q", r)
	}
}

func TestTable_CyrillicCoversUpperBand(t *testing.T) {
	seen := make(map[byte]bool)
	for _, e := range Entries() {
		if len(e.Output) == 1 && e.Output[0] >= 0xC0 {
			seen[e.Output[0]] = true
		}
	}
	for b := 0xC0; b <= 0xFF; b++ {
		require.Truef(t, seen[byte(b)], "display byte 0x%X unreachable", b)
	}
}

func TestTable_Folding(t *testing.T) {
	groups := map[string]string{
		"A": "ÀÁÂÃÄÅ",
		"a": "àáâãäå",
		"E": "ÈÉÊË",
		"e": "èéêë",
		"I": "ÌÍÎÏІЇ",
		"i": "ìíîïії",
		"O": "ÒÓÔÕÖØ",
		"o": "òóôõöø",
		"U": "ÙÚÛÜ",
		"u": "ùúûü",
		"y": "ýÿ",
		"Y": "Ý",
		"N": "Ñ",
		"n": "ñ",
		"C": "Ç",
		"c": "ç",
		"'": "‘’",
	}
	for want, variants := range groups {
		for _, r := range variants {
			require.Equalf(t, []byte(want), Map(packRune(r)), "rune %q", r)
		}
	}
}

func TestTable_Expansion(t *testing.T) {
	cases := map[rune]string{
		'Æ': "Ae",
		'æ': "ae",
		'ß': "ss",
		'Þ': "Th",
		'þ': "th",
		'Ð': "Eth",
		'ð': "eth",
	}
	for r, want := range cases {
		require.Equalf(t, []byte(want), Map(packRune(r)), "rune %q", r)
	}
}

func TestTable_Collapse(t *testing.T) {
	require.Equal(t, []byte{0xC5}, Map(packRune('Е')))
	require.Equal(t, []byte{0xC5}, Map(packRune('Ё')))
	require.Equal(t, []byte{0xC5}, Map(packRune('Є')))
	require.Equal(t, []byte{0xE5}, Map(packRune('е')))
	require.Equal(t, []byte{0xE5}, Map(packRune('ё')))
	require.Equal(t, []byte{0xE5}, Map(packRune('є')))
	require.Equal(t, []byte{0xD3}, Map(packRune('Ў')))
	require.Equal(t, []byte{0xF3}, Map(packRune('ў')))
}

func TestTable_Signs(t *testing.T) {
	require.Equal(t, []byte("x"), Map(packRune('×')))
	require.Equal(t, []byte("%"), Map(packRune('÷')))
	require.Equal(t, []byte("R"), Map(packRune('ʀ')))
}

func TestBuildIndex_PanicsOnDuplicate(t *testing.T) {
	require.Panics(t, func() {
		buildIndex([]entry{
			{0xC380, 'À', "A"},
			{0xC380, 'À', "B"},
		})
	})
}
