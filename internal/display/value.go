// internal/display/value.go

// Package display holds the state of one value shown on a text display.
package display

// TextSize bounds the text held by a Value, terminator included. It fits the
// longest register field a single read can return.
const TextSize = 256

// Value is one piece of display text plus its scroll state.
type Value struct {
	Text    []byte
	Index   int // first visible byte
	Timeout int // Advance calls to skip before the next step
	Status  uint8
	Length  int
}

// NewValue copies at most TextSize-1 bytes of text.
func NewValue(text []byte, status uint8) Value {
	if len(text) > TextSize-1 {
		text = text[:TextSize-1]
	}
	t := make([]byte, len(text))
	copy(t, text)
	return Value{
		Text:   t,
		Status: status,
		Length: len(t),
	}
}

// Scrolls reports whether the text is wider than width.
func (v *Value) Scrolls(width int) bool {
	return width > 0 && v.Length > width
}

// Window returns the visible part of the text for a display of width bytes.
func (v *Value) Window(width int) []byte {
	if width <= 0 {
		return nil
	}
	if !v.Scrolls(width) {
		return v.Text
	}
	start := v.Index
	if start > v.Length-width || start < 0 {
		start = 0
	}
	return v.Text[start : start+width]
}

// Advance moves the window one byte to the right and wraps back to the
// start once the end of the text is visible. It does nothing while a
// Timeout is pending or when the text fits.
func (v *Value) Advance(width int) {
	if !v.Scrolls(width) {
		v.Index = 0
		return
	}
	if v.Timeout > 0 {
		v.Timeout--
		return
	}
	v.Index++
	if v.Index > v.Length-width {
		v.Index = 0
	}
}
