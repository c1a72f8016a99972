// Package highlight derives style runs from buffer text and keeps a buffer's
// visual tags in sync with them.
package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
)

// RGB is a 24-bit colour.
type RGB struct {
	R, G, B uint8
}

// Hex formats the colour as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText encodes the colour as its hex form.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func rgbFromChroma(c chroma.Colour) RGB {
	return RGB{R: c.Red(), G: c.Green(), B: c.Blue()}
}

// defaultForeground is used when a theme sets no text colour.
var defaultForeground = RGB{R: 0xc0, G: 0xc5, B: 0xce}

// Style is the canonical visual signature of a run. It is comparable and
// used directly as the tag cache key.
type Style struct {
	Color  RGB  `json:"color"`
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
}

// StyleRun styles Length runes starting at rune offset Start.
type StyleRun struct {
	Start  int `json:"start"`
	Length int `json:"length"`
	Style
}

// End returns the exclusive end offset.
func (r StyleRun) End() int {
	return r.Start + r.Length
}

// Token is one lexeme produced by an Engine.
type Token struct {
	Text  string
	Style Style
}
