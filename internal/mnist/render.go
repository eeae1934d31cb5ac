package mnist

import (
	"strings"
)

// shades is the five-level intensity ramp, darkest first.
var shades = []rune{' ', '░', '▒', '▓', '█'}

// Render draws an image as text, one line per row.
// Pixels are expected in [0, 1]; out-of-range values are clamped. An image whose length is
// not rows×columns renders as the empty string.
func Render(img []float32, rows, columns int) string {
	if len(img) != rows*columns {
		return ""
	}

	var b strings.Builder
	b.Grow(rows * (columns*3 + 1))
	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			b.WriteRune(shade(img[y*columns+x]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func shade(v float32) rune {
	i := int(v * float32(len(shades)))
	switch {
	case i < 0:
		i = 0
	case i >= len(shades):
		i = len(shades) - 1
	}
	return shades[i]
}
