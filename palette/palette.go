/*
Package palette implements the fixed size color palette shared by every frame
of a sprite.

A palette is established once per sprite, either by copying the color table
of an indexed bitmap or by deriving one from a true-color bitmap with a
Quantizer, and is then reused unmodified so that pixel indices stay
consistent across an animation.
*/
package palette

import (
	"image/color"
)

// Size is the number of entries in every palette.
const Size = 256

// RGB is a single opaque palette entry. It implements color.Color.
type RGB struct {
	R, G, B uint8
}

// RGBA implements the color.Color interface.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Model converts any color to RGB, dropping alpha.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if rgb, ok := c.(RGB); ok {
		return rgb
	}
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
})

// Palette is a complete table of Size colors. Unused entries are black.
type Palette [Size]RGB

// New returns a palette holding the first Size colors of c, with any
// remaining entries left black.
func New(c []color.Color) *Palette {
	p := new(Palette)
	for i := 0; i < len(c) && i < Size; i++ {
		p[i] = Model.Convert(c[i]).(RGB)
	}
	return p
}

func sqDiff(x, y uint8) int {
	d := int(x) - int(y)
	return d * d
}

// Distance returns the squared euclidean distance between two colors.
func Distance(c1, c2 RGB) int {
	return sqDiff(c1.R, c2.R) + sqDiff(c1.G, c2.G) + sqDiff(c1.B, c2.B)
}

// Nearest returns the index of the entry closest to c. Ties resolve to the
// lowest index.
func (p *Palette) Nearest(c RGB) uint8 {
	best, bestSum := 0, Distance(c, p[0])
	for i := 1; i < Size && bestSum > 0; i++ {
		if sum := Distance(c, p[i]); sum < bestSum {
			best, bestSum = i, sum
		}
	}
	return uint8(best)
}

// Colors returns the palette as a color.Palette suitable for an
// image.Paletted.
func (p *Palette) Colors() color.Palette {
	cp := make(color.Palette, Size)
	for i, c := range p {
		cp[i] = c
	}
	return cp
}
