package palette

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

// A Quantizer derives a palette from a true-color image.
type Quantizer interface {
	Establish(m image.Image) *Palette
}

// FirstSeen keeps the first Size distinct colors found while scanning the
// image from the bottom row upwards, left to right within each row. This is
// the order rows are stored in an uncompressed bitmap.
type FirstSeen struct{}

// Establish implements the Quantizer interface.
func (FirstSeen) Establish(m image.Image) *Palette {
	p := new(Palette)
	seen := make(map[RGB]struct{}, Size)

	b := m.Bounds()
	for y := b.Max.Y - 1; y >= b.Min.Y && len(seen) < Size; y-- {
		for x := b.Min.X; x < b.Max.X && len(seen) < Size; x++ {
			c := Model.Convert(m.At(x, y)).(RGB)
			if _, ok := seen[c]; ok {
				continue
			}
			p[len(seen)] = c
			seen[c] = struct{}{}
		}
	}

	return p
}

// MedianCut derives the palette with a median cut quantizer, so frequent
// colors are favoured over the scan order.
type MedianCut struct{}

// Establish implements the Quantizer interface.
func (MedianCut) Establish(m image.Image) *Palette {
	q := quantize.MedianCutQuantizer{}
	return New(q.Quantize(make(color.Palette, 0, Size), m))
}

// ByName returns the Quantizer registered under name, either "first" or
// "median".
func ByName(name string) (Quantizer, bool) {
	switch name {
	case "", "first":
		return FirstSeen{}, true
	case "median":
		return MedianCut{}, true
	}
	return nil, false
}
