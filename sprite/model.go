package sprite

import (
	"image"
	"math"

	"github.com/bodgit/sprgen/arena"
	"github.com/bodgit/sprgen/palette"
)

// Sprite is a sprite under construction. Its frames live in an arena and its
// overall dimensions are derived from the frames added.
type Sprite struct {
	Type       Type
	TexFormat  TexFormat
	BeamLength float32
	SyncType   SyncType
	Palette    *palette.Palette

	frames *arena.Arena
	maxs   image.Point
}

// New returns a sprite with default settings storing its frames in a,
// which is reset first.
func New(a *arena.Arena) *Sprite {
	a.Reset()
	return &Sprite{
		Type:      VPParallelUpright,
		TexFormat: Normal,
		SyncType:  Random,
		frames:    a,
	}
}

// AddFrame adds a single frame of width by height pixels from pix, whose
// rows are stride bytes apart, to the sprite or to the open group.
func (s *Sprite) AddFrame(origin image.Point, width, height int, pix []byte, stride int, interval float32) error {
	if _, err := s.frames.EmitSingle(origin, width, height, pix, stride, interval); err != nil {
		return err
	}
	if width > s.maxs.X {
		s.maxs.X = width
	}
	if height > s.maxs.Y {
		s.maxs.Y = height
	}
	return nil
}

// OpenGroup starts a frame group.
func (s *Sprite) OpenGroup() error {
	return s.frames.OpenGroup()
}

// CloseGroup ends the open frame group, which must not be empty.
func (s *Sprite) CloseGroup() error {
	_, err := s.frames.CloseGroup()
	return err
}

// InGroup reports whether a frame group is open.
func (s *Sprite) InGroup() bool {
	return s.frames.InGroup()
}

// Frames returns the arena holding the frames.
func (s *Sprite) Frames() *arena.Arena {
	return s.frames
}

// Width returns the widest frame added so far.
func (s *Sprite) Width() int {
	return s.maxs.X
}

// Height returns the tallest frame added so far.
func (s *Sprite) Height() int {
	return s.maxs.Y
}

// BoundingRadius returns the radius of the circle enclosing the largest
// frame, using truncated half extents.
func (s *Sprite) BoundingRadius() float32 {
	hw, hh := s.maxs.X>>1, s.maxs.Y>>1
	return float32(math.Sqrt(float64(hw*hw + hh*hh)))
}

// Header returns the package header for the sprite in its current state.
func (s *Sprite) Header() Header {
	return Header{
		Ident:          Magic,
		Version:        Version,
		Type:           s.Type,
		TexFormat:      s.TexFormat,
		BoundingRadius: s.BoundingRadius(),
		Width:          int32(s.maxs.X),
		Height:         int32(s.maxs.Y),
		NumFrames:      int32(s.frames.TopLevel()),
		BeamLength:     s.BeamLength,
		SyncType:       s.SyncType,
	}
}
