package sprite

import (
	"encoding/binary"
	"io"

	"github.com/bodgit/sprgen/arena"
	"github.com/bodgit/sprgen/palette"
	"github.com/pkg/errors"
)

var (
	// ErrNoFrames is returned when encoding a sprite without frames.
	ErrNoFrames = errors.New("sprite: no frames")
	// ErrNoPalette is returned when a palette block is requested but the
	// sprite has none.
	ErrNoPalette = errors.New("sprite: no palette")
)

// Options control the layout of a sprite package.
type Options struct {
	// Palette includes the 16-bit palette block after the header.
	Palette bool
}

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) write(v interface{}) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.LittleEndian, v)
}

func (e *encoder) writeBytes(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) writePalette(p *palette.Palette) {
	e.write(int16(palette.Size))
	b := make([]byte, 0, palette.Size*3)
	for _, c := range p {
		b = append(b, c.R, c.G, c.B)
	}
	e.writeBytes(b)
}

func (e *encoder) writeFrames(a *arena.Arena) {
	descs := a.Descriptors()
	for i := 0; i < len(descs); i++ {
		switch d := descs[i]; d.Kind {
		case arena.Single:
			e.write(SingleFrame)
			e.writeBytes(a.Payload(d.Ref))
		case arena.Group:
			children := descs[i+1 : i+1+d.Children]

			e.write(GroupFrame)
			e.write(int32(d.Children))

			// Intervals are written as a running total
			var total float32
			for _, c := range children {
				total += c.Interval
				e.write(total)
			}

			for _, c := range children {
				e.writeBytes(a.Payload(c.Ref))
			}

			i += d.Children
		}
	}
}

// Encode writes the sprite s to w in sprite package format.
func Encode(w io.Writer, s *Sprite, o *Options) error {
	if s.frames.Len() == 0 {
		return ErrNoFrames
	}
	if o == nil {
		o = &Options{}
	}
	if o.Palette && s.Palette == nil {
		return ErrNoPalette
	}

	e := encoder{w: w}

	h := s.Header()
	e.write(&h)

	if o.Palette {
		e.writePalette(s.Palette)
	}

	e.writeFrames(s.frames)

	return e.err
}
