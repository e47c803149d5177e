package sprite

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/bodgit/sprgen/palette"
	"github.com/pkg/errors"
)

// ErrBadMagic is returned when decoding something that is not a sprite
// package.
var ErrBadMagic = errors.New("sprite: invalid magic number")

const maxFramePixels = 1 << 28

// Frame is a decoded single frame.
type Frame struct {
	Origin        image.Point
	Width, Height int
	Pix           []byte
}

// Entry is one top-level frame. A single frame has exactly one element in
// Frames and no Intervals; a group has one cumulative interval per frame.
type Entry struct {
	Type      FrameType
	Intervals []float32
	Frames    []Frame
}

// Package is a fully decoded sprite package.
type Package struct {
	Header  Header
	Palette *palette.Palette
	Entries []Entry
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// DecodeHeader reads just the fixed header. The magic number is not
// checked; see Header.Valid.
func DecodeHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, errors.Wrap(err, "sprite: reading header")
	}
	return h, nil
}

func decodeFrame(r io.Reader) (Frame, error) {
	var fh struct {
		Origin        [2]int32
		Width, Height int32
	}
	if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
		return Frame{}, errors.Wrap(err, "sprite: reading frame header")
	}
	if fh.Width <= 0 || fh.Height <= 0 || int64(fh.Width)*int64(fh.Height) > maxFramePixels {
		return Frame{}, errors.Errorf("sprite: invalid frame size %dx%d", fh.Width, fh.Height)
	}

	f := Frame{
		Origin: image.Pt(int(fh.Origin[0]), int(fh.Origin[1])),
		Width:  int(fh.Width),
		Height: int(fh.Height),
		Pix:    make([]byte, int(fh.Width)*int(fh.Height)),
	}
	if err := readFull(r, f.Pix); err != nil {
		return Frame{}, errors.Wrap(err, "sprite: reading frame pixels")
	}
	return f, nil
}

func decodeEntry(r io.Reader) (Entry, error) {
	var e Entry
	if err := binary.Read(r, binary.LittleEndian, &e.Type); err != nil {
		return e, errors.Wrap(err, "sprite: reading frame type")
	}

	switch e.Type {
	case SingleFrame:
		f, err := decodeFrame(r)
		if err != nil {
			return e, err
		}
		e.Frames = []Frame{f}
	case GroupFrame:
		var n int32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return e, errors.Wrap(err, "sprite: reading group size")
		}
		if n <= 0 || n > 1<<20 {
			return e, errors.Errorf("sprite: invalid group size %d", n)
		}
		e.Intervals = make([]float32, n)
		if err := binary.Read(r, binary.LittleEndian, e.Intervals); err != nil {
			return e, errors.Wrap(err, "sprite: reading group intervals")
		}
		for i := int32(0); i < n; i++ {
			f, err := decodeFrame(r)
			if err != nil {
				return e, err
			}
			e.Frames = append(e.Frames, f)
		}
	default:
		return e, errors.Errorf("sprite: unknown frame type %d", e.Type)
	}

	return e, nil
}

// Decode reads a complete sprite package from r. The options must match
// those the package was encoded with as the palette block is not
// self-describing.
func Decode(r io.Reader, o *Options) (*Package, error) {
	if o == nil {
		o = &Options{}
	}

	h, err := DecodeHeader(r)
	if err != nil {
		return nil, err
	}
	if !h.Valid() {
		return nil, ErrBadMagic
	}
	if h.Version != Version {
		return nil, errors.Errorf("sprite: unsupported version %d", h.Version)
	}

	p := &Package{Header: h}

	if o.Palette {
		var n int16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, errors.Wrap(err, "sprite: reading palette size")
		}
		if n != palette.Size {
			return nil, errors.Errorf("sprite: unexpected palette size %d", n)
		}
		b := make([]byte, palette.Size*3)
		if err := readFull(r, b); err != nil {
			return nil, errors.Wrap(err, "sprite: reading palette")
		}
		p.Palette = new(palette.Palette)
		for i := range p.Palette {
			p.Palette[i] = palette.RGB{R: b[i*3], G: b[i*3+1], B: b[i*3+2]}
		}
	}

	for i := int32(0); i < h.NumFrames; i++ {
		e, err := decodeEntry(r)
		if err != nil {
			return nil, err
		}
		p.Entries = append(p.Entries, e)
	}

	return p, nil
}
