/*
Package arena implements the growable store that holds the frames of the
sprite being compiled.

Pixel payloads live in one contiguous byte store and are addressed by their
offset, so a Ref stays valid however often the store has to grow. Each
payload is a little-endian frame header (origin x and y, width, height as
32-bit integers) followed by the palette indices of the frame, top row
first, which is exactly how a single frame is serialized.

Frame descriptors are kept in a separate list in the order frames were
emitted; a group is a descriptor of its own followed by the descriptors of
its children.
*/
package arena

import (
	"encoding/binary"
	"image"

	"github.com/pkg/errors"
)

const (
	// DefaultSize is the initial capacity of the pixel store in bytes.
	DefaultSize = 0x100000
	// DefaultFrames is the initial capacity of the descriptor list.
	DefaultFrames = 1000
	// HeaderSize is the size of the header preceding each pixel block.
	HeaderSize = 16
)

var (
	// ErrEmptyGroup is returned when closing a group with no frames.
	ErrEmptyGroup = errors.New("arena: empty group")
	// ErrNestedGroup is returned when opening a group inside a group.
	ErrNestedGroup = errors.New("arena: group already open")
	// ErrNoGroup is returned when closing a group that was never opened.
	ErrNoGroup = errors.New("arena: no group open")
	// ErrShortPixels is returned when the pixels do not cover the frame.
	ErrShortPixels = errors.New("arena: not enough pixel data")
)

// Kind distinguishes single frames from groups.
type Kind int

const (
	// Single is a frame with pixel data.
	Single Kind = iota
	// Group is a set of timed single frames.
	Group
)

// Ref is the offset of a single frame payload within the store.
type Ref int

// Descriptor describes one entry in the frame list.
type Descriptor struct {
	Kind     Kind
	Ref      Ref     // Single only
	Interval float32 // Single only
	Children int     // Group only
}

// Frame is a decoded view of a single frame payload.
type Frame struct {
	Origin        image.Point
	Width, Height int
	Pix           []byte
}

// Arena holds the frames of one sprite.
type Arena struct {
	store []byte
	descs []Descriptor
	group int // index of the open group descriptor, or -1
	grows int
}

// New returns an Arena with room for size bytes of payload and the given
// number of descriptors before it has to grow. Non-positive values select
// DefaultSize and DefaultFrames.
func New(size, frames int) *Arena {
	if size <= 0 {
		size = DefaultSize
	}
	if frames <= 0 {
		frames = DefaultFrames
	}
	return &Arena{
		store: make([]byte, 0, size),
		descs: make([]Descriptor, 0, frames),
		group: -1,
	}
}

func grownCap(c, need int) int {
	if c < 1 {
		c = 1
	}
	for c < need {
		c <<= 1
	}
	return c
}

// reserve extends the store by n bytes and returns them. When the store is
// full it is reallocated at double the capacity; refs are offsets and so
// survive the move.
func (a *Arena) reserve(n int) []byte {
	start := len(a.store)
	need := start + n
	if need > cap(a.store) {
		store := make([]byte, start, grownCap(cap(a.store)<<1, need))
		copy(store, a.store)
		a.store = store
		a.grows++
	}
	a.store = a.store[:need]
	return a.store[start:need]
}

func (a *Arena) appendDescriptor(d Descriptor) int {
	if len(a.descs) == cap(a.descs) {
		descs := make([]Descriptor, len(a.descs), grownCap(cap(a.descs)<<1, len(a.descs)+1))
		copy(descs, a.descs)
		a.descs = descs
	}
	a.descs = append(a.descs, d)
	return len(a.descs) - 1
}

// EmitSingle appends a single frame of width by height pixels taken from
// pix, whose rows are stride bytes apart. If a group is open the frame
// becomes its next child.
func (a *Arena) EmitSingle(origin image.Point, width, height int, pix []byte, stride int, interval float32) (Ref, error) {
	if width <= 0 || height <= 0 || len(pix) < (height-1)*stride+width {
		return 0, ErrShortPixels
	}

	ref := Ref(len(a.store))
	b := a.reserve(HeaderSize + width*height)

	binary.LittleEndian.PutUint32(b[0:], uint32(int32(origin.X)))
	binary.LittleEndian.PutUint32(b[4:], uint32(int32(origin.Y)))
	binary.LittleEndian.PutUint32(b[8:], uint32(int32(width)))
	binary.LittleEndian.PutUint32(b[12:], uint32(int32(height)))

	dst := b[HeaderSize:]
	for y := 0; y < height; y++ {
		copy(dst[y*width:(y+1)*width], pix[y*stride:])
	}

	a.appendDescriptor(Descriptor{
		Kind:     Single,
		Ref:      ref,
		Interval: interval,
	})
	if a.group >= 0 {
		a.descs[a.group].Children++
	}

	return ref, nil
}

// OpenGroup starts a group; subsequent frames become its children until
// CloseGroup is called.
func (a *Arena) OpenGroup() error {
	if a.group >= 0 {
		return ErrNestedGroup
	}
	a.group = a.appendDescriptor(Descriptor{Kind: Group})
	return nil
}

// CloseGroup ends the open group and returns how many frames it holds.
func (a *Arena) CloseGroup() (int, error) {
	if a.group < 0 {
		return 0, ErrNoGroup
	}
	n := a.descs[a.group].Children
	a.group = -1
	if n == 0 {
		return 0, ErrEmptyGroup
	}
	return n, nil
}

// InGroup reports whether a group is open.
func (a *Arena) InGroup() bool {
	return a.group >= 0
}

// Payload returns the stored header and pixels of the frame at ref. The
// slice aliases the store and is only valid until the next emit.
func (a *Arena) Payload(ref Ref) []byte {
	width := int(int32(binary.LittleEndian.Uint32(a.store[ref+8:])))
	height := int(int32(binary.LittleEndian.Uint32(a.store[ref+12:])))
	return a.store[ref : int(ref)+HeaderSize+width*height]
}

// Frame decodes the frame at ref.
func (a *Arena) Frame(ref Ref) Frame {
	b := a.Payload(ref)
	return Frame{
		Origin: image.Pt(
			int(int32(binary.LittleEndian.Uint32(b[0:]))),
			int(int32(binary.LittleEndian.Uint32(b[4:]))),
		),
		Width:  int(int32(binary.LittleEndian.Uint32(b[8:]))),
		Height: int(int32(binary.LittleEndian.Uint32(b[12:]))),
		Pix:    b[HeaderSize:],
	}
}

// Descriptors returns the frame list in emit order.
func (a *Arena) Descriptors() []Descriptor {
	return a.descs
}

// Len returns the number of descriptors, counting groups and their
// children separately.
func (a *Arena) Len() int {
	return len(a.descs)
}

// TopLevel returns the number of top-level frames, where a group counts
// once regardless of its children.
func (a *Arena) TopLevel() int {
	n := 0
	for i := 0; i < len(a.descs); i++ {
		n++
		if a.descs[i].Kind == Group {
			i += a.descs[i].Children
		}
	}
	return n
}

// Size returns the number of payload bytes stored.
func (a *Arena) Size() int {
	return len(a.store)
}

// Cap returns the current capacity of the payload store.
func (a *Arena) Cap() int {
	return cap(a.store)
}

// Grows returns how many times the payload store has been reallocated.
func (a *Arena) Grows() int {
	return a.grows
}

// Reset empties the arena for the next sprite, keeping its capacity. All
// outstanding refs become invalid.
func (a *Arena) Reset() {
	a.store = a.store[:0]
	a.descs = a.descs[:0]
	a.group = -1
}
