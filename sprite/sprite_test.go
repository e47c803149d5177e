package sprite

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"math"
	"testing"

	"github.com/bodgit/sprgen/arena"
	"github.com/bodgit/sprgen/palette"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerSize = 40

func block(w, h int, v byte) []byte {
	return bytes.Repeat([]byte{v}, w*h)
}

func testPalette() *palette.Palette {
	return palette.New([]color.Color{palette.RGB{R: 1, G: 2, B: 3}, palette.RGB{R: 4, G: 5, B: 6}})
}

func TestParse(t *testing.T) {
	for i, n := range typeNames {
		typ, err := ParseType(n)
		require.NoError(t, err)
		assert.Equal(t, Type(i), typ)
		assert.Equal(t, n, typ.String())
	}
	_, err := ParseType("sideways")
	assert.EqualError(t, err, "bad type: sideways")

	for i, n := range texFormatNames {
		tf, err := ParseTexFormat(n)
		require.NoError(t, err)
		assert.Equal(t, TexFormat(i), tf)
		assert.Equal(t, n, tf.String())
	}
	_, err = ParseTexFormat("alphachannel")
	assert.Error(t, err)

	assert.Equal(t, "unknown(9)", Type(9).String())
	assert.Equal(t, "random", Random.String())
	assert.Equal(t, "synchronized", Synchronized.String())
}

func TestNewDefaults(t *testing.T) {
	s := New(arena.New(0, 0))
	assert.Equal(t, VPParallelUpright, s.Type)
	assert.Equal(t, Normal, s.TexFormat)
	assert.Equal(t, Random, s.SyncType)
	assert.Equal(t, float32(0), s.BeamLength)
}

func TestEncodeSingle(t *testing.T) {
	s := New(arena.New(0, 0))
	s.Palette = testPalette()
	require.NoError(t, s.AddFrame(image.Pt(-2, 2), 4, 4, block(4, 4, 1), 4, 0.1))

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, s, &Options{Palette: true}))

	assert.Equal(t, []byte("IDSP"), b.Bytes()[:4])
	assert.Equal(t, headerSize+2+palette.Size*3+4+16+16, b.Len())

	p, err := Decode(bytes.NewReader(b.Bytes()), &Options{Palette: true})
	require.NoError(t, err)

	assert.Equal(t, Header{
		Ident:          Magic,
		Version:        Version,
		Type:           VPParallelUpright,
		TexFormat:      Normal,
		BoundingRadius: float32(math.Sqrt(8)),
		Width:          4,
		Height:         4,
		NumFrames:      1,
		SyncType:       Random,
	}, p.Header)
	assert.Equal(t, s.Palette, p.Palette)

	require.Len(t, p.Entries, 1)
	assert.Equal(t, SingleFrame, p.Entries[0].Type)
	assert.Equal(t, []Frame{{Origin: image.Pt(-2, 2), Width: 4, Height: 4, Pix: block(4, 4, 1)}}, p.Entries[0].Frames)
}

func TestEncodeNoPalette(t *testing.T) {
	s := New(arena.New(0, 0))
	require.NoError(t, s.AddFrame(image.Point{}, 2, 3, block(2, 3, 9), 2, 0.1))

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, s, nil))
	assert.Equal(t, headerSize+4+16+6, b.Len())

	// Frame type tag straight after the header
	assert.Equal(t, uint32(SingleFrame), binary.LittleEndian.Uint32(b.Bytes()[headerSize:]))
}

func TestEncodeGroup(t *testing.T) {
	s := New(arena.New(0, 0))
	s.Palette = testPalette()
	s.SyncType = Synchronized
	s.BeamLength = 1.5

	require.NoError(t, s.AddFrame(image.Point{}, 2, 2, block(2, 2, 0), 2, 0.1))
	require.NoError(t, s.OpenGroup())
	assert.True(t, s.InGroup())
	require.NoError(t, s.AddFrame(image.Pt(-1, 1), 3, 2, block(3, 2, 1), 3, 0.1))
	require.NoError(t, s.AddFrame(image.Pt(-2, 3), 4, 6, block(4, 6, 2), 4, 0.2))
	require.NoError(t, s.AddFrame(image.Pt(-1, 1), 2, 2, block(2, 2, 3), 2, 0.3))
	require.NoError(t, s.CloseGroup())

	assert.Equal(t, 4, s.Width())
	assert.Equal(t, 6, s.Height())

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, s, &Options{Palette: true}))

	p, err := Decode(bytes.NewReader(b.Bytes()), &Options{Palette: true})
	require.NoError(t, err)

	assert.Equal(t, int32(2), p.Header.NumFrames)
	assert.Equal(t, int32(4), p.Header.Width)
	assert.Equal(t, int32(6), p.Header.Height)
	assert.Equal(t, float32(1.5), p.Header.BeamLength)
	assert.Equal(t, Synchronized, p.Header.SyncType)

	require.Len(t, p.Entries, 2)
	g := p.Entries[1]
	assert.Equal(t, GroupFrame, g.Type)
	require.Len(t, g.Intervals, 3)
	assert.InDelta(t, 0.1, g.Intervals[0], 1e-6)
	assert.InDelta(t, 0.3, g.Intervals[1], 1e-6)
	assert.InDelta(t, 0.6, g.Intervals[2], 1e-6)
	for i := 1; i < len(g.Intervals); i++ {
		assert.GreaterOrEqual(t, g.Intervals[i], g.Intervals[i-1])
	}

	require.Len(t, g.Frames, 3)
	assert.Equal(t, Frame{Origin: image.Pt(-2, 3), Width: 4, Height: 6, Pix: block(4, 6, 2)}, g.Frames[1])
}

func TestEncodeErrors(t *testing.T) {
	s := New(arena.New(0, 0))
	assert.Equal(t, ErrNoFrames, Encode(new(bytes.Buffer), s, nil))

	require.NoError(t, s.AddFrame(image.Point{}, 1, 1, []byte{0}, 1, 0.1))
	assert.Equal(t, ErrNoPalette, Encode(new(bytes.Buffer), s, &Options{Palette: true}))
}

func TestBoundingRadius(t *testing.T) {
	s := New(arena.New(0, 0))
	require.NoError(t, s.AddFrame(image.Point{}, 5, 1, block(5, 1, 0), 5, 0.1))
	require.NoError(t, s.AddFrame(image.Point{}, 1, 3, block(1, 3, 0), 1, 0.1))

	// Half extents truncate to 2 and 1
	assert.Equal(t, float32(math.Sqrt(5)), s.BoundingRadius())
}

func TestEncodeArenaGrowth(t *testing.T) {
	build := func(a *arena.Arena) []byte {
		s := New(a)
		s.Palette = testPalette()
		for i := 0; i < 30; i++ {
			if i%10 == 0 {
				require.NoError(t, s.OpenGroup())
			}
			w, h := 8+i, 4+i%3
			require.NoError(t, s.AddFrame(image.Pt(-w/2, h/2), w, h, block(w, h, byte(i)), w, float32(i+1)/10))
			if i%10 == 4 {
				require.NoError(t, s.CloseGroup())
			}
		}
		b := new(bytes.Buffer)
		require.NoError(t, Encode(b, s, &Options{Palette: true}))
		return b.Bytes()
	}

	small := arena.New(1, 1)
	got := build(small)
	assert.Greater(t, small.Grows(), 0)

	assert.Equal(t, build(arena.New(1<<20, 1000)), got)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(bytes.NewReader(make([]byte, headerSize)), nil)
	assert.Equal(t, ErrBadMagic, errors.Cause(err))

	_, err = Decode(bytes.NewReader([]byte("IDSP")), nil)
	assert.Error(t, err)

	s := New(arena.New(0, 0))
	require.NoError(t, s.AddFrame(image.Point{}, 2, 2, block(2, 2, 0), 2, 0.1))
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, s, nil))

	_, err = Decode(bytes.NewReader(b.Bytes()[:b.Len()-1]), nil)
	assert.Equal(t, io.ErrUnexpectedEOF, errors.Cause(err))
}

func TestDecodeHeader(t *testing.T) {
	s := New(arena.New(0, 0))
	s.Type = Oriented
	s.TexFormat = IndexAlpha
	require.NoError(t, s.AddFrame(image.Point{}, 2, 2, block(2, 2, 0), 2, 0.1))

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, s, nil))

	h, err := DecodeHeader(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	assert.True(t, h.Valid())
	assert.Equal(t, Oriented, h.Type)
	assert.Equal(t, IndexAlpha, h.TexFormat)
	assert.Equal(t, s.Header(), h)
}
