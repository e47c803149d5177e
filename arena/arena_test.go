package arena

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixels(w, h int, seed byte) []byte {
	b := make([]byte, w*h)
	for i := range b {
		b[i] = seed + byte(i)
	}
	return b
}

func TestEmitSingle(t *testing.T) {
	a := New(0, 0)
	assert.Equal(t, DefaultSize, a.Cap())

	// 3x2 window out of a 5 pixel wide source
	src := pixels(5, 4, 0)
	ref, err := a.EmitSingle(image.Pt(-1, 1), 3, 2, src[5+1:], 5, 0.1)
	require.NoError(t, err)

	f := a.Frame(ref)
	assert.Equal(t, image.Pt(-1, 1), f.Origin)
	assert.Equal(t, 3, f.Width)
	assert.Equal(t, 2, f.Height)
	assert.Equal(t, []byte{6, 7, 8, 11, 12, 13}, f.Pix)

	assert.Equal(t, []byte{
		0xff, 0xff, 0xff, 0xff,
		0x01, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		6, 7, 8, 11, 12, 13,
	}, a.Payload(ref))

	assert.Equal(t, []Descriptor{{Kind: Single, Ref: ref, Interval: 0.1}}, a.Descriptors())
	assert.Equal(t, HeaderSize+6, a.Size())
}

func TestEmitSingleShort(t *testing.T) {
	a := New(0, 0)
	_, err := a.EmitSingle(image.Point{}, 4, 4, make([]byte, 15), 4, 0.1)
	assert.Equal(t, ErrShortPixels, err)
	_, err = a.EmitSingle(image.Point{}, 0, 4, make([]byte, 16), 4, 0.1)
	assert.Equal(t, ErrShortPixels, err)
	assert.Equal(t, 0, a.Len())
}

func TestGrowth(t *testing.T) {
	small := New(1, 1)
	large := New(1<<20, 64)

	var refs []Ref
	for i := 0; i < 40; i++ {
		w, h := 1+i%7, 1+i%5
		pix := pixels(w, h, byte(i))

		ref, err := small.EmitSingle(image.Pt(i, -i), w, h, pix, w, float32(i+1))
		require.NoError(t, err)
		refs = append(refs, ref)

		_, err = large.EmitSingle(image.Pt(i, -i), w, h, pix, w, float32(i+1))
		require.NoError(t, err)
	}

	assert.Greater(t, small.Grows(), 1)
	assert.Equal(t, 0, large.Grows())
	assert.Equal(t, large.store, small.store)
	assert.Equal(t, large.Descriptors(), small.Descriptors())

	// Refs handed out before any growth still resolve
	for i, ref := range refs {
		f := small.Frame(ref)
		assert.Equal(t, image.Pt(i, -i), f.Origin)
		assert.Equal(t, pixels(f.Width, f.Height, byte(i)), f.Pix)
	}
}

func TestGrowthDoubles(t *testing.T) {
	a := New(16, 1)
	_, err := a.EmitSingle(image.Point{}, 1, 1, []byte{1}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 32, a.Cap())

	// Doubling is not enough for a large frame
	_, err = a.EmitSingle(image.Point{}, 10, 10, make([]byte, 100), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 256, a.Cap())
	assert.Equal(t, 2, a.Grows())
}

func TestGroups(t *testing.T) {
	a := New(0, 0)
	px := []byte{1}

	_, err := a.EmitSingle(image.Point{}, 1, 1, px, 1, 0.1)
	require.NoError(t, err)

	require.NoError(t, a.OpenGroup())
	assert.True(t, a.InGroup())
	assert.Equal(t, ErrNestedGroup, a.OpenGroup())
	for _, d := range []float32{0.1, 0.2, 0.3} {
		_, err = a.EmitSingle(image.Point{}, 1, 1, px, 1, d)
		require.NoError(t, err)
	}
	n, err := a.CloseGroup()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, a.InGroup())

	_, err = a.EmitSingle(image.Point{}, 1, 1, px, 1, 0.1)
	require.NoError(t, err)

	assert.Equal(t, 6, a.Len())
	assert.Equal(t, 3, a.TopLevel())

	kinds := []Kind{}
	for _, d := range a.Descriptors() {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []Kind{Single, Group, Single, Single, Single, Single}, kinds)
	assert.Equal(t, 3, a.Descriptors()[1].Children)
}

func TestGroupErrors(t *testing.T) {
	a := New(0, 0)

	_, err := a.CloseGroup()
	assert.Equal(t, ErrNoGroup, err)

	require.NoError(t, a.OpenGroup())
	_, err = a.CloseGroup()
	assert.Equal(t, ErrEmptyGroup, err)
	assert.False(t, a.InGroup())
}

func TestReset(t *testing.T) {
	a := New(1, 1)
	require.NoError(t, a.OpenGroup())
	_, err := a.EmitSingle(image.Point{}, 4, 4, make([]byte, 16), 4, 1)
	require.NoError(t, err)

	c := a.Cap()
	a.Reset()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, a.Size())
	assert.Equal(t, 0, a.TopLevel())
	assert.Equal(t, c, a.Cap())
	assert.False(t, a.InGroup())
}
