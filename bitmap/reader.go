package bitmap

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/bodgit/sprgen/palette"
	"github.com/pkg/errors"
)

var (
	// ErrBadMagic is returned when the file does not start with "BM".
	ErrBadMagic = errors.New("bitmap: not a valid BMP file")
	// ErrBadDimensions is returned for a non-positive or oversized width or height.
	ErrBadDimensions = errors.New("bitmap: invalid dimensions")
	// ErrUnsupportedDepth is returned for anything other than 8, 24 or 32
	// bits per pixel.
	ErrUnsupportedDepth = errors.New("bitmap: unsupported bits per pixel")
	// ErrCompressed is returned for run-length encoded bitmaps.
	ErrCompressed = errors.New("bitmap: compressed bitmaps are not supported")
	// ErrUnsupportedMasks is returned for a bitfield bitmap whose channel
	// masks are not plain BGRx.
	ErrUnsupportedMasks = errors.New("bitmap: unsupported bitfield masks")
)

// Channel masks of a BGRx pixel, red first
var bgrxMasks = [3]uint32{0x00ff0000, 0x0000ff00, 0x000000ff}

// readFull is io.ReadFull that zeroes all of b if it cannot be filled.
func readFull(r io.Reader, b []byte) {
	if _, err := io.ReadFull(r, b); err != nil {
		for i := range b {
			b[i] = 0
		}
	}
}

type decoder struct {
	r  io.ReadSeeker
	fh fileHeader
	ih infoHeader

	palette *palette.Palette
	image   *image.Paletted
}

func (d *decoder) readHeader() error {
	if err := binary.Read(d.r, binary.LittleEndian, &d.fh); err != nil {
		return errors.Wrap(err, "bitmap: reading file header")
	}
	if d.fh.Type != [2]byte{'B', 'M'} {
		return ErrBadMagic
	}

	if err := binary.Read(d.r, binary.LittleEndian, &d.ih); err != nil {
		return errors.Wrap(err, "bitmap: reading info header")
	}

	if d.ih.Width <= 0 || d.ih.Height <= 0 || int64(d.ih.Width)*int64(d.ih.Height) > maxPixels {
		return errors.Wrapf(ErrBadDimensions, "%dx%d", d.ih.Width, d.ih.Height)
	}

	switch d.ih.BitCount {
	case 8, 24, 32:
	default:
		return errors.Wrapf(ErrUnsupportedDepth, "%d", d.ih.BitCount)
	}

	switch d.ih.Compression {
	case compressionRGB:
	case compressionBitfields:
		if d.ih.BitCount != 32 {
			return ErrCompressed
		}
		// The masks follow a 40 byte info header and sit at the same
		// offset within the larger versions
		var masks [3]uint32
		if err := binary.Read(d.r, binary.LittleEndian, &masks); err != nil {
			return errors.Wrap(err, "bitmap: reading bitfield masks")
		}
		if masks != bgrxMasks {
			return errors.Wrapf(ErrUnsupportedMasks, "%08x %08x %08x", masks[0], masks[1], masks[2])
		}
	default:
		return ErrCompressed
	}

	return nil
}

func (d *decoder) rowSize() int {
	return (int(d.ih.Width)*int(d.ih.BitCount) + 31) / 32 * 4
}

// readColorTable reads the color table that follows the info header. Any
// entries missing from a short file are black.
func (d *decoder) readColorTable() error {
	n := int(d.ih.ColorsUsed)
	if n == 0 || n > palette.Size {
		n = palette.Size
	}

	if _, err := d.r.Seek(fileHeaderSize+int64(d.ih.Size), io.SeekStart); err != nil {
		return errors.Wrap(err, "bitmap: seeking to color table")
	}

	d.palette = new(palette.Palette)
	var b [4]byte
	for i := 0; i < n; i++ {
		// Stored as BGRx
		readFull(d.r, b[:])
		d.palette[i] = palette.RGB{R: b[2], G: b[1], B: b[0]}
	}

	return nil
}

// readRows calls fn for every row in file order, which is bottom-up, with y
// already flipped.
func (d *decoder) readRows(fn func(y int, row []byte)) error {
	if _, err := d.r.Seek(int64(d.fh.OffBits), io.SeekStart); err != nil {
		return errors.Wrap(err, "bitmap: seeking to pixel data")
	}

	row := make([]byte, d.rowSize())
	for y := int(d.ih.Height) - 1; y >= 0; y-- {
		readFull(d.r, row)
		fn(y, row)
	}

	return nil
}

func (d *decoder) decodeIndexed() error {
	return d.readRows(func(y int, row []byte) {
		copy(d.image.Pix[y*d.image.Stride:], row[:d.image.Stride])
	})
}

func (d *decoder) decodeTrueColor(q palette.Quantizer) error {
	w, h := int(d.ih.Width), int(d.ih.Height)
	m := image.NewRGBA(image.Rect(0, 0, w, h))

	step := int(d.ih.BitCount) / 8
	if err := d.readRows(func(y int, row []byte) {
		p := m.Pix[y*m.Stride:]
		for x := 0; x < w; x++ {
			// Stored as BGR or BGRx
			p[x*4+0] = row[x*step+2]
			p[x*4+1] = row[x*step+1]
			p[x*4+2] = row[x*step+0]
			p[x*4+3] = 0xff
		}
	}); err != nil {
		return err
	}

	if d.palette == nil {
		d.palette = q.Establish(m)
	}

	cache := make(map[palette.RGB]uint8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := m.PixOffset(x, y)
			c := palette.RGB{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2]}
			idx, ok := cache[c]
			if !ok {
				idx = d.palette.Nearest(c)
				cache[c] = idx
			}
			d.image.Pix[y*d.image.Stride+x] = idx
		}
	}

	return nil
}

func (d *decoder) decode(r io.ReadSeeker, established *palette.Palette, q palette.Quantizer) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return err
	}

	d.image = image.NewPaletted(image.Rect(0, 0, int(d.ih.Width), int(d.ih.Height)), nil)

	if d.ih.BitCount == 8 {
		if established != nil {
			d.palette = established
		} else if err := d.readColorTable(); err != nil {
			return err
		}
		if err := d.decodeIndexed(); err != nil {
			return err
		}
	} else {
		d.palette = established
		if q == nil {
			q = palette.FirstSeen{}
		}
		if err := d.decodeTrueColor(q); err != nil {
			return err
		}
	}

	d.image.Palette = d.palette.Colors()

	return nil
}

// Decode reads a bitmap from r and returns it as an image of palette
// indices, one byte per pixel with the top row first, together with the
// palette the indices refer to.
//
// If established is non-nil it is returned unmodified and every pixel is
// expressed against it; an 8-bit bitmap then has its own color table
// ignored. Otherwise the palette is the 8-bit color table or, for true-color
// bitmaps, whatever q derives from the pixels. A nil q means
// palette.FirstSeen.
func Decode(r io.ReadSeeker, established *palette.Palette, q palette.Quantizer) (*image.Paletted, *palette.Palette, error) {
	var d decoder
	if err := d.decode(r, established, q); err != nil {
		return nil, nil, err
	}
	return d.image, d.palette, nil
}
