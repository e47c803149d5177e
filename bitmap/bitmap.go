/*
Package bitmap implements a decoder for uncompressed Windows bitmaps that
produces palette indices suitable for a sprite frame.

Only 8, 24 and 32 bits per pixel are supported. Rows are stored bottom-up on
disk and are flipped so the decoded image has its top row first. An 8-bit
bitmap brings its own color table whereas true-color pixels are mapped to the
nearest entry of a palette that is either supplied by the caller or derived
from the image itself.

Rows that cannot be read in full because the file is truncated are treated
as all zero bytes so the dimensions declared in the header are always
honoured.
*/
package bitmap

const (
	fileHeaderSize = 14

	// Guards against absurd dimensions in a corrupt header
	maxPixels = 1 << 28

	compressionRGB       = 0
	compressionBitfields = 3
)

type fileHeader struct {
	Type      [2]byte
	Size      uint32
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32
}

type infoHeader struct {
	Size            uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	SizeImage       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}
