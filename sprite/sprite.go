/*
Package sprite implements the sprite package format read by the renderer.

A sprite package is a fixed header followed by an optional 256 color palette
and then the frames. Every frame is tagged as either a single frame, which is
an origin, a width and height and one palette index per pixel, or a group of
single frames each shown for a cumulative interval. All numbers are
little-endian.
*/
package sprite

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// Magic identifies a sprite package, "IDSP" on disk.
	Magic = 'P'<<24 | 'S'<<16 | 'D'<<8 | 'I'
	// Version is the format version written.
	Version = 2
)

// Type is the billboard orientation mode.
type Type int32

// Orientation modes.
const (
	VPParallelUpright Type = iota
	FacingUpright
	VPParallel
	Oriented
	VPParallelOriented
)

var typeNames = [...]string{
	"vp_parallel_upright",
	"facing_upright",
	"vp_parallel",
	"oriented",
	"vp_parallel_oriented",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("unknown(%d)", int32(t))
}

// ParseType returns the Type with the given script name.
func ParseType(s string) (Type, error) {
	for i, n := range typeNames {
		if n == s {
			return Type(i), nil
		}
	}
	return 0, errors.Errorf("bad type: %s", s)
}

// TexFormat is the alpha/blend mode applied by the renderer.
type TexFormat int32

// Texture formats.
const (
	Normal TexFormat = iota
	Additive
	IndexAlpha
	AlphaTest
)

var texFormatNames = [...]string{
	"normal",
	"additive",
	"indexalpha",
	"alphatest",
}

func (t TexFormat) String() string {
	if t >= 0 && int(t) < len(texFormatNames) {
		return texFormatNames[t]
	}
	return fmt.Sprintf("unknown(%d)", int32(t))
}

// ParseTexFormat returns the TexFormat with the given script name.
func ParseTexFormat(s string) (TexFormat, error) {
	for i, n := range texFormatNames {
		if n == s {
			return TexFormat(i), nil
		}
	}
	return 0, errors.Errorf("bad texture format: %s", s)
}

// SyncType controls whether animations start in step across instances.
type SyncType int32

// Sync types.
const (
	Synchronized SyncType = iota
	Random
)

func (s SyncType) String() string {
	switch s {
	case Synchronized:
		return "synchronized"
	case Random:
		return "random"
	}
	return fmt.Sprintf("unknown(%d)", int32(s))
}

// FrameType tags each top-level frame.
type FrameType int32

// Frame types.
const (
	SingleFrame FrameType = iota
	GroupFrame
)

// Header is the fixed header at the start of every sprite package.
type Header struct {
	Ident          int32
	Version        int32
	Type           Type
	TexFormat      TexFormat
	BoundingRadius float32
	Width          int32
	Height         int32
	NumFrames      int32
	BeamLength     float32
	SyncType       SyncType
}

// Valid reports whether the header carries the sprite magic number.
func (h Header) Valid() bool {
	return h.Ident == Magic
}
