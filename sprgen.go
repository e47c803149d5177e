/*
Package sprgen compiles sprite scripts and bitmaps into sprite packages.

A script is a sequence of directives, one per line:

	$spritename torch
	$type vp_parallel_upright
	$texture additive
	$beamlength 0
	$sync
	$load torch.bmp
	$frame 0 0 32 64
	$groupstart
	$frame 32 0 32 64 0.1
	$frame 64 0 32 64 0.2 16 64
	$groupend

The leading "$" is optional. Each spritename starts a new sprite which is
written next to the script as <name>.spr once the next spritename or the end
of the script is reached.
*/
package sprgen

import (
	"os"
	"path/filepath"

	"github.com/bodgit/sprgen/palette"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

// Options configure a Compiler.
type Options struct {
	// Palette16 writes the 16-bit palette block into each package.
	Palette16 bool
	// Output overrides the output path. It can only be used with a script
	// defining a single sprite.
	Output string
	// Quantizer establishes palettes from true-color bitmaps. Defaults to
	// palette.FirstSeen.
	Quantizer palette.Quantizer
	// ArenaSize and MaxFrames set the initial capacity of the frame arena.
	ArenaSize int
	MaxFrames int
	// Catalog, if set, is told about every package written.
	Catalog Recorder
}

// Result describes one sprite package written by the compiler.
type Result struct {
	Name   string
	Path   string
	Script string
	SHA1   string
	Width  int
	Height int
	Frames int // Top-level frames
	Total  int // Frames including group headers and children
	Size   int
}

// Recorder is told about each sprite package written. Lookup returns the
// previous record for a path, or nil.
type Recorder interface {
	Lookup(path string) (*Result, error)
	Record(Result) error
}

// Compiler compiles sprite scripts.
type Compiler struct {
	logger hclog.Logger
	opts   Options
}

// New returns a Compiler. A nil logger discards all output.
func New(logger hclog.Logger, opts Options) *Compiler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.Quantizer == nil {
		opts.Quantizer = palette.FirstSeen{}
	}
	return &Compiler{
		logger: logger,
		opts:   opts,
	}
}

// CompileFile compiles the script in file. Bitmaps and output packages are
// relative to the directory containing the script.
func (c *Compiler) CompileFile(file string) ([]Result, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "reading script")
	}
	return c.Compile(b, file, filepath.Dir(file))
}

// Compile compiles the script src, named file in any errors, resolving
// relative paths against dir. On failure the packages already written are
// returned alongside the error.
func (c *Compiler) Compile(src []byte, file, dir string) ([]Result, error) {
	s := newSession(c, src, file, dir)
	err := s.run()
	return s.results, err
}
