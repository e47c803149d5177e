package sprgen

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/sprgen/arena"
	"github.com/bodgit/sprgen/bitmap"
	"github.com/bodgit/sprgen/script"
	"github.com/bodgit/sprgen/sprite"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

const defaultInterval = 0.1

var directives map[string]func(*session) error

func init() {
	directives = map[string]func(*session) error{
		"spritename": (*session).spriteName,
		"type":       (*session).spriteType,
		"texture":    (*session).texture,
		"beamlength": (*session).beamLength,
		"sync":       (*session).sync,
		"load":       (*session).load,
		"frame":      (*session).frame,
		"groupstart": (*session).groupStart,
		"groupend":   (*session).groupEnd,
	}
}

func directive(tok string) string {
	return strings.TrimPrefix(tok, "$")
}

// session holds the state of one pass over one script.
type session struct {
	c    *Compiler
	file string
	dir  string
	tok  *script.Tokenizer

	arena        *arena.Arena
	overrideUsed bool
	// The open sprite was opened by the override rather than a spritename
	implicit bool

	// The sprite being built, nil when no sprite is open
	sprite *sprite.Sprite
	name   string
	out    string
	image  *image.Paletted

	results []Result
}

func newSession(c *Compiler, src []byte, file, dir string) *session {
	return &session{
		c:     c,
		file:  file,
		dir:   dir,
		tok:   script.New(src),
		arena: arena.New(c.opts.ArenaSize, c.opts.MaxFrames),
	}
}

func (s *session) fail(err error) error {
	return &ScriptError{
		File: s.file,
		Line: s.tok.Line(),
		Err:  err,
	}
}

func (s *session) run() error {
	for {
		tok, ok, err := s.tok.Next(true)
		if err != nil {
			return s.fail(err)
		}
		if !ok {
			break
		}

		name := directive(tok)
		if s.inGroup() {
			switch name {
			case "frame", "load", "groupend":
			default:
				return s.fail(errors.Wrap(ErrGroupDirective, tok))
			}
		}

		fn, ok := directives[name]
		if !ok {
			return s.fail(errors.Wrap(ErrUnknownDirective, tok))
		}
		if err := fn(s); err != nil {
			return s.fail(err)
		}
	}

	if s.inGroup() {
		return s.fail(ErrUnterminatedGroup)
	}

	if err := s.flush(); err != nil {
		return s.fail(err)
	}

	return nil
}

// arg returns the next argument on the current line.
func (s *session) arg(what string) (string, error) {
	tok, ok, err := s.tok.Next(false)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.Wrap(ErrMissingArgument, what)
	}
	return tok, nil
}

func (s *session) intArg(what string) (int, error) {
	tok, err := s.arg(what)
	if err != nil {
		return 0, err
	}
	return parseInt(tok, what)
}

func parseInt(tok, what string) (int, error) {
	i, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrBadNumber, "%s %q", what, tok)
	}
	return int(i), nil
}

func parseFloat(tok, what string) (float32, error) {
	f, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrBadNumber, "%s %q", what, tok)
	}
	return float32(f), nil
}

func (s *session) begin(name, out string) {
	s.sprite = sprite.New(s.arena)
	s.name = name
	s.out = out
	s.image = nil
	s.implicit = false
}

func (s *session) inGroup() bool {
	return s.sprite != nil && s.sprite.InGroup()
}

// open makes sure a sprite is open. Outside of a sprite the output override,
// if any, opens one implicitly.
func (s *session) open() error {
	if s.sprite != nil {
		return nil
	}
	out := s.c.opts.Output
	if out == "" || s.overrideUsed {
		return ErrNoSprite
	}
	s.overrideUsed = true
	s.begin(strings.TrimSuffix(filepath.Base(out), filepath.Ext(out)), out)
	s.implicit = true
	return nil
}

// flush writes out the open sprite, if it has any frames, and closes it.
func (s *session) flush() error {
	sp := s.sprite
	if sp == nil {
		return nil
	}
	s.sprite, s.image = nil, nil

	a := sp.Frames()
	if a.Len() == 0 {
		s.c.logger.Debug("no frames, not writing sprite", "name", s.name)
		return nil
	}

	b := new(bytes.Buffer)
	if err := sprite.Encode(b, sp, &sprite.Options{Palette: s.c.opts.Palette16}); err != nil {
		return err
	}

	// The package is only written once it is complete
	if err := os.WriteFile(s.out, b.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "writing sprite")
	}

	sum := fmt.Sprintf("%X", sha1.Sum(b.Bytes()))

	if s.c.opts.Catalog != nil {
		prev, err := s.c.opts.Catalog.Lookup(s.out)
		if err != nil {
			return errors.Wrap(err, "looking up sprite")
		}
		if prev != nil && prev.SHA1 == sum {
			s.c.logger.Info("sprite unchanged", "name", s.name, "path", s.out, "sha1", sum)
		}
	}

	r := Result{
		Name:   s.name,
		Path:   s.out,
		Script: s.file,
		SHA1:   sum,
		Width:  sp.Width(),
		Height: sp.Height(),
		Frames: a.TopLevel(),
		Total:  a.Len(),
		Size:   b.Len(),
	}
	s.results = append(s.results, r)

	s.c.logger.Info("wrote sprite", "name", r.Name, "path", r.Path, "frames", r.Total, "ungrouped", r.Frames, "size", humanize.Bytes(uint64(r.Size)))

	if s.c.opts.Catalog != nil {
		if err := s.c.opts.Catalog.Record(r); err != nil {
			return errors.Wrap(err, "recording sprite")
		}
	}

	return nil
}

func (s *session) spriteName() error {
	name, err := s.arg("sprite name")
	if err != nil {
		return err
	}

	// A sprite opened implicitly by settings ahead of the first
	// spritename is renamed rather than replaced
	if s.implicit && s.sprite.Frames().Len() == 0 {
		s.implicit = false
		s.name = name
		s.c.logger.Debug("sprite", "name", name, "path", s.out)
		return nil
	}

	out := s.c.opts.Output
	if out != "" {
		if s.overrideUsed {
			return ErrAmbiguousOutput
		}
		s.overrideUsed = true
	} else {
		out = filepath.Join(s.dir, name+".spr")
	}

	if err := s.flush(); err != nil {
		return err
	}

	s.begin(name, out)
	s.c.logger.Debug("sprite", "name", name, "path", out)

	return nil
}

func (s *session) spriteType() error {
	if err := s.open(); err != nil {
		return err
	}
	tok, err := s.arg("type")
	if err != nil {
		return err
	}
	s.sprite.Type, err = sprite.ParseType(tok)
	return err
}

func (s *session) texture() error {
	if err := s.open(); err != nil {
		return err
	}
	tok, err := s.arg("texture format")
	if err != nil {
		return err
	}
	s.sprite.TexFormat, err = sprite.ParseTexFormat(tok)
	return err
}

func (s *session) beamLength() error {
	if err := s.open(); err != nil {
		return err
	}
	tok, err := s.arg("beam length")
	if err != nil {
		return err
	}
	s.sprite.BeamLength, err = parseFloat(tok, "beam length")
	return err
}

func (s *session) sync() error {
	if err := s.open(); err != nil {
		return err
	}
	s.sprite.SyncType = sprite.Synchronized
	return nil
}

func (s *session) load() error {
	if err := s.open(); err != nil {
		return err
	}
	name, err := s.arg("file name")
	if err != nil {
		return err
	}

	file := filepath.Clean(strings.ReplaceAll(name, "\\", string(os.PathSeparator)))
	if !filepath.IsAbs(file) {
		file = filepath.Join(s.dir, file)
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	m, p, err := bitmap.Decode(f, s.sprite.Palette, s.c.opts.Quantizer)
	if err != nil {
		return errors.Wrap(err, file)
	}

	if s.sprite.Palette == nil {
		s.c.logger.Debug("palette established", "file", file)
	}
	s.sprite.Palette = p
	s.image = m

	s.c.logger.Debug("loaded", "file", file, "width", m.Rect.Dx(), "height", m.Rect.Dy())

	return nil
}

func (s *session) frame() error {
	if err := s.open(); err != nil {
		return err
	}
	if s.image == nil {
		return ErrNoImage
	}

	var v [4]int
	for i, what := range []string{"x", "y", "width", "height"} {
		var err error
		if v[i], err = s.intArg(what); err != nil {
			return err
		}
	}
	xl, yl, w, h := v[0], v[1], v[2], v[3]

	b := s.image.Bounds()
	if xl < 0 || yl < 0 || w <= 0 || h <= 0 || xl+w > b.Dx() || yl+h > b.Dy() {
		return errors.Wrapf(ErrBadFrame, "%d %d %d %d in %dx%d image", xl, yl, w, h, b.Dx(), b.Dy())
	}

	interval := float32(defaultInterval)
	origin := image.Pt(-(w >> 1), h>>1)

	// Optional interval, then optional origin, both on the same line
	tok, ok, err := s.tok.Next(false)
	if err != nil {
		return err
	}
	if ok {
		if interval, err = parseFloat(tok, "interval"); err != nil {
			return err
		}
		if !(interval > 0) {
			return errors.Wrap(ErrBadInterval, tok)
		}

		tok, ok, err = s.tok.Next(false)
		if err != nil {
			return err
		}
		if ok {
			ox, err := parseInt(tok, "origin x")
			if err != nil {
				return err
			}
			oy, err := s.intArg("origin y")
			if err != nil {
				return err
			}
			origin = image.Pt(-ox, oy)
		}
	}

	return s.sprite.AddFrame(origin, w, h, s.image.Pix[s.image.PixOffset(xl, yl):], s.image.Stride, interval)
}

func (s *session) groupStart() error {
	if err := s.open(); err != nil {
		return err
	}
	return s.sprite.OpenGroup()
}

func (s *session) groupEnd() error {
	if err := s.open(); err != nil {
		return err
	}
	return s.sprite.CloseGroup()
}
