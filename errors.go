package sprgen

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownDirective is returned for a token that is not a directive.
	ErrUnknownDirective = errors.New("unknown directive")
	// ErrMissingArgument is returned when a directive is short of arguments
	// on its line.
	ErrMissingArgument = errors.New("missing argument")
	// ErrBadNumber is returned for a malformed numeric argument.
	ErrBadNumber = errors.New("bad number")
	// ErrBadFrame is returned when a frame rectangle does not fit within
	// the loaded image.
	ErrBadFrame = errors.New("bad frame coordinates")
	// ErrBadInterval is returned for a frame interval that is not positive.
	ErrBadInterval = errors.New("non-positive interval")
	// ErrNoImage is returned by a frame directive before any load.
	ErrNoImage = errors.New("no image loaded")
	// ErrNoSprite is returned by a directive outside of a sprite.
	ErrNoSprite = errors.New("no sprite open, use spritename or an output override")
	// ErrAmbiguousOutput is returned for a second sprite when an output
	// override is in effect.
	ErrAmbiguousOutput = errors.New("multiple sprites are not supported when an output file is specified")
	// ErrGroupDirective is returned for anything but frame, load or
	// groupend inside a group.
	ErrGroupDirective = errors.New("frame, load, or groupend expected")
	// ErrUnterminatedGroup is returned when the script ends inside a group.
	ErrUnterminatedGroup = errors.New("missing groupend")
)

// ScriptError locates a compilation failure within a script.
type ScriptError struct {
	File string
	Line int
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

// Cause returns the underlying error.
func (e *ScriptError) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
