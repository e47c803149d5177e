/*
Package script implements the tokenizer for sprite directive scripts.

Scripts are line oriented. Tokens are separated by whitespace or control
characters and "//" starts a comment that runs to the end of the line. A
token starting with a double quote runs verbatim up to the next double quote
and may contain whitespace; there is no escape processing.
*/
package script

import (
	"github.com/pkg/errors"
)

// ErrUnterminatedQuote is returned when the input ends inside a quoted token.
var ErrUnterminatedQuote = errors.New("script: EOF inside quoted token")

// Tokenizer reads tokens from a script held entirely in memory.
type Tokenizer struct {
	buf  []byte
	pos  int // index of the next byte to consume
	line int // current 1-based line
}

// New returns a Tokenizer positioned at the start of b.
func New(b []byte) *Tokenizer {
	return &Tokenizer{
		buf:  b,
		line: 1,
	}
}

// Line returns the line the tokenizer is currently positioned on.
func (t *Tokenizer) Line() int {
	return t.line
}

// skip moves past whitespace and comments and reports whether a token
// follows. With crossLine false it stops in front of a newline or comment
// without consuming it.
func (t *Tokenizer) skip(crossLine bool) bool {
	for t.pos < len(t.buf) {
		c := t.buf[t.pos]
		switch {
		case c == '\n':
			if !crossLine {
				return false
			}
			t.pos++
			t.line++
		case c <= ' ':
			t.pos++
		case c == '/' && t.pos+1 < len(t.buf) && t.buf[t.pos+1] == '/':
			if !crossLine {
				return false
			}
			for t.pos < len(t.buf) && t.buf[t.pos] != '\n' {
				t.pos++
			}
		default:
			return true
		}
	}
	return false
}

// Next returns the next token and true, or false if there is none. When
// crossLine is false only the remainder of the current line is considered,
// which lets callers probe for optional trailing arguments without
// swallowing the next directive.
func (t *Tokenizer) Next(crossLine bool) (string, bool, error) {
	if !t.skip(crossLine) {
		return "", false, nil
	}

	if t.buf[t.pos] == '"' {
		line := t.line
		t.pos++
		start := t.pos
		for t.pos < len(t.buf) {
			c := t.buf[t.pos]
			t.pos++
			switch c {
			case '"':
				return string(t.buf[start : t.pos-1]), true, nil
			case '\n':
				t.line++
			}
		}
		return "", false, errors.Wrapf(ErrUnterminatedQuote, "quote opened on line %d", line)
	}

	start := t.pos
	for t.pos < len(t.buf) && t.buf[t.pos] > ' ' {
		t.pos++
	}
	return string(t.buf[start:t.pos]), true, nil
}
