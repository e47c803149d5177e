package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/sprgen/sprite"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func printHeader(w io.Writer, h sprite.Header) {
	fmt.Fprintf(w, "magic: %v\n", h.Valid())
	fmt.Fprintf(w, "version: %d\n", h.Version)
	fmt.Fprintf(w, "type: %s\n", h.Type)
	fmt.Fprintf(w, "texture format: %s\n", h.TexFormat)
	fmt.Fprintf(w, "bounding radius: %g\n", h.BoundingRadius)
	fmt.Fprintf(w, "width: %d\n", h.Width)
	fmt.Fprintf(w, "height: %d\n", h.Height)
	fmt.Fprintf(w, "frames: %d\n", h.NumFrames)
	fmt.Fprintf(w, "beam length: %g\n", h.BeamLength)
	fmt.Fprintf(w, "sync type: %s\n", h.SyncType)
}

func printFrames(w io.Writer, p *sprite.Package) {
	for i, e := range p.Entries {
		switch e.Type {
		case sprite.SingleFrame:
			f := e.Frames[0]
			fmt.Fprintf(w, "%d: %dx%d origin %d,%d\n", i, f.Width, f.Height, f.Origin.X, f.Origin.Y)
		case sprite.GroupFrame:
			fmt.Fprintf(w, "%d: group of %d\n", i, len(e.Frames))
			for j, f := range e.Frames {
				fmt.Fprintf(w, "  %d: %dx%d origin %d,%d until %g\n", j, f.Width, f.Height, f.Origin.X, f.Origin.Y, e.Intervals[j])
			}
		}
	}
}

func inspect(w io.Writer, file string, withPalette, frames bool) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%s)\n", file, humanize.Bytes(uint64(fi.Size())))

	r := bufio.NewReader(f)

	if frames {
		p, err := sprite.Decode(r, &sprite.Options{Palette: withPalette})
		if err != nil {
			return errors.Wrap(err, file)
		}
		printHeader(w, p.Header)
		if p.Palette != nil {
			fmt.Fprintf(w, "palette: %d colors\n", len(p.Palette))
		}
		printFrames(w, p)
		return nil
	}

	h, err := sprite.DecodeHeader(r)
	if err != nil {
		return errors.Wrap(err, file)
	}
	printHeader(w, h)

	if withPalette && h.TexFormat == sprite.Normal {
		var n int16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return errors.Wrapf(err, "%s: reading palette size", file)
		}
		fmt.Fprintf(w, "palette: %d colors\n", n)
	}

	return nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	for i, file := range c.Args().Slice() {
		if i > 0 {
			fmt.Fprintln(c.App.Writer)
		}
		if err := inspect(c.App.Writer, file, !c.Bool("no16bit"), c.Bool("frames")); err != nil {
			return cli.Exit(err, 1)
		}
	}

	return nil
}
