package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/bodgit/sprgen"
	"github.com/bodgit/sprgen/palette"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context, w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(c.String("log-level"))
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	if c.Bool("verbose") {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   c.App.Name,
		Level:  level,
		Output: w,
	})
}

func openCatalog(c *cli.Context) (*sprgen.Catalog, error) {
	if !c.IsSet("catalog") {
		return nil, nil
	}
	return sprgen.NewCatalog(c.String("catalog"))
}

func compile(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c, c.App.ErrWriter)

	q, ok := palette.ByName(c.String("quantize"))
	if !ok {
		return cli.Exit(fmt.Sprintf("unknown quantizer: %s", c.String("quantize")), 1)
	}

	opts := sprgen.Options{
		Palette16: c.Bool("16bit") && !c.Bool("no16bit"),
		Output:    c.String("output"),
		Quantizer: q,
	}

	catalog, err := openCatalog(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if catalog != nil {
		defer catalog.Close()
		opts.Catalog = catalog
	}

	results, err := sprgen.New(logger, opts).CompileFile(c.Args().First())
	for _, r := range results {
		fmt.Fprintf(c.App.Writer, "%s: successful\n", r.Path)
		fmt.Fprintf(c.App.Writer, "%d frame(s)\n", r.Total)
		fmt.Fprintf(c.App.Writer, "%d ungrouped frame(s)\n", r.Frames)
	}
	if err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func list(c *cli.Context) error {
	if !c.IsSet("catalog") {
		return cli.Exit("no catalog specified", 1)
	}

	catalog, err := openCatalog(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer catalog.Close()

	results, err := catalog.List()
	if err != nil {
		return cli.Exit(err, 1)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tSIZE\tDIMENSIONS\tFRAMES\tSHA1")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%d/%d\t%s\n", r.Name, r.Path, humanize.Bytes(uint64(r.Size)), r.Width, r.Height, r.Frames, r.Total, r.SHA1)
	}

	return tw.Flush()
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "sprgen"
	app.Usage = "Sprite package compiler"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.StringFlag{
			Name:    "log-level",
			EnvVars: []string{"SPRGEN_LOG_LEVEL"},
			Value:   "warn",
			Usage:   "log level (trace, debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:    "catalog",
			EnvVars: []string{"SPRGEN_CATALOG"},
			Usage:   "path to catalog database",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "compile",
			Usage:       "Compile a sprite script",
			Description: "Each sprite in the script is written as <name>.spr next to the script unless --output is given.",
			ArgsUsage:   "SCRIPT",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "16bit",
					Value: true,
					Usage: "write the palette block",
				},
				&cli.BoolFlag{
					Name:  "no16bit",
					Usage: "omit the palette block",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write the sprite to `FILE`",
				},
				&cli.StringFlag{
					Name:  "quantize",
					Value: "first",
					Usage: "palette for true-color bitmaps (first, median)",
				},
			},
			Action: compile,
		},
		{
			Name:      "info",
			Usage:     "Print the header of sprite packages",
			ArgsUsage: "FILE...",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "no16bit",
					Usage: "packages have no palette block",
				},
				&cli.BoolFlag{
					Name:  "frames",
					Usage: "also list every frame",
				},
			},
			Action: info,
		},
		{
			Name:   "list",
			Usage:  "List the sprites recorded in the catalog",
			Action: list,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
