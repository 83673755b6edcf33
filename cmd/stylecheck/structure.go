package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/stylecheck/internal/display"
	"github.com/standardbeagle/stylecheck/internal/parser"
	"github.com/standardbeagle/stylecheck/internal/source"
)

func structureCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("structure takes exactly one file", exitFatal)
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(c.Args().First())
	if err != nil {
		return err
	}
	d := newDispatcher(cfg)
	if !d.Supported(path) {
		return fmt.Errorf("no parser for %s (supported: %v)", path, parser.Extensions())
	}
	file, err := source.Load(1, path)
	if err != nil {
		return err
	}
	file, err = parser.Attach(c.Context, d, file)
	if err != nil {
		return err
	}
	if file.ParseErr != nil {
		return file.ParseErr
	}

	switch format := c.String("format"); format {
	case "text", "json", "compact":
	default:
		return fmt.Errorf("unknown structure format %q (want text, json or compact)", format)
	}
	tf := display.NewTreeFormatter(display.FormatterOptions{
		Format:      c.String("format"),
		ShowLines:   c.Bool("lines"),
		ShowSnippet: c.Bool("snippets"),
		MaxDepth:    c.Int("depth"),
	})
	fmt.Fprintln(c.App.Writer, tf.Format(file))
	return nil
}
