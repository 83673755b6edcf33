package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/stylecheck/internal/parser"
	"github.com/standardbeagle/stylecheck/internal/rules"
	"github.com/standardbeagle/stylecheck/internal/source"
)

func rulesCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEVERITY\tNEEDS\tSUMMARY")
	for _, id := range rules.KnownIDs() {
		rule, ok := reg.Get(id)
		if !ok {
			fmt.Fprintf(w, "%s\toff\t\t\n", id)
			continue
		}
		desc := rule.Description()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, rule.Severity(), needs(desc), desc.Summary)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !c.Bool("examples") {
		return nil
	}
	for _, rule := range reg.All() {
		desc := rule.Description()
		fmt.Fprintf(c.App.Writer, "\n%s (%s)\n", desc.Name, desc.ID)
		for _, s := range desc.NonTriggering {
			fmt.Fprintf(c.App.Writer, "  ok:   %s\n", oneLine(s))
		}
		for _, s := range desc.Triggering {
			fmt.Fprintf(c.App.Writer, "  bad:  %s\n", oneLine(s))
		}
	}
	return nil
}

func needs(desc rules.Description) string {
	var parts []string
	if desc.NeedsSyntax {
		parts = append(parts, "syntax")
	}
	if desc.NeedsTree {
		parts = append(parts, "structure")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func oneLine(s string) string {
	return strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(strings.TrimRight(s, "\n"))
}

func examplesCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	reg, err := rules.Default()
	if err != nil {
		return err
	}
	p := newDispatcher(cfg)
	ctx := c.Context
	prepare := func(snippet string) (*source.File, error) {
		return parseExample(ctx, p, snippet)
	}

	failures := rules.CheckExamples(reg, prepare)
	for _, f := range failures {
		fmt.Fprintln(c.App.ErrWriter, f.String())
	}
	if len(failures) > 0 {
		return cli.Exit(fmt.Sprintf("%d example(s) failed", len(failures)), exitViolations)
	}
	fmt.Fprintf(c.App.Writer, "All examples of %d rules behave as documented.\n", reg.Len())
	return nil
}

func parseExample(ctx context.Context, p *parser.Dispatcher, snippet string) (*source.File, error) {
	file := source.New(1, "example.swift", []byte(snippet))
	return parser.Attach(ctx, p, file)
}
