package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/stylecheck/internal/config"
	"github.com/standardbeagle/stylecheck/internal/debug"
	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/git"
	"github.com/standardbeagle/stylecheck/internal/lint"
	"github.com/standardbeagle/stylecheck/internal/report"
	"github.com/standardbeagle/stylecheck/pkg/pathutil"
)

func lintCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	runner, _, err := newRunner(cfg, nil)
	if err != nil {
		return err
	}
	paths, err := absPaths(c.Args().Slice())
	if err != nil {
		return err
	}

	ctx, stop := signalContext(c.Context)
	defer stop()

	var res *lint.Result
	if c.IsSet("changed") || c.IsSet("since") {
		res, err = lintChanged(ctx, c, cfg, runner)
	} else {
		res, err = runner.Run(ctx, paths)
	}
	if err != nil {
		return err
	}
	debug.LogLint("linted %d files in %v", len(res.Files), res.Duration)
	if err := res.Err(); err != nil {
		debug.LogLint("files not linted: %v", err)
	}

	if err := writeReport(c, cfg, res); err != nil {
		return err
	}
	if failed(cfg, res) {
		return cli.Exit("", exitViolations)
	}
	return nil
}

func newFormatter(c *cli.Context, cfg *config.Config) (report.Formatter, error) {
	return report.New(cfg.Output.Format, report.Options{
		Root:    cfg.Project.Root,
		Color:   cfg.Output.Color,
		Context: !c.Bool("no-context"),
		Summary: true,
	})
}

func writeReport(c *cli.Context, cfg *config.Config, res *lint.Result) error {
	f, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, res)
}

// failed reports whether the run should exit with the violations status:
// any error-severity violation, or in strict mode any violation or
// unreadable file.
func failed(cfg *config.Config, res *lint.Result) bool {
	if res.MaxSeverity() >= diag.SevError {
		return true
	}
	return cfg.Output.Strict && (len(res.Violations()) > 0 || res.Err() != nil)
}

// lintChanged lints the files git reports as changed that lie under the
// project root and pass the full filter.
func lintChanged(ctx context.Context, c *cli.Context, cfg *config.Config, runner *lint.Runner) (*lint.Result, error) {
	start := time.Now()
	scope, err := git.ParseScope(c.String("changed"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("since") {
		scope = git.ScopeRange
	}
	p, err := git.NewProvider(cfg.Project.Root)
	if err != nil {
		return nil, err
	}
	targets, err := p.LintTargets(ctx, scope, c.String("since"))
	if err != nil {
		return nil, err
	}

	filter := runner.Filter()
	files := make([]string, 0, len(targets))
	for _, path := range targets {
		rel, err := filepath.Rel(cfg.Project.Root, path)
		if err != nil || pathutil.IsOutside(rel) || !filter.Accept(path) {
			continue
		}
		files = append(files, path)
	}
	debug.LogLint("%d of %d changed files selected", len(files), len(targets))

	res, err := runner.LintPaths(ctx, files)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	return res, nil
}

// signalContext is the context long-running commands stop on.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
