package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/stylecheck/internal/cache"
	"github.com/standardbeagle/stylecheck/internal/debug"
	"github.com/standardbeagle/stylecheck/internal/lint"
	"github.com/standardbeagle/stylecheck/internal/watch"
)

func watchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	results := cache.New(0)
	runner, _, err := newRunner(cfg, results)
	if err != nil {
		return err
	}
	roots, err := absPaths(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		roots = []string{cfg.Project.Root}
	}

	ctx, stop := signalContext(c.Context)
	defer stop()

	res, err := runner.Run(ctx, roots)
	if err != nil {
		return err
	}
	if err := writeReport(c, cfg, res); err != nil {
		return err
	}

	w, err := watch.New(runner, results, watch.Options{
		DebounceMs: cfg.Performance.DebounceMs,
		OnResult: func(res *lint.Result, batch watch.Batch) {
			for _, p := range batch.Removed {
				debug.LogWatch("removed %s", p)
			}
			if len(res.Files) == 0 {
				return
			}
			if err := writeReport(c, cfg, res); err != nil {
				fmt.Fprintf(c.App.ErrWriter, "stylecheck: %v\n", err)
			}
		},
		OnError: func(err error) {
			fmt.Fprintf(c.App.ErrWriter, "stylecheck: watch: %v\n", err)
		},
	})
	if err != nil {
		return err
	}
	if err := w.Start(roots...); err != nil {
		_ = w.Stop()
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "Watching %d path(s) for changes. Press Ctrl+C to stop.\n", len(roots))

	<-ctx.Done()
	return w.Stop()
}
