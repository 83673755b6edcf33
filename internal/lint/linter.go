// Package lint drives the rule registry over parsed files: one file at a
// time with every rule in parallel (Linter), or many files through a
// bounded worker pool (Runner).
package lint

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/stylecheck/internal/debug"
	"github.com/standardbeagle/stylecheck/internal/diag"
	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
	"github.com/standardbeagle/stylecheck/internal/rules"
	"github.com/standardbeagle/stylecheck/internal/source"
)

// Linter runs every rule of a registry over a file.
type Linter struct {
	reg *rules.Registry
}

func NewLinter(reg *rules.Registry) *Linter {
	return &Linter{reg: reg}
}

// Registry returns the rules this linter runs.
func (l *Linter) Registry() *rules.Registry {
	return l.reg
}

// LintFile runs each rule in its own goroutine. Every goroutine writes only
// its own result slot; after the join the slots are merged and ordered by
// (offset, rule ID). On cancellation partial results are dropped and the
// context error returned. A rule that panics fails the file with a
// LintError naming the rule.
func (l *Linter) LintFile(ctx context.Context, file *source.File) ([]diag.Violation, error) {
	all := l.reg.All()
	slots := make([][]diag.Violation, len(all))

	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range all {
		g.Go(func() (err error) {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			defer func() {
				if r := recover(); r != nil {
					err = scerrors.NewLintError(file.Path, rule.ID(), fmt.Errorf("panic: %v", r))
				}
			}()
			slots[i] = rule.Validate(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, s := range slots {
		total += len(s)
	}
	out := make([]diag.Violation, 0, total)
	for _, s := range slots {
		out = append(out, s...)
	}
	diag.Sort(out)
	debug.LogLint("%s: %d rules, %d violations", file.Path, len(all), len(out))
	return out, nil
}
