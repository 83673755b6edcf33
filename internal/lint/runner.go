package lint

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/stylecheck/internal/cache"
	"github.com/standardbeagle/stylecheck/internal/debug"
	"github.com/standardbeagle/stylecheck/internal/diag"
	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
	"github.com/standardbeagle/stylecheck/internal/parser"
	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/types"
)

// FileResult is the outcome for one file. ParseErr is recoverable: rules
// that need no parser output still ran. Err means the file could not be
// linted at all.
type FileResult struct {
	Path       string           `json:"path"`
	Rel        string           `json:"relative_path"`
	Violations []diag.Violation `json:"violations"`
	ParseErr   error            `json:"-"`
	Err        error            `json:"-"`
	Cached     bool             `json:"cached,omitempty"`

	File *source.File `json:"-"`
}

// Result aggregates a run. Files are in discovery (path) order.
type Result struct {
	Files    []FileResult  `json:"files"`
	Duration time.Duration `json:"duration"`
}

// Violations returns every violation of the run, file by file.
func (r *Result) Violations() []diag.Violation {
	var out []diag.Violation
	for _, f := range r.Files {
		out = append(out, f.Violations...)
	}
	return out
}

// Counts returns the number of warnings and errors.
func (r *Result) Counts() (warnings, errors int) {
	for _, f := range r.Files {
		w, e := diag.Counts(f.Violations)
		warnings += w
		errors += e
	}
	return warnings, errors
}

// MaxSeverity is the highest severity reported in the run.
func (r *Result) MaxSeverity() diag.Severity {
	var maxSev diag.Severity
	for _, f := range r.Files {
		if s := diag.MaxSeverity(f.Violations); s > maxSev {
			maxSev = s
		}
	}
	return maxSev
}

// Errors collects parse and file errors of the run.
func (r *Result) Errors() []error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
		if f.ParseErr != nil {
			errs = append(errs, f.ParseErr)
		}
	}
	return errs
}

// Err folds the files that could not be read or linted into one error; nil
// when every file was linted. Parse errors do not count.
func (r *Result) Err() error {
	errs := make([]error, 0, len(r.Files))
	for _, f := range r.Files {
		errs = append(errs, f.Err)
	}
	return scerrors.NewMultiError(errs).ErrorOrNil()
}

// Options configures a Runner.
type Options struct {
	Workers int // 0 = NumCPU
	Filter  *Filter
	Cache   *cache.ResultCache // optional
}

// Runner lints many files: discovery, loading and parsing happen here, the
// pure rule core runs in the Linter.
type Runner struct {
	linter *Linter
	parser parser.Parser
	opts   Options
}

func NewRunner(linter *Linter, p parser.Parser, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Filter == nil {
		opts.Filter = &Filter{}
	}
	return &Runner{linter: linter, parser: p, opts: opts}
}

// Filter returns the discovery filter.
func (r *Runner) Filter() *Filter {
	return r.opts.Filter
}

// Run discovers and lints paths (the filter root when empty) with at most
// Workers files in flight. Per-file failures are recorded in the result;
// only discovery errors and cancellation fail the run.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	files, err := Discover(ctx, r.opts.Filter, paths)
	if err != nil {
		return nil, err
	}
	res, err := r.LintPaths(ctx, files)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	return res, nil
}

// LintPaths lints already discovered files; results keep the input order.
func (r *Runner) LintPaths(ctx context.Context, files []string) (*Result, error) {
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, path := range files {
		g.Go(func() error {
			fr, err := r.lintPath(gctx, types.FileID(i+1), path)
			if err != nil {
				return err
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{Files: results}, nil
}

// lintPath returns an error only for cancellation; everything else is
// recorded on the FileResult.
func (r *Runner) lintPath(ctx context.Context, id types.FileID, path string) (FileResult, error) {
	fr := FileResult{Path: path, Rel: r.opts.Filter.Rel(path)}
	if err := ctx.Err(); err != nil {
		return fr, err
	}

	file, err := source.Load(id, path)
	if err != nil {
		fr.Err = scerrors.NewFileError("read", path, err)
		return fr, nil
	}
	fr.File = file

	fingerprint := r.linter.Registry().Fingerprint()
	if c := r.opts.Cache; c != nil {
		if hit, ok := c.Get(path, file.Content, fingerprint, id); ok {
			fr.Violations = hit.Violations
			fr.ParseErr = hit.ParseErr
			fr.Cached = true
			return fr, nil
		}
	}

	parsed, err := parser.Attach(ctx, r.parser, file)
	if err != nil {
		return fr, err
	}
	fr.File = parsed
	fr.ParseErr = parsed.ParseErr
	if parsed.ParseErr != nil {
		debug.LogLint("parse failed for %s: %v", fr.Rel, parsed.ParseErr)
	}

	vs, err := r.linter.LintFile(ctx, parsed)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fr, ctxErr
		}
		fr.Err = err
		return fr, nil
	}
	fr.Violations = vs

	if c := r.opts.Cache; c != nil {
		c.Put(path, file.Content, fingerprint, vs, fr.ParseErr)
	}
	return fr, nil
}

// LintSource lints an in-memory buffer as if it lived at path, without
// touching the disk or the cache.
func (r *Runner) LintSource(ctx context.Context, path string, content []byte) (FileResult, error) {
	file := source.New(1, path, content)
	fr := FileResult{Path: path, Rel: r.opts.Filter.Rel(path), File: file}
	parsed, err := parser.Attach(ctx, r.parser, file)
	if err != nil {
		return fr, err
	}
	fr.File = parsed
	fr.ParseErr = parsed.ParseErr
	vs, err := r.linter.LintFile(ctx, parsed)
	if err != nil {
		return fr, err
	}
	fr.Violations = vs
	return fr, nil
}

func (fr FileResult) String() string {
	return fmt.Sprintf("%s: %d violation(s)", fr.Rel, len(fr.Violations))
}
