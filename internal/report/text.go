package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/lint"
	"github.com/standardbeagle/stylecheck/internal/source"
)

// Text renders one line per violation in the compiler style editors parse:
//
//	Sources/App.swift:3:9: warning opening_brace: Opening braces should be preceded by a single space and on the same line as the declaration
type Text struct {
	opts Options

	path    *color.Color
	warning *color.Color
	err     *color.Color
	rule    *color.Color
	caret   *color.Color
	dim     *color.Color
}

func NewText(opts Options) *Text {
	t := &Text{
		opts:    opts,
		path:    color.New(color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		err:     color.New(color.FgRed, color.Bold),
		rule:    color.New(color.FgCyan),
		caret:   color.New(color.FgGreen, color.Bold),
		dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{t.path, t.warning, t.err, t.rule, t.caret, t.dim} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

func (t *Text) Format(w io.Writer, res *lint.Result) error {
	bw := &errWriter{w: w}
	for _, fr := range res.Files {
		path := displayPath(fr, t.opts.Root)
		if fr.Err != nil {
			bw.printf("%s: %s %v\n", t.path.Sprint(path), t.err.Sprint("error"), fr.Err)
			continue
		}
		if fr.ParseErr != nil {
			bw.printf("%s: %s %v\n", t.path.Sprint(path), t.warning.Sprint("warning"), fr.ParseErr)
		}
		for _, v := range fr.Violations {
			t.violation(bw, path, fr.File, v)
		}
	}
	if t.opts.Summary {
		t.summary(bw, res)
	}
	return bw.err
}

func (t *Text) violation(bw *errWriter, path string, file *source.File, v diag.Violation) {
	line, col := 0, 0
	if file != nil {
		line, col = file.Position(v.Offset())
	}
	bw.printf("%s: %s %s: %s\n",
		t.path.Sprintf("%s:%d:%d", path, line, col),
		t.severity(v.Severity),
		t.rule.Sprint(v.RuleID),
		v.Reason)

	if !t.opts.Context || file == nil {
		return
	}
	src := file.Line(line)
	gutter := fmt.Sprintf("%d", line)
	bw.printf("%s %s %s\n", t.dim.Sprint(gutter), t.dim.Sprint("|"), src)
	bw.printf("%s %s %s%s\n", strings.Repeat(" ", len(gutter)), t.dim.Sprint("|"), caretPad(src, col), t.caret.Sprint("^"))
}

func (t *Text) severity(s diag.Severity) string {
	if s == diag.SevError {
		return t.err.Sprint(s.String())
	}
	return t.warning.Sprint(s.String())
}

// summary mirrors the classic "Done linting!" footer.
func (t *Text) summary(bw *errWriter, res *lint.Result) {
	warnings, errs := res.Counts()
	withViolations := 0
	for _, fr := range res.Files {
		if len(fr.Violations) > 0 {
			withViolations++
		}
	}
	bw.printf("Done linting! Found %d violation%s, %d serious in %d file%s.\n",
		warnings+errs, plural(warnings+errs), errs, len(res.Files), plural(len(res.Files)))
	if withViolations > 0 {
		bw.printf("%d file%s with violations.\n", withViolations, plural(withViolations))
	}
}

// caretPad reproduces the whitespace before a 1-based byte column, keeping
// tabs so the caret lines up under the source text.
func caretPad(line string, col int) string {
	n := col - 1
	if n <= 0 {
		return ""
	}
	if n > len(line) {
		n = len(line)
	}
	var sb strings.Builder
	prefix := line[:n]
	for len(prefix) > 0 {
		r, size := utf8.DecodeRuneInString(prefix)
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		prefix = prefix[size:]
	}
	return sb.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// errWriter keeps the first write error so formatting code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
