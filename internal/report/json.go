package report

import (
	"encoding/json"
	"io"

	"github.com/standardbeagle/stylecheck/internal/lint"
	"github.com/standardbeagle/stylecheck/internal/version"
)

// JSON renders the whole run as one document.
type JSON struct {
	opts Options
}

func NewJSON(opts Options) *JSON {
	return &JSON{opts: opts}
}

type Document struct {
	Version string        `json:"version"`
	Files   []FileReport  `json:"files"`
	Summary SummaryReport `json:"summary"`
}

type FileReport struct {
	Path       string            `json:"path"`
	Violations []ViolationReport `json:"violations"`
	Error      string            `json:"error,omitempty"`
	ParseError string            `json:"parse_error,omitempty"`
	Cached     bool              `json:"cached,omitempty"`
}

type ViolationReport struct {
	Rule     string `json:"rule"`
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Offset   int    `json:"offset"`
	Reason   string `json:"reason"`
}

type SummaryReport struct {
	Files      int   `json:"files"`
	Violations int   `json:"violations"`
	Warnings   int   `json:"warnings"`
	Errors     int   `json:"errors"`
	DurationMs int64 `json:"duration_ms"`
}

// Build converts a run into its JSON document. The MCP server returns the
// same shape.
func Build(res *lint.Result, root string) Document {
	doc := Document{Version: version.Version, Files: make([]FileReport, 0, len(res.Files))}
	for _, fr := range res.Files {
		doc.Files = append(doc.Files, BuildFile(fr, root))
	}
	warnings, errs := res.Counts()
	doc.Summary = SummaryReport{
		Files:      len(res.Files),
		Violations: warnings + errs,
		Warnings:   warnings,
		Errors:     errs,
		DurationMs: res.Duration.Milliseconds(),
	}
	return doc
}

// BuildFile converts a single file result.
func BuildFile(fr lint.FileResult, root string) FileReport {
	rep := FileReport{
		Path:       displayPath(fr, root),
		Violations: make([]ViolationReport, 0, len(fr.Violations)),
		Cached:     fr.Cached,
	}
	if fr.Err != nil {
		rep.Error = fr.Err.Error()
	}
	if fr.ParseErr != nil {
		rep.ParseError = fr.ParseErr.Error()
	}
	for _, v := range fr.Violations {
		vr := ViolationReport{
			Rule:     v.RuleID,
			Kind:     string(v.Kind),
			Severity: v.Severity.String(),
			Offset:   v.Offset(),
			Reason:   v.Reason,
		}
		if fr.File != nil {
			vr.Line, vr.Column = fr.File.Position(v.Offset())
		}
		rep.Violations = append(rep.Violations, vr)
	}
	return rep
}

func (j *JSON) Format(w io.Writer, res *lint.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(res, j.opts.Root))
}
