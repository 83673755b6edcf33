package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/lint"
	"github.com/standardbeagle/stylecheck/internal/rules"
	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/types"
)

func braceResult() *lint.Result {
	file := source.New(1, "/proj/Sources/A.swift", []byte("func abc(){\n}\n"))
	return &lint.Result{Files: []lint.FileResult{{
		Path: file.Path,
		Rel:  "Sources/A.swift",
		File: file,
		Violations: []diag.Violation{{
			Kind:     diag.KindOpeningBrace,
			RuleID:   rules.IDOpeningBrace,
			Location: types.NewLocation(1, 10),
			Severity: diag.SevWarning,
			Reason:   "brace",
		}},
	}}}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewText(Options{}).Format(&buf, braceResult()))
	assert.Equal(t, "Sources/A.swift:1:11: warning opening_brace: brace\n", buf.String())
}

func TestTextContextAndSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewText(Options{Context: true, Summary: true}).Format(&buf, braceResult()))

	want := "Sources/A.swift:1:11: warning opening_brace: brace\n" +
		"1 | func abc(){\n" +
		"  | " + strings.Repeat(" ", 10) + "^\n" +
		"Done linting! Found 1 violation, 0 serious in 1 file.\n" +
		"1 file with violations.\n"
	assert.Equal(t, want, buf.String())
}

func TestTextColorToggle(t *testing.T) {
	var plain, colored bytes.Buffer
	require.NoError(t, NewText(Options{}).Format(&plain, braceResult()))
	require.NoError(t, NewText(Options{Color: true}).Format(&colored, braceResult()))

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestTextFileErrors(t *testing.T) {
	res := &lint.Result{Files: []lint.FileResult{
		{Path: "/proj/gone.swift", Err: errors.New("read failed")},
		{Path: "/proj/bad.swift", ParseErr: errors.New("unbalanced braces"), File: source.New(2, "/proj/bad.swift", nil)},
	}}
	var buf bytes.Buffer
	require.NoError(t, NewText(Options{Root: "/proj"}).Format(&buf, res))

	assert.Equal(t, "gone.swift: error read failed\nbad.swift: warning unbalanced braces\n", buf.String())
}

func TestCaretPadKeepsTabs(t *testing.T) {
	assert.Equal(t, "\t  ", caretPad("\tab{", 4))
	assert.Equal(t, "", caretPad("x", 1))
	// é is two bytes but one column
	assert.Equal(t, " ", caretPad("é{", 3))
	assert.Equal(t, "   ", caretPad("abc", 99))
}

func TestJSONFormat(t *testing.T) {
	res := braceResult()
	res.Files = append(res.Files, lint.FileResult{Path: "/proj/gone.swift", Err: errors.New("read failed")})

	var buf bytes.Buffer
	require.NoError(t, NewJSON(Options{Root: "/proj"}).Format(&buf, res))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Files, 2)

	got := doc.Files[0]
	assert.Equal(t, "Sources/A.swift", got.Path)
	require.Len(t, got.Violations, 1)
	assert.Equal(t, ViolationReport{
		Rule:     "opening_brace",
		Kind:     "Opening Brace",
		Severity: "warning",
		Line:     1,
		Column:   11,
		Offset:   10,
		Reason:   "brace",
	}, got.Violations[0])

	assert.Equal(t, "gone.swift", doc.Files[1].Path)
	assert.Equal(t, "read failed", doc.Files[1].Error)
	assert.NotNil(t, doc.Files[1].Violations)

	assert.Equal(t, SummaryReport{Files: 2, Violations: 1, Warnings: 1}, doc.Summary)
}

func TestNew(t *testing.T) {
	f, err := New("", Options{})
	require.NoError(t, err)
	assert.IsType(t, &Text{}, f)

	f, err = New(FormatJSON, Options{})
	require.NoError(t, err)
	assert.IsType(t, &JSON{}, f)

	_, err = New("xml", Options{})
	assert.Error(t, err)
}
