package rules

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/parser"
	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/structure"
)

func prepareSwift(snippet string) (*source.File, error) {
	return parser.Attach(context.Background(), parser.NewSwiftParser(), source.New(1, "example.swift", []byte(snippet)))
}

func parsed(t *testing.T, src string) *source.File {
	t.Helper()
	f, err := prepareSwift(src)
	require.NoError(t, err)
	require.NoError(t, f.ParseErr)
	return f
}

func offsets(vs []diag.Violation) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = v.Offset()
	}
	return out
}

func TestExampleCatalogConformance(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, f := range CheckExamples(reg, prepareSwift) {
		t.Error(f.String())
	}
}

func TestMarkScenarios(t *testing.T) {
	rule, err := NewMarkRule(diag.SevWarning)
	require.NoError(t, err)

	assert.Empty(t, rule.Validate(source.NewString("let a = 1\n\n\t //MARK: Another var\n\n let b = 2")))

	src := "let a = 1\n\t //MARK: Another var\n let b = 2"
	vs := rule.Validate(source.NewString(src))
	require.Len(t, vs, 1)
	assert.Equal(t, 12, vs[0].Offset())
	assert.Equal(t, diag.KindMark, vs[0].Kind)
	assert.Equal(t, IDMark, vs[0].RuleID)
	assert.Equal(t, "File should have 1 empty line before and after //MARK:", vs[0].Reason)
}

func TestMarkReportsEachMarkerOnce(t *testing.T) {
	rule, err := NewMarkRule(diag.SevWarning)
	require.NoError(t, err)

	// too tight before and after: two sub-conditions, one violation
	src := "let a = 1\n//MARK: x\nlet b = 2\n\n//MARK: y\n\n\nlet c = 3"
	vs := rule.Validate(source.NewString(src))
	assert.Equal(t, []int{10, 31}, offsets(vs))
}

func TestMarkCRLF(t *testing.T) {
	rule, err := NewMarkRule(diag.SevWarning)
	require.NoError(t, err)

	tests := []struct {
		name string
		src  string
		want []int
	}{
		{"one blank line each side", "let a = 1\r\n\r\n//MARK: x\r\n\r\nlet b = 2", nil},
		{"no blank line before", "let a = 1\r\n//MARK: x\r\n\r\nlet b = 2", []int{11}},
		{"no blank line after", "let a = 1\r\n\r\n//MARK: x\r\nlet b = 2", []int{13}},
		{"two blank lines before", "let a = 1\r\n\r\n\r\n//MARK: x\r\n\r\nlet b = 2", []int{15}},
		{"two blank lines after", "let a = 1\r\n\r\n//MARK: x\r\n\r\n\r\nlet b = 2", []int{13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := rule.Validate(source.NewString(tt.src))
			if tt.want == nil {
				assert.Empty(t, vs)
				return
			}
			assert.Equal(t, tt.want, offsets(vs))
		})
	}
}

func TestOpeningBraceScenario(t *testing.T) {
	rule, err := NewOpeningBraceRule(diag.SevWarning)
	require.NoError(t, err)

	vs := rule.Validate(source.NewString("func abc(){\n}"))
	require.Len(t, vs, 1)
	assert.Equal(t, 10, vs[0].Offset())
	assert.Equal(t, diag.KindOpeningBrace, vs[0].Kind)
}

func TestOperatorWhitespaceScenario(t *testing.T) {
	rule, err := NewOperatorWhitespaceRule(diag.SevError)
	require.NoError(t, err)

	src := "let a= 1 + 2 / 3"
	file := source.NewString(src).WithParse(nil,
		structure.NewTree(len(src), &structure.Node{Kind: structure.KindVarGlobal, Start: 0, DeclLength: len(src)}), nil)

	vs := rule.Validate(file)
	require.Len(t, vs, 1)
	assert.Equal(t, 5, vs[0].Offset())
	assert.Equal(t, diag.SevError, vs[0].Severity)

	// the same file through the parser gives the same answer
	assert.Equal(t, offsets(vs), offsets(rule.Validate(parsed(t, src))))
}

func TestOperatorWhitespaceNeedsScope(t *testing.T) {
	rule, err := NewOperatorWhitespaceRule(diag.SevWarning)
	require.NoError(t, err)

	src := "foo(a+b)"
	assert.Empty(t, rule.Validate(source.NewString(src)), "no structure tree")
	assert.Empty(t, rule.Validate(parsed(t, src)), "no whitelisted scope")

	// a function body is not a scope, a binding inside it is
	fn := "func f() {\n    g(a+b)\n    let c = a+b\n}"
	vs := rule.Validate(parsed(t, fn))
	require.Len(t, vs, 1)
	assert.Equal(t, 35, vs[0].Offset())
}

func TestOperatorWhitespaceScopeBoundaryIsExclusive(t *testing.T) {
	rule, err := NewOperatorWhitespaceRule(diag.SevWarning)
	require.NoError(t, err)

	// "+" sits exactly at the node's start offset
	file := source.NewString("b+a").WithParse(nil,
		structure.NewTree(3, &structure.Node{Kind: structure.KindVarLocal, Start: 1, DeclLength: 2}), nil)
	assert.Empty(t, rule.Validate(file))
}

func TestOperatorWhitespaceUnaryAndGenerics(t *testing.T) {
	rule, err := NewOperatorWhitespaceRule(diag.SevWarning)
	require.NoError(t, err)

	for _, src := range []string{
		"let a = -b",
		"let a = !b && c",
		"let a = (-1, +2)",
		"let d: Dictionary<String, [Int]> = [:]",
		"let e = x ?? y",
		"let f = 1 << 2",
		"let g = a === b",
		"switch x {\ncase -1: break\ndefault: break\n}",
	} {
		assert.Empty(t, rule.Validate(parsed(t, src)), src)
	}
}

func TestOperatorWhitespaceComparisonVersusGeneric(t *testing.T) {
	rule, err := NewOperatorWhitespaceRule(diag.SevWarning)
	require.NoError(t, err)

	tests := []struct {
		src  string
		want []int
	}{
		{"let x = a<B", []int{9}},
		{"let x = a<Max", []int{9}},
		{"if a<Max && b > c { }", []int{4}},
		{"let x = y<Z\nlet w = Array<Int>()", []int{9}},
		{"let x: Array<Int> = []", nil},
		{"let x = Set<Array<Int>>()", nil},
		{"let x: Result<(Int) -> Void, Error>? = nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			vs := rule.Validate(parsed(t, tt.src))
			if tt.want == nil {
				assert.Empty(t, vs)
				return
			}
			assert.Equal(t, tt.want, offsets(vs))
		})
	}
}

func TestStatementPositionScenario(t *testing.T) {
	rule, err := NewStatementPositionRule(diag.SevWarning)
	require.NoError(t, err)

	vs := rule.Validate(parsed(t, "}else if {"))
	require.Len(t, vs, 1)
	assert.Equal(t, 1, vs[0].Offset())

	assert.Empty(t, rule.Validate(parsed(t, "} else if {")))
}

func TestStatementPositionRequiresKeywords(t *testing.T) {
	rule, err := NewStatementPositionRule(diag.SevWarning)
	require.NoError(t, err)

	assert.Empty(t, rule.Validate(parsed(t, "let s = \"}else\"\n// }else")))
	assert.Empty(t, rule.Validate(source.NewString("}else {")), "no classification")
}

func TestReturnPositionExcludesCommentsAndStrings(t *testing.T) {
	rule, err := NewReturnPositionRule(diag.SevWarning)
	require.NoError(t, err)

	src := "func f() {\nlet a = 1\nlet s = \"return\"\n\treturn a}"
	vs := rule.Validate(parsed(t, src))
	require.Len(t, vs, 1)
	assert.Equal(t, len("func f() {\nlet a = 1\nlet s = \"return\"\n\t"), vs[0].Offset())

	// without classification nothing is excluded
	assert.Len(t, rule.Validate(source.NewString(src)), 2)
}

func TestRulesAreDeterministicAndOrdered(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	src := "let a= 1\n//MARK: x\nfunc f(){\nlet b = 2\n\treturn b\n}else {\n}\n"
	file := parsed(t, src)
	for _, rule := range reg.All() {
		first := rule.Validate(file)
		second := rule.Validate(file)
		assert.Equal(t, first, second, rule.ID())
		assert.True(t, sort.IntsAreSorted(offsets(first)), rule.ID())
		assert.NotEmpty(t, first, rule.ID())
	}
}

func TestCompileErrorNamesRule(t *testing.T) {
	_, err := compile("broken_rule", `(unclosed`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken_rule")
	assert.Contains(t, err.Error(), "(unclosed")
}
