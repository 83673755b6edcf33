package lint

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/stylecheck/internal/parser"
)

func TestFilter_Matching(t *testing.T) {
	f := &Filter{
		Root:    "/work/app",
		Include: []string{"**/*.swift"},
		Exclude: []string{"**/Pods/**", "**/*.generated.swift"},
	}

	assert.Equal(t, "Sources/A.swift", f.Rel(filepath.FromSlash("/work/app/Sources/A.swift")))
	assert.Equal(t, "/elsewhere/B.swift", f.Rel(filepath.FromSlash("/elsewhere/B.swift")))

	assert.True(t, f.Included("Sources/A.swift"))
	assert.False(t, f.Included("Sources/A.go"))
	assert.True(t, f.Excluded("Pods"), "a directory matches its own /** pattern")
	assert.True(t, f.Excluded("Pods/X/Y.swift"))
	assert.True(t, f.Excluded("Sources/Model.generated.swift"))
	assert.False(t, f.Excluded("Sources/Model.swift"))

	assert.True(t, (&Filter{}).Included("anything"))
}

func TestDiscover(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Sources/b.swift":           "let b = 1\n",
		"Sources/a.swift":           "let a = 1\n",
		"Sources/Nested/c.swift":    "let c = 1\n",
		"Sources/tool.go":           "package tool\n",
		"Sources/notes.txt":         "text",
		"Pods/Dep/d.swift":          "let d = 1\n",
		"Sources/x.generated.swift": "let x = 1\n",
	})
	d := parser.NewDispatcher(parser.Options{})
	f := &Filter{
		Root:      root,
		Include:   []string{"**/*.swift", "**/*.go"},
		Exclude:   []string{"**/Pods/**", "**/*.generated.swift"},
		Supported: d.Supported,
	}

	got, err := Discover(context.Background(), f, nil)
	require.NoError(t, err)

	rels := make([]string, len(got))
	for i, p := range got {
		rels[i] = f.Rel(p)
	}
	assert.Equal(t, []string{
		"Sources/Nested/c.swift",
		"Sources/a.swift",
		"Sources/b.swift",
		"Sources/tool.go",
	}, rels)
}

func TestDiscover_ExplicitFileBypassesInclude(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":   "package main\n",
		"notes.txt": "text",
	})
	d := parser.NewDispatcher(parser.Options{})
	f := &Filter{Root: root, Include: []string{"**/*.swift"}, Supported: d.Supported}

	got, err := Discover(context.Background(), f, []string{
		filepath.Join(root, "main.go"),
		filepath.Join(root, "notes.txt"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "main.go")}, got)
}

func TestDiscover_Cancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.swift": "let a = 1\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, &Filter{Root: root}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
