package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/stylecheck/internal/config"
	"github.com/standardbeagle/stylecheck/internal/debug"
	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/lint"
	"github.com/standardbeagle/stylecheck/internal/parser"
	"github.com/standardbeagle/stylecheck/internal/report"
	"github.com/standardbeagle/stylecheck/internal/rules"
)

func newTestServer(t *testing.T, settings map[string]rules.Setting) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Sources"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Sources", "A.swift"), []byte("func abc(){\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Sources", "B.swift"), []byte("func abc() {\n}\n"), 0o644))

	cfg := config.Default()
	cfg.Project.Root = root

	reg, err := rules.Build(settings)
	require.NoError(t, err)
	d := parser.NewDispatcher(parser.Options{})
	runner := lint.NewRunner(lint.NewLinter(reg), d, lint.Options{
		Workers: 2,
		Filter:  &lint.Filter{Root: root, Include: cfg.Include, Exclude: cfg.Exclude, Supported: d.Supported},
	})
	return NewServer(cfg, runner, reg, NoOpLogger), root
}

// callTool invokes a handler directly, the way the SDK dispatches it.
func callTool(t *testing.T, s *Server, name string, params map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Name: name, Arguments: raw}}

	var result *mcp.CallToolResult
	switch name {
	case "lint":
		result, err = s.handleLint(context.Background(), req)
	case "rules":
		result, err = s.handleRules(context.Background(), req)
	default:
		t.Fatalf("unknown tool %s", name)
	}
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, r.Content, 1)
	text, ok := r.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestLintToolProject(t *testing.T) {
	s, _ := newTestServer(t, nil)

	r := callTool(t, s, "lint", map[string]interface{}{})
	require.False(t, r.IsError, resultText(t, r))

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &doc))
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "Sources/A.swift", doc.Files[0].Path)
	require.Len(t, doc.Files[0].Violations, 1)
	assert.Equal(t, rules.IDOpeningBrace, doc.Files[0].Violations[0].Rule)
	assert.Equal(t, 1, doc.Files[0].Violations[0].Line)
	assert.Equal(t, 11, doc.Files[0].Violations[0].Column)
	assert.Empty(t, doc.Files[1].Violations)
	assert.Equal(t, 1, doc.Summary.Warnings)
}

func TestLintToolRelativePaths(t *testing.T) {
	s, _ := newTestServer(t, nil)

	r := callTool(t, s, "lint", map[string]interface{}{"paths": []string{"Sources/B.swift"}})
	require.False(t, r.IsError, resultText(t, r))

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &doc))
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "Sources/B.swift", doc.Files[0].Path)
}

func TestLintToolRejectsPathsOutsideRoot(t *testing.T) {
	s, _ := newTestServer(t, nil)

	r := callTool(t, s, "lint", map[string]interface{}{"paths": []string{"../etc"}})
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(t, r), "outside the project root")
	assert.Contains(t, resultText(t, r), "suggestions")
}

func TestLintToolMissingPath(t *testing.T) {
	s, _ := newTestServer(t, nil)

	r := callTool(t, s, "lint", map[string]interface{}{"paths": []string{"Nope.swift"}})
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(t, r), "check the spelling")
}

func TestLintToolSource(t *testing.T) {
	s, _ := newTestServer(t, nil)

	r := callTool(t, s, "lint", map[string]interface{}{"source": "if x {\n}\nelse {\n}\n"})
	require.False(t, r.IsError, resultText(t, r))

	var file report.FileReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &file))
	assert.Equal(t, defaultSourcePath, file.Path)
	require.NotEmpty(t, file.Violations)
	assert.Equal(t, rules.IDStatementPosition, file.Violations[0].Rule)
	assert.Equal(t, 3, file.Violations[0].Line)
}

func TestToolCallsAreTraced(t *testing.T) {
	s, _ := newTestServer(t, nil)
	trace := filepath.Join(t.TempDir(), "trace.log")
	debug.SetMCPMode(true)
	require.NoError(t, debug.OpenTraceFile(trace))
	t.Cleanup(func() {
		_ = debug.Close()
		debug.SetMCPMode(false)
	})

	callTool(t, s, "lint", map[string]interface{}{"source": "let a = 1\n"})
	callTool(t, s, "rules", map[string]interface{}{"id": rules.IDMark})
	require.NoError(t, debug.Close())

	data, err := os.ReadFile(trace)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[MCP] lint source as input.swift (10 bytes)")
	assert.Contains(t, string(data), `[MCP] rules id="mark"`)
}

func TestLintToolInvalidParams(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Name: "lint", Arguments: json.RawMessage(`{"paths": 3}`)}}
	r, err := s.handleLint(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(t, r), "invalid parameters")
}

func TestRulesTool(t *testing.T) {
	s, _ := newTestServer(t, map[string]rules.Setting{
		rules.IDMark:         {Enabled: false},
		rules.IDOpeningBrace: {Enabled: true, Severity: diag.SevError},
	})

	r := callTool(t, s, "rules", map[string]interface{}{})
	require.False(t, r.IsError)

	var resp RulesResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &resp))
	assert.Len(t, resp.Rules, 4)
	assert.Equal(t, []string{rules.IDMark}, resp.Disabled)
	assert.Equal(t, rules.IDOpeningBrace, resp.Rules[0].ID)
	assert.Equal(t, "error", resp.Rules[0].Severity)
	assert.Empty(t, resp.Rules[0].Triggering)
}

func TestRulesToolSingleRule(t *testing.T) {
	s, _ := newTestServer(t, nil)

	r := callTool(t, s, "rules", map[string]interface{}{"id": rules.IDReturnPosition})
	require.False(t, r.IsError)

	var info RuleInfo
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &info))
	assert.Equal(t, rules.IDReturnPosition, info.ID)
	assert.NotEmpty(t, info.Triggering)
	assert.NotEmpty(t, info.NonTriggering)
}

func TestRulesToolUnknownRule(t *testing.T) {
	s, _ := newTestServer(t, nil)

	r := callTool(t, s, "rules", map[string]interface{}{"id": "opening_brase"})
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(t, r), `did you mean \"opening_brace\"?`)
}

func TestServerOverTransport(t *testing.T) {
	s, _ := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"lint", "rules"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "lint",
		Arguments: map[string]interface{}{"source": "func abc(){\n}\n"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	require.NoError(t, session.Close())
	_ = serverSession.Wait()
}

func TestDiagnosticLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)
	l.Printf("hello %d", 1)
	l.Errorf("bad")
	assert.Equal(t, "[MCP] hello 1\n[MCP] ERROR: bad\n", buf.String())
	assert.NoError(t, l.Close())

	path := filepath.Join(t.TempDir(), "logs", "mcp.log")
	fl := NewDiagnosticLogger(path)
	fl.Printf("to file")
	require.NoError(t, fl.Close())
	assert.Equal(t, path, fl.GetLogPath())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")

	var nilLogger *DiagnosticLogger
	nilLogger.Printf("ignored")
	assert.Empty(t, nilLogger.GetLogPath())
}
