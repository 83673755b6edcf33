package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/stylecheck/internal/debug"
	scerrors "github.com/standardbeagle/stylecheck/internal/errors"
	"github.com/standardbeagle/stylecheck/internal/report"
	"github.com/standardbeagle/stylecheck/internal/rules"
	"github.com/standardbeagle/stylecheck/pkg/pathutil"
)

const defaultSourcePath = "input.swift"

type LintParams struct {
	Paths  []string `json:"paths,omitempty"`
	Source *string  `json:"source,omitempty"`
	Path   string   `json:"path,omitempty"`
}

type RulesParams struct {
	ID       string `json:"id,omitempty"`
	Examples bool   `json:"examples,omitempty"`
}

type RuleInfo struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Summary       string   `json:"summary"`
	Kind          string   `json:"kind"`
	Severity      string   `json:"severity"`
	NeedsSyntax   bool     `json:"needs_syntax,omitempty"`
	NeedsTree     bool     `json:"needs_structure,omitempty"`
	NonTriggering []string `json:"non_triggering,omitempty"`
	Triggering    []string `json:"triggering,omitempty"`
}

type RulesResponse struct {
	Rules    []RuleInfo `json:"rules"`
	Disabled []string   `json:"disabled,omitempty"`
}

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func (s *Server) handleLint(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("lint", func() (*mcp.CallToolResult, error) {
		var params LintParams
		if err := decodeParams(req.Params.Arguments, &params); err != nil {
			return nil, err
		}

		root := s.cfg.Project.Root
		if params.Source != nil {
			path := params.Path
			if path == "" {
				path = defaultSourcePath
			}
			debug.LogMCP("lint source as %s (%d bytes)", path, len(*params.Source))
			fr, err := s.runner.LintSource(ctx, path, []byte(*params.Source))
			if err != nil {
				return nil, err
			}
			return createJSONResponse(report.BuildFile(fr, root))
		}

		paths, err := s.resolvePaths(params.Paths)
		if err != nil {
			return nil, err
		}
		debug.LogMCP("lint paths %v", paths)
		res, err := s.runner.Run(ctx, paths)
		if err != nil {
			return nil, err
		}
		s.diagnosticLogger.Printf("lint: %d files, %d violations in %v", len(res.Files), len(res.Violations()), res.Duration)
		if err := res.Err(); err != nil {
			s.diagnosticLogger.Errorf("lint: %v", err)
		}
		return createJSONResponse(report.Build(res, root))
	})
}

// resolvePaths anchors client paths at the project root and refuses to
// leave it.
func (s *Server) resolvePaths(paths []string) ([]string, error) {
	root := s.cfg.Project.Root
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, p)
		}
		abs = filepath.Clean(abs)
		rel, err := filepath.Rel(root, abs)
		if err != nil || pathutil.IsOutside(rel) {
			return nil, fmt.Errorf("%w: %s", errOutsideRoot, p)
		}
		out = append(out, abs)
	}
	return out, nil
}

func (s *Server) handleRules(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("rules", func() (*mcp.CallToolResult, error) {
		var params RulesParams
		if err := decodeParams(req.Params.Arguments, &params); err != nil {
			return nil, err
		}

		debug.LogMCP("rules id=%q examples=%v", params.ID, params.Examples)
		if id := strings.TrimSpace(params.ID); id != "" {
			rule, ok := s.registry.Get(id)
			if !ok {
				return nil, unknownRule(id)
			}
			return createJSONResponse(ruleInfo(rule, true))
		}

		resp := RulesResponse{Rules: make([]RuleInfo, 0, s.registry.Len())}
		for _, rule := range s.registry.All() {
			resp.Rules = append(resp.Rules, ruleInfo(rule, params.Examples))
		}
		for _, id := range rules.KnownIDs() {
			if _, ok := s.registry.Get(id); !ok {
				resp.Disabled = append(resp.Disabled, id)
			}
		}
		return createJSONResponse(resp)
	})
}

func unknownRule(id string) error {
	known := rules.KnownIDs()
	err := scerrors.NewRuleError(id, fmt.Errorf("unknown or disabled rule"))
	if s := rules.Suggest(id, known); s != "" && s != id {
		err = err.WithSuggestion(s)
	}
	return err
}

func ruleInfo(rule rules.Rule, examples bool) RuleInfo {
	desc := rule.Description()
	info := RuleInfo{
		ID:          desc.ID,
		Name:        desc.Name,
		Summary:     desc.Summary,
		Kind:        string(desc.Kind),
		Severity:    rule.Severity().String(),
		NeedsSyntax: desc.NeedsSyntax,
		NeedsTree:   desc.NeedsTree,
	}
	if examples {
		info.NonTriggering = desc.NonTriggering
		info.Triggering = desc.Triggering
	}
	return info
}
