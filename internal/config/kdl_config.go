package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from .stylecheck.kdl in
// projectRoot. A missing file yields (nil, nil).
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, KDLFileName)

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	// #nosec G304 -- fixed file name under the project root
	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", KDLFileName, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}
	if cfg.Project.Root != "" && !filepath.IsAbs(cfg.Project.Root) {
		// relative to the directory holding the config
		cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
	}
	return cfg, nil
}

func parseKDL(content string) (*Config, error) {
	cfg := Default()
	cfg.Project.Root = ""
	cfg.Project.Name = ""

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "version":
			if v, ok := firstIntArg(n); ok {
				cfg.Version = v
			}
		case "project":
			for _, cn := range n.Children { // project { root "." name "foo" }
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
				if nodeName(cn) == "respect_gitignore" {
					if b, ok := firstBoolArg(cn); ok {
						cfg.Project.RespectGitignore = b
					}
				}
			}
		case "rules":
			// rules { mark "warning"; operator_whitespace "off" }
			for _, cn := range n.Children {
				if s, ok := firstStringArg(cn); ok {
					cfg.Rules[nodeName(cn)] = strings.ToLower(s)
				} else if b, ok := firstBoolArg(cn); ok && !b {
					cfg.Rules[nodeName(cn)] = SeverityOff
				} else {
					return nil, fmt.Errorf("rule %q: expected a severity string", nodeName(cn))
				}
			}
		case "performance":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.Workers = v
					}
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if sz, err := parseSize(s); err == nil {
							cfg.Performance.MaxFileSize = sz
						}
					}
				case "debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.DebounceMs = v
					}
				}
			}
		case "parser":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "sourcekitten":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Parser.SourceKitten = b
					}
				case "sourcekitten_path":
					if s, ok := firstStringArg(cn); ok {
						cfg.Parser.SourceKittenPath = s
					}
				}
			}
		case "output":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "format":
					if s, ok := firstStringArg(cn); ok {
						cfg.Output.Format = s
					}
				case "color":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Output.Color = b
					}
				case "strict":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Output.Strict = b
					}
				}
			}
		case "include":
			// explicit includes replace the defaults
			cfg.Include = collectStringArgs(n)
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, collectStringArgs(n)...)
		default:
			log.Printf("WARNING: unknown node %q in %s", nodeName(n), KDLFileName)
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}
func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// block format: exclude { "pattern" }; each string is a child node name
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}
