// Package display renders the structure tree a parser produced for a file.
// It backs the `stylecheck structure` command, used to see which scopes the
// statement and operator rules will consult.
package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/standardbeagle/stylecheck/internal/source"
	"github.com/standardbeagle/stylecheck/internal/structure"
)

// TreeFormatter formats structure trees for display
type TreeFormatter struct {
	options FormatterOptions
}

// FormatterOptions controls tree formatting
type FormatterOptions struct {
	Format      string // "text", "json", "compact"
	ShowLines   bool   // Show line:col ranges instead of byte offsets
	ShowSnippet bool   // Show the first line of each node's source
	MaxDepth    int    // Maximum depth to display
	Indent      string // Indentation string
}

const snippetWidth = 48

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(options FormatterOptions) *TreeFormatter {
	if options.Indent == "" {
		options.Indent = "  "
	}
	return &TreeFormatter{options: options}
}

// Format formats the structure tree of a parsed file for display
func (tf *TreeFormatter) Format(file *source.File) string {
	if file == nil || file.Structure == nil || file.Structure.Root == nil {
		return "No tree data available"
	}

	switch tf.options.Format {
	case "json":
		return tf.formatJSON(file.Structure)
	case "compact":
		return tf.formatCompact(file.Structure)
	default:
		return tf.formatText(file)
	}
}

// formatText formats tree as ASCII art
func (tf *TreeFormatter) formatText(file *source.File) string {
	var sb strings.Builder

	total, depth := Stats(file.Structure.Root)
	sb.WriteString(fmt.Sprintf("Structure of '%s'\n", file.Path))
	sb.WriteString(fmt.Sprintf("Total nodes: %d, Max depth: %d\n", total, depth))
	sb.WriteString("\n")

	tf.formatNode(&sb, file, file.Structure.Root, "", 0, true, true)

	return sb.String()
}

// formatNode recursively formats a tree node
func (tf *TreeFormatter) formatNode(sb *strings.Builder, file *source.File, node *structure.Node, prefix string, depth int, isLast bool, isRoot bool) {
	if node == nil {
		return
	}

	if tf.options.MaxDepth > 0 && depth > tf.options.MaxDepth {
		return
	}

	var branch string
	if isRoot {
		branch = "→ "
	} else if isLast {
		branch = "└─→ "
	} else {
		branch = "├─→ "
	}

	sb.WriteString(prefix)
	sb.WriteString(branch)
	sb.WriteString(node.KindName())
	sb.WriteString(" ")
	sb.WriteString(tf.span(file, node))

	if tf.options.ShowSnippet && !isRoot {
		if s := snippet(file, node); s != "" {
			sb.WriteString(fmt.Sprintf(" %q", s))
		}
	}

	sb.WriteString(fmt.Sprintf(" (depth=%d)", depth))
	sb.WriteString("\n")

	childCount := len(node.Children)
	for i, child := range node.Children {
		isLastChild := i == childCount-1

		var childPrefix string
		if isRoot || isLast {
			childPrefix = prefix + tf.options.Indent
		} else {
			childPrefix = prefix + "│ "
		}

		tf.formatNode(sb, file, child, childPrefix, depth+1, isLastChild, false)
	}
}

// span renders the node extent as [start+decl+body] or, with ShowLines,
// as [line:col-line:col] of the first and last byte.
func (tf *TreeFormatter) span(file *source.File, node *structure.Node) string {
	if !tf.options.ShowLines {
		return fmt.Sprintf("[%d+%d+%d]", node.Start, node.DeclLength, node.BodyLength)
	}
	sl, sc := file.Position(node.Start)
	last := node.End() - 1
	if last < node.Start {
		last = node.Start
	}
	el, ec := file.Position(last)
	return fmt.Sprintf("[%d:%d-%d:%d]", sl, sc, el, ec)
}

func snippet(file *source.File, node *structure.Node) string {
	if node.Start < 0 || node.Start >= len(file.Content) {
		return ""
	}
	text := string(file.Content[node.Start:min(node.End(), len(file.Content))])
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if len(text) > snippetWidth {
		text = text[:snippetWidth] + "…"
	}
	return text
}

// Stats counts the nodes below root (root excluded) and the deepest level.
func Stats(root *structure.Node) (total, maxDepth int) {
	var walk func(n *structure.Node, depth int)
	walk = func(n *structure.Node, depth int) {
		if depth > maxDepth {
			maxDepth = depth
		}
		for _, c := range n.Children {
			total++
			walk(c, depth+1)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return total, maxDepth
}

// formatCompact formats tree in a compact single-line format
func (tf *TreeFormatter) formatCompact(tree *structure.Tree) string {
	var parts []string
	tf.collectCompactParts(tree.Root, &parts)
	return strings.Join(parts, " → ")
}

// collectCompactParts follows the first child at each level
func (tf *TreeFormatter) collectCompactParts(node *structure.Node, parts *[]string) {
	if node == nil {
		return
	}

	*parts = append(*parts, node.KindName())

	if len(node.Children) > 0 {
		tf.collectCompactParts(node.Children[0], parts)
		if len(node.Children) > 1 {
			*parts = append(*parts, fmt.Sprintf("(+%d more)", len(node.Children)-1))
		}
	}
}

// formatJSON emits the tree with kinds by canonical name.
func (tf *TreeFormatter) formatJSON(tree *structure.Tree) string {
	data, err := json.MarshalIndent(tree, "", tf.options.Indent)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
