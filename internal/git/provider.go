// Package git lists the files git reports as changed so a run can be
// limited to them.
package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Scope selects which changes count.
type Scope string

const (
	ScopeStaged Scope = "staged" // index vs HEAD
	ScopeWIP    Scope = "wip"    // working tree vs HEAD, staged included
	ScopeRange  Scope = "range"  // Base..HEAD
)

// ParseScope accepts the --changed flag values.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeStaged, ScopeWIP, ScopeRange:
		return Scope(s), nil
	case "":
		return ScopeWIP, nil
	}
	return "", fmt.Errorf("unknown change scope %q (want staged, wip or range)", s)
}

type FileChangeStatus string

const (
	FileStatusAdded    FileChangeStatus = "added"
	FileStatusModified FileChangeStatus = "modified"
	FileStatusDeleted  FileChangeStatus = "deleted"
	FileStatusRenamed  FileChangeStatus = "renamed"
	FileStatusCopied   FileChangeStatus = "copied"
)

// ChangedFile is one entry of git's name-status output. Path is relative to
// the repository root.
type ChangedFile struct {
	Path    string
	OldPath string
	Status  FileChangeStatus
}

// Provider wraps git commands run at a repository root.
type Provider struct {
	repoRoot string
}

// NewProvider finds the repository containing dir.
func NewProvider(dir string) (*Provider, error) {
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid repo root: %w", err)
	}

	// --show-toplevel works from any subdirectory
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = absRoot
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %s", absRoot)
	}
	return &Provider{repoRoot: strings.TrimSpace(string(output))}, nil
}

// RepoRoot returns the repository root path.
func (p *Provider) RepoRoot() string {
	return p.repoRoot
}

// ChangedFiles lists changes for scope. base is required for ScopeRange.
func (p *Provider) ChangedFiles(ctx context.Context, scope Scope, base string) ([]ChangedFile, error) {
	switch scope {
	case ScopeStaged:
		return p.nameStatus(ctx, "diff", "--cached", "--name-status", "--no-renames")
	case ScopeWIP:
		files, err := p.nameStatus(ctx, "diff", "HEAD", "--name-status", "--no-renames")
		if err != nil {
			// no HEAD yet in a fresh repository
			return p.nameStatus(ctx, "diff", "--cached", "--name-status", "--no-renames")
		}
		return files, nil
	case ScopeRange:
		if base == "" {
			return nil, errors.New("a base ref is required for range scope")
		}
		return p.nameStatus(ctx, "diff", "--name-status", "--no-renames", base+"..HEAD")
	}
	return nil, fmt.Errorf("unknown scope: %s", scope)
}

// LintTargets returns absolute paths of changed files that still exist.
func (p *Provider) LintTargets(ctx context.Context, scope Scope, base string) ([]string, error) {
	files, err := p.ChangedFiles(ctx, scope, base)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f.Status == FileStatusDeleted {
			continue
		}
		out = append(out, filepath.Join(p.repoRoot, filepath.FromSlash(f.Path)))
	}
	return out, nil
}

func (p *Provider) nameStatus(ctx context.Context, args ...string) ([]ChangedFile, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.repoRoot
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return parseNameStatus(output)
}

func parseNameStatus(output []byte) ([]ChangedFile, error) {
	var files []ChangedFile

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\t")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}

		status := parts[0]
		file := ChangedFile{Path: parts[1], Status: parseStatus(status)}
		// renames and copies carry the old path first
		if len(parts) >= 3 && (status[0] == 'R' || status[0] == 'C') {
			file.OldPath = parts[1]
			file.Path = parts[2]
		}
		files = append(files, file)
	}
	return files, scanner.Err()
}

func parseStatus(status string) FileChangeStatus {
	switch status[0] {
	case 'A':
		return FileStatusAdded
	case 'D':
		return FileStatusDeleted
	case 'R':
		return FileStatusRenamed
	case 'C':
		return FileStatusCopied
	default:
		return FileStatusModified
	}
}
