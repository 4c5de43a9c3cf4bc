package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Client interacts with a Git working tree
type Client struct {
	logger *zap.Logger
}

// NewClient creates a new Git client
func NewClient(logger *zap.Logger) *Client {
	return &Client{logger: logger}
}

// ChangedFiles returns the paths of files that are modified relative to
// HEAD or untracked, relative to repoPath. repoPath may be any directory
// inside the working tree; a subdirectory yields subdirectory-relative
// paths so they line up with a narrowed scan target.
func (c *Client) ChangedFiles(ctx context.Context, repoPath string) ([]string, error) {
	// --relative scopes the diff to repoPath and strips its prefix.
	// ls-files is already cwd-relative.
	tracked, err := c.run(ctx, repoPath, "diff", "--name-only", "--relative", "HEAD")
	if err != nil {
		// A repo with no commits yet has no HEAD to diff against.
		if strings.Contains(err.Error(), "unknown revision") ||
			strings.Contains(err.Error(), "bad revision") {
			tracked = nil
		} else {
			return nil, fmt.Errorf("git diff failed: %w", err)
		}
	}

	untracked, err := c.run(ctx, repoPath, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	seen := make(map[string]bool)
	var files []string
	for _, f := range append(tracked, untracked...) {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		files = append(files, f)
	}
	sort.Strings(files)

	c.logger.Debug("changed files", zap.Int("count", len(files)), zap.String("repo", repoPath))
	return files, nil
}

func (c *Client) run(ctx context.Context, repoPath string, args ...string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}

	return parseLines(output), nil
}

func parseLines(output []byte) []string {
	var lines []string
	s := bufio.NewScanner(bytes.NewReader(output))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
