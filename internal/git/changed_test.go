package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLines(t *testing.T) {
	output := []byte("a.go\n\nsub/b.go\n  \nc.txt\n")
	assert.Equal(t, []string{"a.go", "sub/b.go", "c.txt"}, parseLines(output))

	assert.Nil(t, parseLines(nil))
}

func TestChangedFiles(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	repo := t.TempDir()
	runGit := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	runGit("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "committed.go"), []byte("package a\n"), 0644))
	runGit("add", "committed.go")
	runGit("commit", "-q", "-m", "initial")

	// One tracked modification, one untracked file.
	require.NoError(t, os.WriteFile(filepath.Join(repo, "committed.go"), []byte("package a // changed\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "fresh.go"), []byte("package a\n"), 0644))

	c := NewClient(zap.NewNop())
	files, err := c.ChangedFiles(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, []string{"committed.go", "fresh.go"}, files)
}

func TestChangedFiles_SubdirectoryTarget(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	repo := t.TempDir()
	runGit := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	svc := filepath.Join(repo, "svc")
	require.NoError(t, os.MkdirAll(svc, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(svc, "a.go"), []byte("package svc\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "root.go"), []byte("package main\n"), 0644))
	runGit("init", "-q")
	runGit("add", ".")
	runGit("commit", "-q", "-m", "initial")

	// Modify one file in the subdirectory and one at the repo root.
	require.NoError(t, os.WriteFile(filepath.Join(svc, "a.go"), []byte("package svc // changed\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "root.go"), []byte("package main // changed\n"), 0644))

	c := NewClient(zap.NewNop())
	files, err := c.ChangedFiles(context.Background(), svc)
	require.NoError(t, err)

	// Paths are relative to svc, not the repo root, and root.go is out of scope.
	assert.Equal(t, []string{"a.go"}, files)
}

func TestChangedFiles_CleanTree(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	repo := t.TempDir()
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = repo
	require.NoError(t, cmd.Run())

	c := NewClient(zap.NewNop())
	files, err := c.ChangedFiles(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, files)
}
