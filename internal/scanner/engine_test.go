package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qualitygate/qualitygate/internal/domain"
)

// stubScanner lets tests script scanner behavior per file.
type stubScanner struct {
	name string
	scan func(path string, content []byte) []domain.Finding
}

func (s *stubScanner) Name() string              { return s.name }
func (s *stubScanner) Category() domain.Category { return domain.CategoryStyle }
func (s *stubScanner) Scan(path string, content []byte) []domain.Finding {
	return s.scan(path, content)
}

func writeTargets(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(root, n), []byte("content\n"), 0644))
	}
	return root
}

func okScanner(name string) *stubScanner {
	return &stubScanner{name: name, scan: func(path string, content []byte) []domain.Finding {
		return []domain.Finding{{
			CheckID:  "stub-check",
			Category: domain.CategoryStyle,
			Severity: domain.SeverityInfo,
			File:     path,
			Line:     1,
			Message:  "stub",
		}}
	}}
}

func TestEngine_CollectsFindingsInOrder(t *testing.T) {
	root := writeTargets(t, "b.txt", "a.txt")
	e := NewEngine(zap.NewNop(), root, time.Second, 2, []Scanner{okScanner("one")})

	results, err := e.Run(context.Background(), []string{"b.txt", "a.txt"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Findings come back sorted by file regardless of scan order.
	require.Len(t, results[0].Findings, 2)
	assert.Equal(t, "a.txt", results[0].Findings[0].File)
	assert.Equal(t, "b.txt", results[0].Findings[1].File)
}

func TestEngine_UnreadableFileBecomesFinding(t *testing.T) {
	root := writeTargets(t, "ok.txt")
	e := NewEngine(zap.NewNop(), root, time.Second, 2, []Scanner{okScanner("one")})

	results, err := e.Run(context.Background(), []string{"ok.txt", "missing.txt"})
	require.NoError(t, err)

	var ioFindings []domain.Finding
	for _, f := range results[0].Findings {
		if f.CheckID == domain.CheckIOError {
			ioFindings = append(ioFindings, f)
		}
	}
	require.Len(t, ioFindings, 1)
	assert.Equal(t, domain.SeverityCritical, ioFindings[0].Severity)
	assert.Equal(t, "missing.txt", ioFindings[0].File)

	// The readable file was still scanned.
	assert.Len(t, results[0].Findings, 2)
}

func TestEngine_TimeoutBecomesFinding(t *testing.T) {
	root := writeTargets(t, "slow.txt", "fast.txt")
	slow := &stubScanner{name: "slow", scan: func(path string, content []byte) []domain.Finding {
		if path == "slow.txt" {
			time.Sleep(500 * time.Millisecond)
		}
		return nil
	}}

	e := NewEngine(zap.NewNop(), root, 20*time.Millisecond, 2, []Scanner{slow, okScanner("ok")})
	results, err := e.Run(context.Background(), []string{"fast.txt", "slow.txt"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	var timeouts []domain.Finding
	for _, f := range results[0].Findings {
		if f.CheckID == domain.CheckScanTimeout {
			timeouts = append(timeouts, f)
		}
	}
	require.Len(t, timeouts, 1)
	assert.Equal(t, domain.SeverityWarning, timeouts[0].Severity)
	assert.Equal(t, "slow.txt", timeouts[0].File)

	// The other scanner was unaffected.
	assert.Len(t, results[1].Findings, 2)
}

func TestEngine_PanicBecomesFinding(t *testing.T) {
	root := writeTargets(t, "a.txt", "b.txt")
	crashy := &stubScanner{name: "crashy", scan: func(path string, content []byte) []domain.Finding {
		if path == "a.txt" {
			panic("boom")
		}
		return nil
	}}

	e := NewEngine(zap.NewNop(), root, time.Second, 2, []Scanner{crashy, okScanner("ok")})
	results, err := e.Run(context.Background(), []string{"a.txt", "b.txt"})
	require.NoError(t, err)

	require.Len(t, results[0].Findings, 1)
	assert.Equal(t, domain.CheckScanCrash, results[0].Findings[0].CheckID)
	assert.Equal(t, domain.SeverityCritical, results[0].Findings[0].Severity)
	assert.Contains(t, results[0].Findings[0].Message, "boom")
	assert.False(t, results[0].Faulted())
}

func TestEngine_AllScannersFailed(t *testing.T) {
	root := writeTargets(t, "a.txt")
	crash := func(path string, content []byte) []domain.Finding { panic("dead") }

	e := NewEngine(zap.NewNop(), root, time.Second, 2, []Scanner{
		&stubScanner{name: "one", scan: crash},
		&stubScanner{name: "two", scan: crash},
	})

	results, err := e.Run(context.Background(), []string{"a.txt"})
	require.ErrorIs(t, err, ErrAllScannersFailed)

	// Partial results still come back for reporting.
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Faulted())
	}
}

func TestEngine_OneCrashAmongHealthyScannersIsNotFatal(t *testing.T) {
	root := writeTargets(t, "a.txt")
	e := NewEngine(zap.NewNop(), root, time.Second, 2, []Scanner{
		&stubScanner{name: "bad", scan: func(string, []byte) []domain.Finding { panic("dead") }},
		okScanner("good"),
	})

	_, err := e.Run(context.Background(), []string{"a.txt"})
	require.NoError(t, err)
}

func TestEngine_CancelledContextAbandonsRemainingFiles(t *testing.T) {
	root := writeTargets(t, "a.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine(zap.NewNop(), root, time.Second, 2, []Scanner{okScanner("one")})
	results, err := e.Run(ctx, []string{"a.txt"})
	require.NoError(t, err)

	require.Len(t, results[0].Findings, 1)
	assert.Equal(t, domain.CheckScanTimeout, results[0].Findings[0].CheckID)
}

func TestEngine_NoFiles(t *testing.T) {
	e := NewEngine(zap.NewNop(), t.TempDir(), time.Second, 2, []Scanner{okScanner("one")})
	results, err := e.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Findings)
	assert.False(t, results[0].Faulted())
}
