package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, t.TempDir(), 10*time.Millisecond, zap.NewNop(), func(context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_FiresAfterChange(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var fired atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, root, 10*time.Millisecond, zap.NewNop(), func(context.Context) error {
			fired.Add(1)
			cancel()
			return nil
		})
	}()

	// Give the watcher time to register before touching the tree.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.go"), []byte("package x\n"), 0644))

	require.ErrorIs(t, <-done, context.Canceled)
	require.Equal(t, int32(1), fired.Load())
}

func TestRun_MissingRoot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// WalkDir tolerates a missing root, so the watcher just idles until
	// the context expires.
	err := Run(ctx, filepath.Join(t.TempDir(), "gone"), 10*time.Millisecond, zap.NewNop(), func(context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
