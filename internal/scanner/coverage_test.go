package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualitygate/qualitygate/internal/domain"
)

func TestCoverageScanner(t *testing.T) {
	files := []string{
		"pkg/tested/a.go",
		"pkg/tested/a_test.go",
		"pkg/untested/b.go",
		"scripts/run.sh",
	}
	s := NewCoverageScanner(files)

	t.Run("tested package is clean", func(t *testing.T) {
		assert.Empty(t, s.Scan("pkg/tested/a.go", nil))
	})

	t.Run("untested package is flagged", func(t *testing.T) {
		findings := s.Scan("pkg/untested/b.go", nil)
		require.Len(t, findings, 1)
		assert.Equal(t, "missing-tests", findings[0].CheckID)
		assert.Equal(t, domain.SeverityWarning, findings[0].Severity)
		assert.Equal(t, domain.CategoryCoverage, findings[0].Category)
		assert.Equal(t, 1, findings[0].Line)
	})

	t.Run("test files are never flagged", func(t *testing.T) {
		assert.Empty(t, s.Scan("pkg/tested/a_test.go", nil))
	})

	t.Run("non-go files are ignored", func(t *testing.T) {
		assert.Empty(t, s.Scan("scripts/run.sh", nil))
	})
}
