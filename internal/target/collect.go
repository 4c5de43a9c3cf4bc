package target

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// IgnoredDirs are directories never descended into during collection
var IgnoredDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".idea":        true,
	".vscode":      true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"bin":          true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
}

// defaultExcludes are path fragments for generated or mock code that
// scanners should never grade.
var defaultExcludes = []string{
	".gen.",
	".generated.",
	"_generated",
	".pb.go",
	".mock.go",
	"_mock.go",
	"mocks/",
	"testdata/",
}

// textExtensions lists the file types worth scanning
var textExtensions = map[string]bool{
	".go":   true,
	".py":   true,
	".js":   true,
	".ts":   true,
	".rb":   true,
	".java": true,
	".sh":   true,
	".sql":  true,
	".yaml": true,
	".yml":  true,
	".json": true,
	".toml": true,
	".ini":  true,
	".cfg":  true,
	".conf": true,
	".tf":   true,
	".env":  true,
	".md":   true,
	".txt":  true,
	".xml":  true,
}

// specialNames are extensionless files that are still scannable
var specialNames = map[string]bool{
	"dockerfile":  true,
	"makefile":    true,
	"jenkinsfile": true,
}

// Collector walks a target tree and produces the read-only file set
// every scanner operates on.
type Collector struct {
	logger      *zap.Logger
	maxFileSize int64
	exclude     []string
}

// NewCollector creates a new Collector
func NewCollector(logger *zap.Logger, maxFileSize int64, exclude []string) *Collector {
	return &Collector{
		logger:      logger,
		maxFileSize: maxFileSize,
		exclude:     append(append([]string{}, defaultExcludes...), exclude...),
	}
}

// Collect returns the sorted, root-relative paths of all scannable files
// under root.
func (c *Collector) Collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("target path: %w", err)
	}

	if !info.IsDir() {
		if c.scannable(filepath.Base(root), info.Size()) {
			return []string{filepath.Base(root)}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // Skip entries we can't access
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (IgnoredDirs[strings.ToLower(name)] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if c.excluded(rel) {
			return nil
		}

		fi, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if !c.scannable(name, fi.Size()) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	c.logger.Debug("collected target files", zap.Int("count", len(files)), zap.String("root", root))
	return files, nil
}

func (c *Collector) excluded(rel string) bool {
	for _, frag := range c.exclude {
		if strings.Contains(rel, frag) {
			return true
		}
	}
	return false
}

func (c *Collector) scannable(name string, size int64) bool {
	if size > c.maxFileSize {
		return false
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, ".env") || specialNames[lower] {
		return true
	}
	return textExtensions[filepath.Ext(lower)]
}
