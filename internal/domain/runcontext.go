package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunContext carries the identity and declared destinations of a single
// pipeline run. All output goes through it; components take no ambient
// filesystem side effects of their own.
type RunContext struct {
	RunID     string
	StartedAt time.Time
	Target    string
	OutPath   string
}

// NewRunContext creates a RunContext for one invocation
func NewRunContext(target, outPath string) RunContext {
	return RunContext{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Target:    target,
		OutPath:   outPath,
	}
}
