package app

import "fmt"

// Exit codes for the CLI.
const (
	ExitPass        = 0
	ExitFail        = 1
	ExitConfigError = 2
	ExitInternal    = 3
)

// ReportIOError reports a failure to persist the final artifact. The
// computed gate decision is still available to the caller for the
// stdout fallback.
type ReportIOError struct {
	Path string
	Err  error
}

func (e *ReportIOError) Error() string {
	return fmt.Sprintf("writing report to %s: %v", e.Path, e.Err)
}

func (e *ReportIOError) Unwrap() error {
	return e.Err
}
