package runner

import "github.com/tomycgitntnx/Automation/internal/ui"

// NoOpProgress discards phase updates; used by the server and JSON output
// modes where no terminal is attached.
type NoOpProgress struct{}

func (NoOpProgress) Phase(step, total int, message string) {}
func (NoOpProgress) Stop()                                 {}

var _ ui.ProgressReporter = NoOpProgress{}
