package ui

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressReporter receives pipeline phase updates during a report run.
type ProgressReporter interface {
	Phase(step, total int, message string)
	Stop()
}

// SpinnerProgress renders run phases on a terminal spinner.
type SpinnerProgress struct {
	spinner *spinner.Spinner
	started bool
}

func NewSpinnerProgress() *SpinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Prefix = "  "
	s.Color("cyan", "bold")

	return &SpinnerProgress{
		spinner: s,
	}
}

// Phase updates the spinner with the current pipeline step, starting it on
// first use.
func (sp *SpinnerProgress) Phase(step, total int, message string) {
	sp.spinner.Suffix = fmt.Sprintf("  [%d/%d] %s", step, total, message)
	if !sp.started {
		sp.spinner.Start()
		sp.started = true
	}
}

// Stop halts the spinner and clears the line.
func (sp *SpinnerProgress) Stop() {
	if sp.spinner.Active() {
		sp.spinner.Stop()
	}
}
