package formatter

import (
	"fmt"

	"github.com/tomycgitntnx/Automation/internal/models"
)

// ANSI color codes for terminal output
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	// Foreground colors
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	// Background colors
	BgRed    = "\033[41m"
	BgYellow = "\033[43m"
	BgBlue   = "\033[44m"
)

func (f *Formatter) colorize(color, text string) string {
	if !f.useColors {
		return text
	}
	return fmt.Sprintf("%s%s%s", color, text, Reset)
}

func (f *Formatter) boldColorize(color, text string) string {
	if !f.useColors {
		return text
	}
	return fmt.Sprintf("%s%s%s%s", Bold, color, text, Reset)
}

func (f *Formatter) title(text string) string {
	return f.boldColorize(Cyan, text)
}

func (f *Formatter) sectionHeader(text string) string {
	return f.boldColorize(Blue, text)
}

func (f *Formatter) success(text string) string {
	return f.colorize(Green, text)
}

func (f *Formatter) errorText(text string) string {
	return f.colorize(Red, text)
}

func (f *Formatter) info(text string) string {
	return f.colorize(Cyan, text)
}

func (f *Formatter) muted(text string) string {
	return f.colorize(Gray, text)
}

func (f *Formatter) severityBadge(severity models.Severity) string {
	if !f.useColors {
		return string(severity)
	}
	switch severity {
	case models.SeverityCritical:
		return fmt.Sprintf("%s%s %s %s", Bold, BgRed, severity, Reset)
	case models.SeverityWarning:
		return fmt.Sprintf("%s%s %s %s", Bold, BgYellow, severity, Reset)
	case models.SeverityInfo:
		return fmt.Sprintf("%s%s %s %s", Bold, BgBlue, severity, Reset)
	default:
		return f.colorize(Gray, string(severity))
	}
}

func (f *Formatter) statusBadge(failed bool) string {
	if failed {
		return f.boldColorize(Red, "✗ FAILED")
	}
	return f.colorize(Green, "✓ OK")
}
