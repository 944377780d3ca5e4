package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomycgitntnx/Automation/internal/models"
)

const (
	divider      = "═══════════════════════════════════════════════════════════════════════════════"
	sectionBreak = "───────────────────────────────────────────────────────────────────────────────"

	// maxTitleLines caps the per-group title drill-down; the HTML report
	// carries the full list.
	maxTitleLines = 5
)

type Formatter struct {
	useColors bool
}

func NewFormatter(useColors bool) *Formatter {
	return &Formatter{
		useColors: useColors,
	}
}

// FormatReportRun builds the human-readable terminal summary of one run.
func (f *Formatter) FormatReportRun(run *models.ReportRun) string {
	var sb strings.Builder

	// Header
	sb.WriteString("\n")
	sb.WriteString(f.colorize(Cyan, divider))
	sb.WriteString("\n")
	sb.WriteString(f.title("  🚨 UNRESOLVED ALERT REPORT"))
	sb.WriteString("\n")
	sb.WriteString(f.colorize(Cyan, divider))
	sb.WriteString("\n\n")

	f.writeRunInfo(&sb, run)
	f.writeTotals(&sb, run.Totals)
	f.writeGroups(&sb, run.Groups)

	sb.WriteString(f.colorize(Cyan, divider))
	sb.WriteString("\n")

	return sb.String()
}

func (f *Formatter) writeRunInfo(sb *strings.Builder, run *models.ReportRun) {
	sb.WriteString(f.sectionHeader("📋 RUN SUMMARY"))
	sb.WriteString("\n")
	sb.WriteString(f.muted(sectionBreak))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  Generated:   %s\n", run.GeneratedAt.Format(time.RFC1123)))
	sb.WriteString(fmt.Sprintf("  Duration:    %s\n", run.Duration.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("  Grouped By:  %s\n", run.GroupBy))

	failed := fmt.Sprintf("%d failed", run.FailedCount)
	if run.FailedCount > 0 {
		failed = f.errorText(failed)
	}
	sb.WriteString(fmt.Sprintf("  Sources:     %d queried, %s\n", run.TargetCount, failed))

	if run.ArtifactPath != "" {
		sb.WriteString(fmt.Sprintf("  Report:      %s\n", f.info(run.ArtifactPath)))
	}
	sb.WriteString("\n")
}

func (f *Formatter) writeTotals(sb *strings.Builder, totals models.SeverityCounts) {
	sb.WriteString(f.sectionHeader("📊 ALERT TOTALS"))
	sb.WriteString("\n")
	sb.WriteString(f.muted(sectionBreak))
	sb.WriteString("\n")

	rows := []struct {
		severity models.Severity
		count    int
	}{
		{models.SeverityCritical, totals.Critical},
		{models.SeverityWarning, totals.Warning},
		{models.SeverityInfo, totals.Info},
		{models.SeverityOther, totals.Other},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %s  %d\n", f.severityBadge(row.severity), row.count))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n\n", f.boldColorize(White, fmt.Sprintf("Total unresolved: %d", totals.Total()))))
}

func (f *Formatter) writeGroups(sb *strings.Builder, groups []models.ClusterGroup) {
	sb.WriteString(f.sectionHeader("🌐 ALERT GROUPS"))
	sb.WriteString("\n")
	sb.WriteString(f.muted(sectionBreak))
	sb.WriteString("\n")

	for _, group := range groups {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", f.statusBadge(group.Err != ""), f.boldColorize(White, group.Key)))

		if group.Err != "" {
			sb.WriteString(indentText(f.errorText(group.Err), "      "))
			sb.WriteString("\n\n")
			continue
		}
		if group.Empty() {
			sb.WriteString(f.muted("      no unresolved alerts"))
			sb.WriteString("\n\n")
			continue
		}

		sb.WriteString(fmt.Sprintf("      %s\n", f.countsText(group.Counts)))
		for i, tg := range group.Titles {
			if i == maxTitleLines {
				sb.WriteString(f.muted(fmt.Sprintf("      … %d more titles\n", len(group.Titles)-maxTitleLines)))
				break
			}
			sb.WriteString(fmt.Sprintf("      %s %s (%d)\n", f.severityBadge(tg.Alerts[0].Severity), tg.Title, len(tg.Alerts)))
		}
		sb.WriteString("\n")
	}
}

func (f *Formatter) countsText(c models.SeverityCounts) string {
	critical := fmt.Sprintf("%d critical", c.Critical)
	if c.Critical > 0 {
		critical = f.errorText(critical)
	}
	warning := fmt.Sprintf("%d warning", c.Warning)
	if c.Warning > 0 {
		warning = f.colorize(Yellow, warning)
	}
	return fmt.Sprintf("%s, %s, %d info, %d other", critical, warning, c.Info, c.Other)
}

func indentText(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
