package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tomycgitntnx/Automation/internal/models"
)

// ScanRuns inventories the artifact directories under root, most recent
// first. Directories that do not decode as run artifacts are skipped with a
// warning; plain files are expected at the root (the index itself lives
// there) and are ignored quietly. A missing root yields an empty inventory.
func ScanRuns(root, prefix string, logger *zap.Logger) ([]models.RunArtifact, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read reports root: %w", err)
	}

	var artifacts []models.RunArtifact
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			logger.Debug("ignoring non-directory entry in reports root",
				zap.String("name", name))
			continue
		}
		generatedAt, err := ParseRunDirName(prefix, name)
		if err != nil {
			logger.Warn("skipping unrecognized artifact directory",
				zap.String("name", name),
				zap.Error(err))
			continue
		}
		if _, err := os.Stat(filepath.Join(root, name, ReportFileName)); err != nil {
			logger.Warn("skipping artifact directory without a report document",
				zap.String("name", name))
			continue
		}
		artifacts = append(artifacts, models.RunArtifact{
			Name:        name,
			Path:        filepath.Join(name, ReportFileName),
			GeneratedAt: generatedAt,
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].GeneratedAt.After(artifacts[j].GeneratedAt)
	})
	return artifacts, nil
}

// RebuildIndex rescans the reports root and rewrites the history index from
// what is actually on disk. Runs repeatedly without changing the outcome;
// the index never accumulates state of its own.
func RebuildIndex(root, prefix string, now time.Time, logger *zap.Logger) ([]models.RunArtifact, error) {
	artifacts, err := ScanRuns(root, prefix, logger)
	if err != nil {
		return nil, err
	}
	html, err := RenderIndex(artifacts, now)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(filepath.Join(root, IndexFileName), html); err != nil {
		return nil, err
	}
	logger.Info("history index rebuilt",
		zap.String("root", root),
		zap.Int("reports", len(artifacts)))
	return artifacts, nil
}

// RenderIndex renders the history index: one section per month, most recent
// month first, runs newest first within each.
func RenderIndex(artifacts []models.RunArtifact, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, buildIndexView(artifacts, now)); err != nil {
		return nil, fmt.Errorf("failed to render history index: %w", err)
	}
	return buf.Bytes(), nil
}

type indexView struct {
	GeneratedAt string
	Total       int
	Months      []monthView
}

type monthView struct {
	Label string
	Runs  []runLinkView
}

type runLinkView struct {
	Label string
	Href  string
}

func buildIndexView(artifacts []models.RunArtifact, now time.Time) indexView {
	sorted := make([]models.RunArtifact, len(artifacts))
	copy(sorted, artifacts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GeneratedAt.After(sorted[j].GeneratedAt)
	})

	view := indexView{
		GeneratedAt: now.Format("2006-01-02 15:04:05 MST"),
		Total:       len(sorted),
	}
	for _, artifact := range sorted {
		label := artifact.GeneratedAt.Format("January 2006")
		if len(view.Months) == 0 || view.Months[len(view.Months)-1].Label != label {
			view.Months = append(view.Months, monthView{Label: label})
		}
		month := &view.Months[len(view.Months)-1]
		month.Runs = append(month.Runs, runLinkView{
			Label: artifact.GeneratedAt.Format("2006-01-02 15:04:05"),
			Href:  artifact.Name + "/" + ReportFileName,
		})
	}
	return view
}

var indexTemplate = template.Must(template.New("index").Parse(indexTemplateHTML))

const indexTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Alert Report History</title>
<style>
 body { font-family: Arial, Helvetica, sans-serif; margin: 24px; color: #1f2430; }
 h1 { margin-bottom: 4px; }
 h2 { margin-top: 28px; border-bottom: 2px solid #d5d9e0; padding-bottom: 4px; }
 .meta { color: #5b6372; margin-top: 0; }
 ul { list-style: none; padding-left: 8px; }
 li { margin: 6px 0; }
 a { color: #1a56a0; text-decoration: none; }
 a:hover { text-decoration: underline; }
 .empty { color: #5b6372; }
</style>
</head>
<body>
<h1>Alert Report History</h1>
<p class="meta">Rebuilt {{.GeneratedAt}} &middot; {{.Total}} reports</p>
{{if .Months}}{{range .Months}}<h2>{{.Label}} ({{len .Runs}})</h2>
<ul>
{{range .Runs}}<li><a href="{{.Href}}">{{.Label}}</a></li>
{{end}}</ul>
{{end}}{{else}}<p class="empty">No reports found.</p>
{{end}}
</body>
</html>
`
