package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// ReportFileName is the HTML document inside each run directory.
	ReportFileName = "alert_report.html"
	// IndexFileName is the history index at the reports root.
	IndexFileName = "index.html"
	// CSVFileName is the optional flat export beside the HTML document.
	CSVFileName = "alerts.csv"
)

const dirTimestampLayout = "2006_01_02__15_04_05"

// RunDirName names the artifact directory for a run, e.g.
// alert_report_2026_08_02__11_22_33.
func RunDirName(prefix string, t time.Time) string {
	return prefix + "_" + t.Format(dirTimestampLayout)
}

// ParseRunDirName decodes a run timestamp from an artifact directory name.
func ParseRunDirName(prefix, name string) (time.Time, error) {
	rest, ok := strings.CutPrefix(name, prefix+"_")
	if !ok {
		return time.Time{}, fmt.Errorf("%q does not carry prefix %q", name, prefix)
	}
	t, err := time.Parse(dirTimestampLayout, rest)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q carries no valid run timestamp: %w", name, err)
	}
	return t, nil
}

// WriteArtifact creates the run directory under root and writes the rendered
// document into it, returning the document path.
func WriteArtifact(root, prefix string, generatedAt time.Time, html []byte) (string, error) {
	dir := filepath.Join(root, RunDirName(prefix, generatedAt))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}
	path := filepath.Join(dir, ReportFileName)
	if err := writeFileAtomic(path, html); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place, so readers never observe a truncated document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmpName, 0o644)
	}
	if werr == nil {
		werr = os.Rename(tmpName, path)
	}
	if werr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, werr)
	}
	return nil
}
