package models

import "time"

// RunsResponse is the payload for listing generated reports over the API.
type RunsResponse struct {
	Count int           `json:"count"`
	Runs  []RunArtifact `json:"runs"`
}

// RunResponse is the payload returned after a triggered report run. It trims
// ReportRun down to what an API caller needs; the full report lives in the
// artifact directory.
type RunResponse struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	DurationMS   int64          `json:"duration_ms"`
	GroupBy      string         `json:"group_by"`
	Totals       SeverityCounts `json:"totals"`
	TargetCount  int            `json:"target_count"`
	FailedCount  int            `json:"failed_count"`
	ArtifactPath string         `json:"artifact_path"`
	ReportURL    string         `json:"report_url"`
}

// NewRunResponse builds the API view of a completed run. reportURL points at
// the rendered HTML under the server's static reports mount.
func NewRunResponse(run *ReportRun, reportURL string) RunResponse {
	return RunResponse{
		GeneratedAt:  run.GeneratedAt,
		DurationMS:   run.Duration.Milliseconds(),
		GroupBy:      run.GroupBy,
		Totals:       run.Totals,
		TargetCount:  run.TargetCount,
		FailedCount:  run.FailedCount,
		ArtifactPath: run.ArtifactPath,
		ReportURL:    reportURL,
	}
}
