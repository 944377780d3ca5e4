// Package runner drives one report generation end to end: collect alerts
// from every source, summarize, render the HTML document, write the artifact
// directory and rebuild the history index.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tomycgitntnx/Automation/internal/aggregator"
	"github.com/tomycgitntnx/Automation/internal/collectors"
	"github.com/tomycgitntnx/Automation/internal/config"
	"github.com/tomycgitntnx/Automation/internal/metrics"
	"github.com/tomycgitntnx/Automation/internal/models"
	"github.com/tomycgitntnx/Automation/internal/report"
	"github.com/tomycgitntnx/Automation/internal/summary"
	"github.com/tomycgitntnx/Automation/internal/ui"
)

// ErrRunInProgress reports that another report run holds the pipeline. The
// scheduler and the trigger API share one pipeline and never overlap runs.
var ErrRunInProgress = errors.New("a report run is already in progress")

const runPhases = 5

type Runner struct {
	cfg      *config.Config
	agg      *aggregator.Aggregator
	progress ui.ProgressReporter
	logger   *zap.Logger

	// statusTable optionally merges a captured CLI status table into the
	// run as one more source.
	statusTable string

	mu sync.Mutex
}

// Options carries the optional pieces of a runner: a progress reporter for
// interactive use and a status table dump to ingest alongside the endpoints.
type Options struct {
	Progress    ui.ProgressReporter
	StatusTable string
}

func New(cfg *config.Config, logger *zap.Logger, opts Options) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	// Prove the reports root writable up front, before any endpoint is
	// contacted.
	if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare reports root: %w", err)
	}

	progress := opts.Progress
	if progress == nil {
		progress = NoOpProgress{}
	}

	collector := collectors.NewEndpointCollector(cfg, logger)
	return &Runner{
		cfg:         cfg,
		agg:         aggregator.New(collector, cfg.Endpoints.MaxConcurrent, logger),
		progress:    progress,
		statusTable: opts.StatusTable,
		logger:      logger,
	}, nil
}

// Run executes one full report generation and returns its summary.
// Concurrent calls are rejected with ErrRunInProgress.
func (r *Runner) Run(ctx context.Context) (*models.ReportRun, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()
	defer r.progress.Stop()

	start := time.Now()
	targets := r.cfg.Endpoints.Targets

	r.logger.Info("starting report run",
		zap.Int("targets", len(targets)),
		zap.String("group_by", r.cfg.Report.GroupBy))

	r.progress.Phase(1, runPhases, fmt.Sprintf("querying %d endpoints", len(targets)))
	results := r.agg.Collect(ctx, targets)
	results = r.appendStatusTable(results)

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
			metrics.ObserveEndpointFailure(res.Endpoint)
		}
	}
	if len(results) > 0 && failed == len(results) {
		r.logger.Warn("every source failed, the report will carry errors only")
	}

	r.progress.Phase(2, runPhases, "summarizing alerts")
	groups := summary.Summarize(results, r.cfg.Report.GroupBy)
	totals := summary.Totals(groups)

	r.progress.Phase(3, runPhases, "rendering report")
	html, err := report.RenderRun(groups, report.RunMeta{
		GeneratedAt: start,
		GroupBy:     r.cfg.Report.GroupBy,
		Targets:     len(results),
		Failed:      failed,
	})
	if err != nil {
		metrics.ObserveRunFailure()
		return nil, err
	}

	r.progress.Phase(4, runPhases, "writing artifacts")
	root := r.cfg.Report.OutputDir
	if err := os.MkdirAll(root, 0o755); err != nil {
		metrics.ObserveRunFailure()
		return nil, fmt.Errorf("failed to create reports root: %w", err)
	}
	artifactPath, err := report.WriteArtifact(root, r.cfg.Report.DirPrefix, start, html)
	if err != nil {
		metrics.ObserveRunFailure()
		return nil, err
	}
	if r.cfg.Report.WriteCSV {
		csvPath := filepath.Join(filepath.Dir(artifactPath), report.CSVFileName)
		if err := report.WriteAlertsCSV(csvPath, results); err != nil {
			// The HTML document is the artifact of record; a broken CSV
			// export does not fail the run.
			r.logger.Warn("failed to write CSV export", zap.Error(err))
		}
	}

	r.progress.Phase(5, runPhases, "rebuilding history index")
	if _, err := report.RebuildIndex(root, r.cfg.Report.DirPrefix, start, r.logger); err != nil {
		metrics.ObserveRunFailure()
		return nil, err
	}

	run := &models.ReportRun{
		GeneratedAt:  start,
		Duration:     time.Since(start),
		GroupBy:      r.cfg.Report.GroupBy,
		Groups:       groups,
		Totals:       totals,
		TargetCount:  len(results),
		FailedCount:  failed,
		ArtifactPath: artifactPath,
	}
	metrics.ObserveRun(run)

	r.logger.Info("report run completed",
		zap.Duration("duration", run.Duration),
		zap.Int("alerts", totals.Total()),
		zap.Int("failed_sources", failed),
		zap.String("artifact", artifactPath))
	return run, nil
}

// appendStatusTable ingests the configured status table dump, if any, as one
// more source. A broken dump joins the report as a failed source rather than
// aborting the run.
func (r *Runner) appendStatusTable(results []models.EndpointResult) []models.EndpointResult {
	if r.statusTable == "" {
		return results
	}
	source := "dump:" + filepath.Base(r.statusTable)
	records, err := collectors.ParseStatusTableFile(r.statusTable)
	if err != nil {
		r.logger.Warn("failed to ingest status table",
			zap.String("path", r.statusTable),
			zap.Error(err))
		return append(results, models.EndpointResult{Endpoint: source, Err: err.Error()})
	}
	return append(results, r.agg.ResultFromRecords(source, records))
}
