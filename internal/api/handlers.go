package api

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tomycgitntnx/Automation/internal/config"
	"github.com/tomycgitntnx/Automation/internal/models"
	"github.com/tomycgitntnx/Automation/internal/report"
	"github.com/tomycgitntnx/Automation/internal/runner"
)

// reportsMount is the URL prefix the artifact tree is served under.
const reportsMount = "/reports"

type Handler struct {
	runner *runner.Runner
	cfg    *config.Config
	logger *zap.Logger
}

func NewHandler(runner *runner.Runner, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// ListRuns returns every generated report found on disk, newest first. Paths
// are rewritten to hrefs under the static reports mount.
func (h *Handler) ListRuns(c *gin.Context) {
	artifacts, err := report.ScanRuns(h.cfg.Report.OutputDir, h.cfg.Report.DirPrefix, h.logger)
	if err != nil {
		h.logger.Error("failed to scan report runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for i := range artifacts {
		artifacts[i].Path = path.Join(reportsMount, artifacts[i].Path)
	}

	c.JSON(http.StatusOK, models.RunsResponse{
		Count: len(artifacts),
		Runs:  artifacts,
	})
}

// TriggerRun starts a report run and blocks until it completes. While another
// run holds the pipeline the request is rejected with 409.
func (h *Handler) TriggerRun(c *gin.Context) {
	run, err := h.runner.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, runner.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("report run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.NewRunResponse(run, h.reportURL(run)))
}

// reportURL maps the artifact document on disk to its href under the static
// reports mount.
func (h *Handler) reportURL(run *models.ReportRun) string {
	if run.ArtifactPath == "" {
		return ""
	}
	rel, err := filepath.Rel(h.cfg.Report.OutputDir, run.ArtifactPath)
	if err != nil {
		return ""
	}
	return path.Join(reportsMount, filepath.ToSlash(rel))
}
