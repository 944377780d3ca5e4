package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(handler *Handler) *gin.Engine {
	r := gin.Default()

	// Health check
	r.GET("/health", handler.Health)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Generated report artifacts, served as-is
	r.Static(reportsMount, handler.cfg.Report.OutputDir)

	// API v1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/runs", handler.ListRuns)
		v1.POST("/runs", handler.TriggerRun)
	}

	return r
}
