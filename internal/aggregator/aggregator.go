// Package aggregator fans alert collection out across the configured
// endpoints and folds the responses into normalized per-endpoint results.
package aggregator

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tomycgitntnx/Automation/internal/collectors"
	"github.com/tomycgitntnx/Automation/internal/models"
	"github.com/tomycgitntnx/Automation/internal/normalize"
)

// Fetcher drains raw alert records from one endpoint.
type Fetcher interface {
	FetchAlerts(ctx context.Context, target string) (*collectors.FetchResult, error)
}

type Aggregator struct {
	fetcher       Fetcher
	maxConcurrent int
	logger        *zap.Logger
}

func New(fetcher Fetcher, maxConcurrent int, logger *zap.Logger) *Aggregator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Aggregator{
		fetcher:       fetcher,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// Collect queries every target concurrently, bounded by the configured
// worker limit. The result slice matches the target order, one entry per
// target; a failed endpoint contributes its error instead of aborting the
// run.
func (a *Aggregator) Collect(ctx context.Context, targets []string) []models.EndpointResult {
	results := make([]models.EndpointResult, len(targets))
	sem := make(chan struct{}, a.maxConcurrent)
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = a.collectOne(ctx, target)
		}(i, target)
	}
	wg.Wait()
	return results
}

func (a *Aggregator) collectOne(ctx context.Context, target string) models.EndpointResult {
	fetched, err := a.fetcher.FetchAlerts(ctx, target)
	if err != nil {
		a.logger.Warn("endpoint query failed",
			zap.String("endpoint", target),
			zap.Error(err))
		return models.EndpointResult{Endpoint: target, Err: err.Error()}
	}

	result := a.ResultFromRecords(target, fetched.Records)
	result.APIVersion = fetched.APIVersion
	result.Filter = fetched.Filter

	a.logger.Info("collected alerts",
		zap.String("endpoint", target),
		zap.String("api_version", fetched.APIVersion),
		zap.String("filter", fetched.Filter),
		zap.Int("pages", fetched.Pages),
		zap.Int("alerts", len(result.Alerts)))
	return result
}

// ResultFromRecords normalizes raw records into an endpoint result, stamping
// each alert with its source. It also serves offline sources like captured
// status tables.
func (a *Aggregator) ResultFromRecords(source string, records []map[string]any) models.EndpointResult {
	result := models.EndpointResult{Endpoint: source}
	stripped := 0
	for _, raw := range records {
		alert, sevStripped := normalize.Record(raw)
		alert.Endpoint = source
		if sevStripped {
			stripped++
		}
		result.Alerts = append(result.Alerts, alert)
	}
	if stripped > 0 {
		a.logger.Warn("stripped spurious severity prefix",
			zap.String("endpoint", source),
			zap.Int("alerts", stripped))
	}
	return result
}
