package aggregator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tomycgitntnx/Automation/internal/collectors"
	"github.com/tomycgitntnx/Automation/internal/models"
)

type fakeFetcher struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int

	delay     time.Duration
	responses map[string]*collectors.FetchResult
	errs      map[string]error
}

func (f *fakeFetcher) FetchAlerts(_ context.Context, target string) (*collectors.FetchResult, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err, ok := f.errs[target]; ok {
		return nil, err
	}
	if res, ok := f.responses[target]; ok {
		return res, nil
	}
	return &collectors.FetchResult{APIVersion: "v3", Filter: "resolved==false"}, nil
}

func TestCollectPreservesTargetOrder(t *testing.T) {
	targets := []string{"ep-a", "ep-b", "ep-c", "ep-d"}
	fetcher := &fakeFetcher{
		responses: map[string]*collectors.FetchResult{
			"ep-b": {
				APIVersion: "v2",
				Filter:     "resolved=false",
				Records: []map[string]any{
					{"title": "Disk offline", "severity": "CRITICAL"},
				},
			},
		},
		errs: map[string]error{
			"ep-c": fmt.Errorf("all alert API attempts against ep-c failed: connection refused"),
		},
	}

	results := New(fetcher, 4, zap.NewNop()).Collect(context.Background(), targets)

	require.Len(t, results, len(targets))
	for i, target := range targets {
		assert.Equal(t, target, results[i].Endpoint)
	}

	assert.False(t, results[0].Failed())
	assert.Empty(t, results[0].Alerts)

	require.Len(t, results[1].Alerts, 1)
	assert.Equal(t, "v2", results[1].APIVersion)
	assert.Equal(t, "ep-b", results[1].Alerts[0].Endpoint)

	assert.True(t, results[2].Failed())
	assert.Contains(t, results[2].Err, "connection refused")
	assert.Empty(t, results[2].Alerts)
}

func TestCollectHonorsConcurrencyLimit(t *testing.T) {
	targets := make([]string, 9)
	for i := range targets {
		targets[i] = fmt.Sprintf("ep-%d", i)
	}
	fetcher := &fakeFetcher{delay: 10 * time.Millisecond}

	New(fetcher, 2, zap.NewNop()).Collect(context.Background(), targets)

	assert.LessOrEqual(t, fetcher.maxInFlight, 2)
	assert.Greater(t, fetcher.maxInFlight, 0)
}

func TestCollectNormalizesRecords(t *testing.T) {
	fetcher := &fakeFetcher{
		responses: map[string]*collectors.FetchResult{
			"ep-a": {
				APIVersion: "v1",
				Filter:     "$filter=resolved eq false",
				Records: []map[string]any{
					{"alert_severity": "kCRITICAL", "summary": "CVM unreachable"},
					{"severity": "INFO", "title": "Snapshot skipped"},
				},
			},
		},
	}

	results := New(fetcher, 1, zap.NewNop()).Collect(context.Background(), []string{"ep-a"})

	require.Len(t, results, 1)
	alerts := results[0].Alerts
	require.Len(t, alerts, 2)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, "CVM unreachable", alerts[0].Title)
	assert.Equal(t, "ep-a", alerts[0].Endpoint)
	assert.Equal(t, models.SeverityInfo, alerts[1].Severity)
}

func TestResultFromRecordsStampsSource(t *testing.T) {
	agg := New(&fakeFetcher{}, 1, zap.NewNop())

	result := agg.ResultFromRecords("dump:cluster01.txt", []map[string]any{
		{"severity": "WARNING", "title": "Pool usage high"},
	})

	assert.Equal(t, "dump:cluster01.txt", result.Endpoint)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, "dump:cluster01.txt", result.Alerts[0].Endpoint)
	assert.False(t, result.Failed())
}
