package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomycgitntnx/Automation/internal/config"
	"github.com/tomycgitntnx/Automation/internal/models"
)

func mkAlert(endpoint, cluster string, sev models.Severity, title string) models.Alert {
	return models.Alert{
		Endpoint:    endpoint,
		ClusterName: cluster,
		Severity:    sev,
		Title:       title,
		Message:     title,
	}
}

func TestSummarizeByEndpoint(t *testing.T) {
	results := []models.EndpointResult{
		{
			Endpoint: "pe-c.example.com",
			Alerts: []models.Alert{
				mkAlert("pe-c.example.com", "", models.SeverityInfo, "Snapshot skipped"),
				mkAlert("pe-c.example.com", "", models.SeverityCritical, "Disk offline"),
				mkAlert("pe-c.example.com", "", models.SeverityWarning, "Pool usage high"),
				mkAlert("pe-c.example.com", "", models.SeverityCritical, "CVM unreachable"),
			},
		},
		{Endpoint: "pe-a.example.com", Err: "all alert API attempts against pe-a.example.com failed: connection refused"},
		{Endpoint: "pe-b.example.com"},
	}

	groups := Summarize(results, config.GroupByEndpoint)
	require.Len(t, groups, 3)

	// Sorted by key, every target present.
	assert.Equal(t, "pe-a.example.com", groups[0].Key)
	assert.Equal(t, "pe-b.example.com", groups[1].Key)
	assert.Equal(t, "pe-c.example.com", groups[2].Key)

	assert.NotEmpty(t, groups[0].Err)
	assert.True(t, groups[1].Empty())

	full := groups[2]
	assert.Equal(t, models.SeverityCounts{Critical: 2, Warning: 1, Info: 1}, full.Counts)
	assert.Equal(t, 4, full.Counts.Total())

	// Severity rank ordering, ties keep arrival order.
	titles := make([]string, 0, len(full.Alerts))
	for _, a := range full.Alerts {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"Disk offline", "CVM unreachable", "Pool usage high", "Snapshot skipped"}, titles)
}

func TestSummarizeByCluster(t *testing.T) {
	results := []models.EndpointResult{
		{
			Endpoint: "pe-1.example.com",
			Alerts: []models.Alert{
				mkAlert("pe-1.example.com", "cl-beta", models.SeverityWarning, "Pool usage high"),
				mkAlert("pe-1.example.com", "cl-alpha", models.SeverityCritical, "Disk offline"),
			},
		},
		{
			Endpoint: "pe-2.example.com",
			Alerts: []models.Alert{
				// No cluster name in the source record; falls back to the
				// origin endpoint.
				mkAlert("pe-2.example.com", "", models.SeverityInfo, "Snapshot skipped"),
				mkAlert("pe-2.example.com", "cl-alpha", models.SeverityWarning, "NTP drift"),
			},
		},
		{Endpoint: "pe-3.example.com", Err: "connection refused"},
		{Endpoint: "pe-4.example.com"},
	}

	groups := Summarize(results, config.GroupByCluster)
	require.Len(t, groups, 5)

	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"cl-alpha", "cl-beta", "pe-2.example.com", "pe-3.example.com", "pe-4.example.com"}, keys)

	// cl-alpha merges alerts from both endpoints.
	alpha := groups[0]
	assert.Equal(t, models.SeverityCounts{Critical: 1, Warning: 1}, alpha.Counts)
	require.Len(t, alpha.Alerts, 2)
	assert.Equal(t, "pe-1.example.com", alpha.Alerts[0].Endpoint)
	assert.Equal(t, "pe-2.example.com", alpha.Alerts[1].Endpoint)

	assert.Equal(t, "connection refused", groups[3].Err)
	assert.True(t, groups[4].Empty())
}

func TestGroupByTitle(t *testing.T) {
	alerts := []models.Alert{
		mkAlert("pe-1", "", models.SeverityCritical, "Disk offline"),
		mkAlert("pe-1", "", models.SeverityWarning, "Pool usage high"),
		mkAlert("pe-2", "", models.SeverityCritical, "Disk offline"),
		mkAlert("pe-1", "", models.SeverityWarning, "NTP drift"),
	}

	groups := GroupByTitle(alerts)
	require.Len(t, groups, 3)

	assert.Equal(t, "Disk offline", groups[0].Title)
	require.Len(t, groups[0].Alerts, 2)
	assert.Equal(t, "pe-1", groups[0].Alerts[0].Endpoint)
	assert.Equal(t, "pe-2", groups[0].Alerts[1].Endpoint)

	// Same best severity sorts by title.
	assert.Equal(t, "NTP drift", groups[1].Title)
	assert.Equal(t, "Pool usage high", groups[2].Title)
}

func TestGroupByTitleWithinSummarize(t *testing.T) {
	results := []models.EndpointResult{
		{
			Endpoint: "pe-1",
			Alerts: []models.Alert{
				mkAlert("pe-1", "", models.SeverityInfo, "Snapshot skipped"),
				mkAlert("pe-1", "", models.SeverityCritical, "Disk offline"),
			},
		},
	}

	groups := Summarize(results, config.GroupByEndpoint)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Titles, 2)
	assert.Equal(t, "Disk offline", groups[0].Titles[0].Title)
	assert.Equal(t, "Snapshot skipped", groups[0].Titles[1].Title)
}

func TestTotals(t *testing.T) {
	groups := []models.ClusterGroup{
		{Counts: models.SeverityCounts{Critical: 1, Info: 2}},
		{Counts: models.SeverityCounts{Warning: 3, Other: 1}},
	}
	assert.Equal(t, models.SeverityCounts{Critical: 1, Warning: 3, Info: 2, Other: 1}, Totals(groups))
}
