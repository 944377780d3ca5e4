// Package summary folds per-endpoint results into the report's group
// structure: per-group severity tallies, severity-ordered member lists and
// the per-title drill-down partition.
package summary

import (
	"sort"

	"github.com/tomycgitntnx/Automation/internal/config"
	"github.com/tomycgitntnx/Automation/internal/models"
)

// Summarize groups a run's results for reporting. groupBy selects
// config.GroupByEndpoint (one group per target) or config.GroupByCluster
// (groups keyed by the cluster each alert names, with failed and alert-free
// endpoints keeping a group of their own). Groups come back sorted by key,
// and no target ever disappears from the summary.
func Summarize(results []models.EndpointResult, groupBy string) []models.ClusterGroup {
	var groups []models.ClusterGroup
	if groupBy == config.GroupByCluster {
		groups = byCluster(results)
	} else {
		groups = byEndpoint(results)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	for i := range groups {
		finalize(&groups[i])
	}
	return groups
}

func byEndpoint(results []models.EndpointResult) []models.ClusterGroup {
	groups := make([]models.ClusterGroup, 0, len(results))
	for _, res := range results {
		groups = append(groups, models.ClusterGroup{
			Key:    res.Endpoint,
			Alerts: res.Alerts,
			Err:    res.Err,
		})
	}
	return groups
}

func byCluster(results []models.EndpointResult) []models.ClusterGroup {
	index := make(map[string]int)
	var groups []models.ClusterGroup

	at := func(key string) int {
		if i, ok := index[key]; ok {
			return i
		}
		index[key] = len(groups)
		groups = append(groups, models.ClusterGroup{Key: key})
		return len(groups) - 1
	}

	for _, res := range results {
		if res.Failed() {
			i := at(res.Endpoint)
			if groups[i].Err == "" {
				groups[i].Err = res.Err
			}
			continue
		}
		if len(res.Alerts) == 0 {
			at(res.Endpoint)
			continue
		}
		for _, alert := range res.Alerts {
			i := at(alert.GroupKey())
			groups[i].Alerts = append(groups[i].Alerts, alert)
		}
	}
	return groups
}

// finalize tallies the group and orders its members: severity rank first,
// ties keeping arrival order.
func finalize(g *models.ClusterGroup) {
	for _, alert := range g.Alerts {
		g.Counts.Add(alert.Severity)
	}
	sort.SliceStable(g.Alerts, func(i, j int) bool {
		return g.Alerts[i].Severity.Rank() < g.Alerts[j].Severity.Rank()
	})
	g.Titles = GroupByTitle(g.Alerts)
}

// GroupByTitle partitions alerts by exact title. Members keep the input
// order; the groups are ordered by their most severe member, then title.
func GroupByTitle(alerts []models.Alert) []models.TitleGroup {
	index := make(map[string]int)
	var groups []models.TitleGroup

	for _, alert := range alerts {
		i, ok := index[alert.Title]
		if !ok {
			i = len(groups)
			index[alert.Title] = i
			groups = append(groups, models.TitleGroup{Title: alert.Title})
		}
		groups[i].Alerts = append(groups[i].Alerts, alert)
	}

	best := make(map[string]int, len(groups))
	for _, g := range groups {
		r := g.Alerts[0].Severity.Rank()
		for _, a := range g.Alerts[1:] {
			if rr := a.Severity.Rank(); rr < r {
				r = rr
			}
		}
		best[g.Title] = r
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if best[groups[i].Title] != best[groups[j].Title] {
			return best[groups[i].Title] < best[groups[j].Title]
		}
		return groups[i].Title < groups[j].Title
	})
	return groups
}

// Totals folds all group tallies into one.
func Totals(groups []models.ClusterGroup) models.SeverityCounts {
	var totals models.SeverityCounts
	for _, g := range groups {
		totals.Merge(g.Counts)
	}
	return totals
}
