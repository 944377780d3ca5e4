package models

import "time"

// EndpointResult is the outcome of querying one management endpoint. A failed
// query carries the error text and an empty alert list; it is never dropped
// from the run.
type EndpointResult struct {
	Endpoint   string  `json:"endpoint"`
	Alerts     []Alert `json:"alerts"`
	APIVersion string  `json:"api_version,omitempty"`
	Filter     string  `json:"filter,omitempty"`
	Err        string  `json:"error,omitempty"`
}

// Failed reports whether every query attempt against the endpoint failed.
func (r *EndpointResult) Failed() bool {
	return r.Err != ""
}

// SeverityCounts tallies alerts per canonical severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Other    int `json:"other"`
}

// Add counts one alert of the given severity.
func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityCritical:
		c.Critical++
	case SeverityWarning:
		c.Warning++
	case SeverityInfo:
		c.Info++
	default:
		c.Other++
	}
}

// Merge folds another tally into this one.
func (c *SeverityCounts) Merge(other SeverityCounts) {
	c.Critical += other.Critical
	c.Warning += other.Warning
	c.Info += other.Info
	c.Other += other.Other
}

// Total returns the number of alerts counted.
func (c SeverityCounts) Total() int {
	return c.Critical + c.Warning + c.Info + c.Other
}

// TitleGroup collects the alerts sharing one title, in arrival order.
type TitleGroup struct {
	Title  string  `json:"title"`
	Alerts []Alert `json:"alerts"`
}

// ClusterGroup is one row of the report: all alerts for a group key (cluster
// name or endpoint, depending on the grouping strategy) plus their tally.
type ClusterGroup struct {
	Key    string         `json:"key"`
	Counts SeverityCounts `json:"counts"`

	// Alerts holds the members sorted by severity rank; ties keep the order
	// in which the alerts arrived.
	Alerts []Alert `json:"alerts"`

	// Titles partitions the same members by title for the drill-down view.
	Titles []TitleGroup `json:"titles,omitempty"`

	// Err is set when the backing endpoint failed and no alerts could be
	// collected for this key.
	Err string `json:"error,omitempty"`
}

// Empty reports whether the group holds no alerts and no error.
func (g *ClusterGroup) Empty() bool {
	return g.Err == "" && len(g.Alerts) == 0
}

// ReportRun describes one completed report generation.
type ReportRun struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	Duration     time.Duration  `json:"duration"`
	GroupBy      string         `json:"group_by"`
	Groups       []ClusterGroup `json:"groups"`
	Totals       SeverityCounts `json:"totals"`
	TargetCount  int            `json:"target_count"`
	FailedCount  int            `json:"failed_count"`
	ArtifactPath string         `json:"artifact_path"`
}

// RunArtifact is one previously generated report discovered on disk.
type RunArtifact struct {
	// Name is the artifact directory name under the reports root.
	Name string `json:"name"`
	// Path points at the HTML document, relative to the reports root.
	Path string `json:"path"`
	// GeneratedAt is decoded from the directory name.
	GeneratedAt time.Time `json:"generated_at"`
}
