package models

import (
	"strings"
	"time"
)

// Severity is the canonical triage level of an alert. Source severities that
// do not map onto one of the known levels collapse to SeverityOther.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
	SeverityInfo     Severity = "Info"
	SeverityOther    Severity = "Other"
)

// Rank returns the sort priority of a severity; lower sorts first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// Alert is one unresolved condition reported by a cluster manager, normalized
// from whichever API schema the endpoint happened to speak.
type Alert struct {
	ID          string `json:"id,omitempty"`
	Endpoint    string `json:"endpoint"`
	ClusterName string `json:"cluster_name,omitempty"`

	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Category string   `json:"category,omitempty"`

	// Entities lists the affected resource names, deduplicated, in the order
	// the source record reported them.
	Entities []string `json:"entities,omitempty"`

	// CreatedAt and LastUpdatedAt stay nil when the source value was absent
	// or unparsable; they are never substituted with a fabricated time.
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	LastUpdatedAt *time.Time `json:"last_updated_at,omitempty"`

	// Raw keeps the untransformed source record for drill-down display.
	Raw map[string]any `json:"-"`
}

// DisplayTitle returns the title, or a placeholder when the source record
// carried none.
func (a *Alert) DisplayTitle() string {
	if a.Title != "" {
		return a.Title
	}
	return "(untitled alert)"
}

// EntitySummary joins the affected entity names for single-line display.
func (a *Alert) EntitySummary() string {
	return strings.Join(a.Entities, ", ")
}

// GroupKey returns the cluster this alert belongs to, falling back to the
// origin endpoint when the source record did not name a cluster.
func (a *Alert) GroupKey() string {
	if a.ClusterName != "" {
		return a.ClusterName
	}
	return a.Endpoint
}
