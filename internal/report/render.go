// Package report renders the HTML alert report and the history index, and
// owns the on-disk artifact layout under the reports root.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/kennygrant/sanitize"

	"github.com/tomycgitntnx/Automation/internal/models"
)

// RunMeta carries the run facts displayed in the report header.
type RunMeta struct {
	GeneratedAt time.Time
	GroupBy     string
	Targets     int
	Failed      int
}

// RenderRun renders the full report document for one run. The document is
// self-contained: inline styles, no external assets, anchors linking the
// summary table to the per-group sections.
func RenderRun(groups []models.ClusterGroup, meta RunMeta) ([]byte, error) {
	var buf bytes.Buffer
	if err := runTemplate.Execute(&buf, buildRunView(groups, meta)); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// AgeBucket labels an alert's age at render time. Under 24 hours is strict;
// an alert exactly 24 hours old already counts as "1-30 days", and one
// exactly 30 days old still does.
func AgeBucket(created *time.Time, now time.Time) (label, class string) {
	if created == nil {
		return "", ""
	}
	age := now.Sub(*created)
	switch {
	case age < 24*time.Hour:
		return "< 24h", "age-fresh"
	case age <= 30*24*time.Hour:
		return "1-30 days", "age-aging"
	default:
		return "> 30 days", "age-stale"
	}
}

type runView struct {
	GeneratedAt string
	GroupBy     string
	Targets     int
	Failed      int
	Totals      models.SeverityCounts
	TotalAlerts int
	Groups      []groupView
}

type groupView struct {
	Name   string
	Anchor string
	Counts models.SeverityCounts
	Total  int
	Err    string
	Empty  bool
	Titles []titleView
}

type titleView struct {
	Title  string
	Count  int
	Alerts []alertView
}

type alertView struct {
	Severity string
	SevClass string
	Endpoint string
	Cluster  string
	Message  string
	Created  string
	Age      string
	AgeClass string
	Entities string
	Raw      string
}

func buildRunView(groups []models.ClusterGroup, meta RunMeta) runView {
	view := runView{
		GeneratedAt: meta.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		GroupBy:     meta.GroupBy,
		Targets:     meta.Targets,
		Failed:      meta.Failed,
		Groups:      make([]groupView, 0, len(groups)),
	}
	for _, g := range groups {
		view.Totals.Merge(g.Counts)
		view.Groups = append(view.Groups, buildGroupView(g, meta.GeneratedAt))
	}
	view.TotalAlerts = view.Totals.Total()
	return view
}

func buildGroupView(g models.ClusterGroup, now time.Time) groupView {
	gv := groupView{
		Name:   g.Key,
		Anchor: groupAnchor(g.Key),
		Counts: g.Counts,
		Total:  g.Counts.Total(),
		Err:    g.Err,
		Empty:  g.Empty(),
	}
	for _, tg := range g.Titles {
		tv := titleView{
			Title: tg.Title,
			Count: len(tg.Alerts),
		}
		if tv.Title == "" {
			tv.Title = "(untitled alert)"
		}
		for _, alert := range tg.Alerts {
			tv.Alerts = append(tv.Alerts, buildAlertView(alert, now))
		}
		gv.Titles = append(gv.Titles, tv)
	}
	return gv
}

func buildAlertView(alert models.Alert, now time.Time) alertView {
	av := alertView{
		Severity: string(alert.Severity),
		SevClass: strings.ToLower(string(alert.Severity)),
		Endpoint: alert.Endpoint,
		Cluster:  alert.ClusterName,
		Message:  alert.Message,
		Entities: alert.EntitySummary(),
	}
	if alert.CreatedAt != nil {
		av.Created = alert.CreatedAt.Format("2006-01-02 15:04:05 MST")
	}
	av.Age, av.AgeClass = AgeBucket(alert.CreatedAt, now)
	if len(alert.Raw) > 0 {
		if raw, err := json.MarshalIndent(alert.Raw, "", "  "); err == nil {
			av.Raw = string(raw)
		}
	}
	return av
}

// groupAnchor turns a group key into a stable fragment identifier. Keys are
// unique per report, so the anchors are too.
func groupAnchor(key string) string {
	return "group-" + sanitize.Name(strings.ToLower(key))
}

var runTemplate = template.Must(template.New("run").Parse(runTemplateHTML))

const runTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Unresolved Alert Report</title>
<style>
 body { font-family: Arial, Helvetica, sans-serif; margin: 24px; color: #1f2430; }
 h1 { margin-bottom: 4px; }
 h2 { margin-top: 36px; border-bottom: 2px solid #d5d9e0; padding-bottom: 4px; }
 .meta { color: #5b6372; margin-top: 0; }
 table { border-collapse: collapse; width: 100%; margin: 12px 0 20px; }
 th, td { border: 1px solid #d5d9e0; padding: 6px 10px; text-align: left; vertical-align: top; }
 th { background: #eef1f5; }
 td.num { text-align: right; }
 a { color: #1a56a0; text-decoration: none; }
 a:hover { text-decoration: underline; }
 .critical { color: #b01212; font-weight: bold; }
 .warning { color: #9a6700; font-weight: bold; }
 .info { color: #1a56a0; }
 .other { color: #5b6372; }
 .error { color: #b01212; }
 .empty { color: #2e7d32; }
 .age-fresh { background: #fdecea; color: #b01212; border-radius: 3px; padding: 1px 6px; white-space: nowrap; }
 .age-aging { background: #fff4e0; color: #9a6700; border-radius: 3px; padding: 1px 6px; white-space: nowrap; }
 .age-stale { background: #edf0f4; color: #5b6372; border-radius: 3px; padding: 1px 6px; white-space: nowrap; }
 details.title-group { margin: 10px 0; }
 summary { cursor: pointer; font-weight: bold; }
 pre { background: #f6f8fa; padding: 8px; overflow-x: auto; font-size: 12px; max-width: 720px; }
 .footer { color: #8a93a3; font-size: 12px; margin-top: 32px; }
</style>
</head>
<body>
<h1>Unresolved Alert Report</h1>
<p class="meta">Generated {{.GeneratedAt}} &middot; grouped by {{.GroupBy}} &middot; {{.Targets}} targets queried, {{.Failed}} failed &middot; {{.TotalAlerts}} alerts</p>

<table>
<tr><th>Group</th><th>Critical</th><th>Warning</th><th>Info</th><th>Other</th><th>Total</th><th>Status</th></tr>
{{range .Groups}}<tr>
<td><a href="#{{.Anchor}}">{{.Name}}</a></td>
<td class="num critical"><a href="#{{.Anchor}}">{{.Counts.Critical}}</a></td>
<td class="num warning"><a href="#{{.Anchor}}">{{.Counts.Warning}}</a></td>
<td class="num info"><a href="#{{.Anchor}}">{{.Counts.Info}}</a></td>
<td class="num other"><a href="#{{.Anchor}}">{{.Counts.Other}}</a></td>
<td class="num">{{.Total}}</td>
<td>{{if .Err}}<span class="error">query failed</span>{{else}}OK{{end}}</td>
</tr>{{end}}
</table>

{{range .Groups}}<h2 id="{{.Anchor}}">{{.Name}}</h2>
{{if .Err}}<p class="error">Query failed: {{.Err}}</p>
{{else if .Empty}}<p class="empty">No alerts found.</p>
{{else}}{{range .Titles}}<details class="title-group" open>
<summary>{{.Title}} &middot; {{.Count}}</summary>
<table>
<tr><th>Severity</th><th>Age</th><th>Created</th><th>Endpoint</th><th>Cluster</th><th>Entities</th><th>Message</th></tr>
{{range .Alerts}}<tr>
<td class="{{.SevClass}}">{{.Severity}}</td>
<td>{{if .Age}}<span class="{{.AgeClass}}">{{.Age}}</span>{{end}}</td>
<td>{{.Created}}</td>
<td>{{.Endpoint}}</td>
<td>{{.Cluster}}</td>
<td>{{.Entities}}</td>
<td>{{.Message}}{{if .Raw}}<details><summary>raw record</summary><pre>{{.Raw}}</pre></details>{{end}}</td>
</tr>{{end}}
</table>
</details>
{{end}}{{end}}
{{end}}
<p class="footer">Generated by alert-report &middot; {{.GeneratedAt}}</p>
</body>
</html>
`
