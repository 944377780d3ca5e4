// Package normalize maps raw alert records, as returned by any of the
// management API generations, onto the canonical Alert model. Each logical
// field is resolved through an ordered list of candidate keys so that records
// from older and newer schema versions normalize the same way.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomycgitntnx/Automation/internal/models"
)

var (
	idKeys       = []string{"id", "uuid", "alert_uid"}
	severityKeys = []string{"severity", "alert_severity", "impact", "alert_level"}
	titleKeys    = []string{"title", "alert_title", "summary"}
	messageKeys  = []string{"message", "default_message", "description", "detail"}
	categoryKeys = []string{"category", "impact_type", "classification"}
	clusterKeys  = []string{"cluster_name", "cluster", "origin_cluster"}
	createdKeys  = []string{"created_time_stamp_in_usecs", "creation_time", "created_time", "created", "start_time"}
	updatedKeys  = []string{"last_occurrence_time_stamp_in_usecs", "last_update_time", "last_updated_time", "last_occurred_time", "last_updated"}

	entityNameKeys = []string{"entity_name", "affected_entity", "source_entity", "entity"}
	entityListKeys = []string{"entity_list", "affected_entity_list", "impacted_entities", "entities"}
	entityItemKeys = []string{"name", "entity_name", "display_name"}
)

// Record maps one raw alert record into canonical form. The endpoint field is
// left empty; the caller stamps it. The second return reports that the
// severity value carried a spurious single-character prefix (some API builds
// emit values like "kCRITICAL") which was stripped, so the caller can log the
// quirk.
func Record(raw map[string]any) (models.Alert, bool) {
	alert := models.Alert{
		ID:            firstString(raw, idKeys),
		ClusterName:   firstString(raw, clusterKeys),
		Title:         firstString(raw, titleKeys),
		Message:       firstString(raw, messageKeys),
		Category:      firstString(raw, categoryKeys),
		Entities:      entities(raw),
		CreatedAt:     firstTime(raw, createdKeys),
		LastUpdatedAt: firstTime(raw, updatedKeys),
		Raw:           raw,
	}

	sev, stripped := Severity(firstString(raw, severityKeys))
	alert.Severity = sev

	if alert.Title == "" && alert.Message != "" {
		alert.Title = firstLine(alert.Message)
	}
	return alert, stripped
}

// Severity maps a source severity string onto the canonical levels. Unknown
// values map to SeverityOther. When a value only matches after dropping its
// first character, the match is used and the second return is true.
func Severity(value string) (models.Severity, bool) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if sev, ok := severityLevel(v); ok {
		return sev, false
	}
	if len(v) > 1 {
		if sev, ok := severityLevel(v[1:]); ok {
			return sev, true
		}
	}
	return models.SeverityOther, false
}

func severityLevel(v string) (models.Severity, bool) {
	switch v {
	case "CRITICAL":
		return models.SeverityCritical, true
	case "WARNING", "WARN":
		return models.SeverityWarning, true
	case "INFO", "INFORMATIONAL":
		return models.SeverityInfo, true
	}
	return models.SeverityOther, false
}

// firstString returns the first non-empty string value among the candidate
// keys. Numeric values are rendered as their decimal form so numeric IDs
// survive normalization.
func firstString(raw map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if s := asString(v); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

// firstTime returns the first parsable timestamp among the candidate keys,
// or nil. Values are never substituted: an absent or unparsable timestamp
// stays nil.
func firstTime(raw map[string]any, keys []string) *time.Time {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if t := parseTime(v); t != nil {
			return t
		}
	}
	return nil
}

// parseTime accepts epoch microseconds (number or digit string) and the
// ISO-8601 shapes the APIs are known to emit.
func parseTime(v any) *time.Time {
	if usecs, ok := asEpochMicros(v); ok {
		if usecs <= 0 {
			return nil
		}
		t := time.UnixMicro(usecs).UTC()
		return &t
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func asEpochMicros(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" || !isDigits(s) {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// entities resolves the affected entity names. A singular entity field wins;
// otherwise the first present list field is flattened. Duplicates are dropped,
// first occurrence order kept.
func entities(raw map[string]any) []string {
	if name := firstString(raw, entityNameKeys); name != "" {
		return []string{name}
	}
	for _, k := range entityListKeys {
		list, ok := raw[k].([]any)
		if !ok {
			continue
		}
		var names []string
		seen := make(map[string]bool)
		for _, item := range list {
			name := entityItemName(item)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		if len(names) > 0 {
			return names
		}
	}
	return nil
}

func entityItemName(item any) string {
	switch t := item.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		return firstString(t, entityItemKeys)
	}
	return ""
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
