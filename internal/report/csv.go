package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/tomycgitntnx/Automation/internal/models"
)

var csvHeader = []string{
	"endpoint", "cluster", "severity", "title", "category",
	"created_at", "last_updated_at", "entities", "message",
}

// WriteAlertsCSV exports every collected alert as one flat CSV row, in the
// order the results arrived. Failed endpoints contribute nothing here; they
// are visible in the HTML report.
func WriteAlertsCSV(path string, results []models.EndpointResult) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(csvHeader)
	for _, res := range results {
		if res.Failed() {
			continue
		}
		for _, alert := range res.Alerts {
			w.Write([]string{
				alert.Endpoint,
				alert.ClusterName,
				string(alert.Severity),
				alert.Title,
				alert.Category,
				csvTime(alert.CreatedAt),
				csvTime(alert.LastUpdatedAt),
				alert.EntitySummary(),
				alert.Message,
			})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode alert CSV: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

func csvTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
