package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomycgitntnx/Automation/internal/models"
)

func TestRecordModernSchema(t *testing.T) {
	raw := map[string]any{
		"id":           "a9f2-001",
		"severity":     "CRITICAL",
		"title":        "CVM NIC link down",
		"message":      "NIC eth0 on CVM 10.0.0.5 is down",
		"category":     "Hardware",
		"cluster_name": "prod-east",
		"created_time_stamp_in_usecs": float64(1753948800000000),
		"impacted_entities": []any{
			map[string]any{"name": "cvm-10-0-0-5"},
			map[string]any{"name": "cvm-10-0-0-5"},
			map[string]any{"entity_name": "host-2"},
		},
	}

	alert, stripped := Record(raw)

	assert.False(t, stripped)
	assert.Equal(t, "a9f2-001", alert.ID)
	assert.Equal(t, models.SeverityCritical, alert.Severity)
	assert.Equal(t, "CVM NIC link down", alert.Title)
	assert.Equal(t, "NIC eth0 on CVM 10.0.0.5 is down", alert.Message)
	assert.Equal(t, "Hardware", alert.Category)
	assert.Equal(t, "prod-east", alert.ClusterName)
	assert.Equal(t, []string{"cvm-10-0-0-5", "host-2"}, alert.Entities)

	require.NotNil(t, alert.CreatedAt)
	assert.Equal(t, time.UnixMicro(1753948800000000).UTC(), *alert.CreatedAt)
	assert.Nil(t, alert.LastUpdatedAt)
	assert.Equal(t, raw, alert.Raw)
}

func TestRecordLegacySchema(t *testing.T) {
	raw := map[string]any{
		"alert_uid":      "000123",
		"alert_severity": "kWARNING",
		"summary":        "Storage pool usage high",
		"detail":         "Usage above 80% on pool default",
		"creation_time":  "2026-08-02T11:22:33Z",
		"entity_name":    "pool-default",
		"entity_list":    []any{"ignored-when-singular-present"},
	}

	alert, stripped := Record(raw)

	assert.True(t, stripped)
	assert.Equal(t, "000123", alert.ID)
	assert.Equal(t, models.SeverityWarning, alert.Severity)
	assert.Equal(t, "Storage pool usage high", alert.Title)
	assert.Equal(t, "Usage above 80% on pool default", alert.Message)
	assert.Equal(t, []string{"pool-default"}, alert.Entities)

	require.NotNil(t, alert.CreatedAt)
	assert.Equal(t, time.Date(2026, 8, 2, 11, 22, 33, 0, time.UTC), *alert.CreatedAt)
}

func TestRecordTitleFallsBackToMessageFirstLine(t *testing.T) {
	alert, _ := Record(map[string]any{
		"severity": "INFO",
		"message":  "Scheduled snapshot skipped\nprotection domain pd-1 busy",
	})

	assert.Equal(t, "Scheduled snapshot skipped", alert.Title)
	assert.Equal(t, "Scheduled snapshot skipped\nprotection domain pd-1 busy", alert.Message)
}

func TestRecordLeavesEndpointForCaller(t *testing.T) {
	alert, _ := Record(map[string]any{"severity": "INFO"})
	assert.Empty(t, alert.Endpoint)
}

func TestSeverity(t *testing.T) {
	cases := []struct {
		in       string
		want     models.Severity
		stripped bool
	}{
		{"CRITICAL", models.SeverityCritical, false},
		{"critical", models.SeverityCritical, false},
		{" warning ", models.SeverityWarning, false},
		{"WARN", models.SeverityWarning, false},
		{"Informational", models.SeverityInfo, false},
		{"info", models.SeverityInfo, false},
		{"kCRITICAL", models.SeverityCritical, true},
		{"kWARN", models.SeverityWarning, true},
		{"xinfo", models.SeverityInfo, true},
		{"", models.SeverityOther, false},
		{"banana", models.SeverityOther, false},
		{"k", models.SeverityOther, false},
	}
	for _, tc := range cases {
		got, stripped := Severity(tc.in)
		assert.Equalf(t, tc.want, got, "severity %q", tc.in)
		assert.Equalf(t, tc.stripped, stripped, "stripped flag for %q", tc.in)
	}
}

func TestTimestampParsing(t *testing.T) {
	epoch := time.UnixMicro(1753948800123456).UTC()

	cases := []struct {
		name  string
		value any
		want  *time.Time
	}{
		{"epoch micros number", float64(1753948800123456), &epoch},
		{"epoch micros digit string", "1753948800123456", &epoch},
		{"iso with zone", "2026-08-02T11:22:33Z", timePtr(time.Date(2026, 8, 2, 11, 22, 33, 0, time.UTC))},
		{"iso space separated", "2026-08-02 11:22:33", timePtr(time.Date(2026, 8, 2, 11, 22, 33, 0, time.UTC))},
		{"zero epoch", float64(0), nil},
		{"garbage", "not a date", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alert, _ := Record(map[string]any{"created_time": tc.value})
			if tc.want == nil {
				assert.Nil(t, alert.CreatedAt)
				return
			}
			require.NotNil(t, alert.CreatedAt)
			assert.Equal(t, *tc.want, *alert.CreatedAt)
		})
	}
}

func TestTimestampAbsentStaysNil(t *testing.T) {
	alert, _ := Record(map[string]any{"severity": "INFO"})
	assert.Nil(t, alert.CreatedAt)
	assert.Nil(t, alert.LastUpdatedAt)
}

func TestEntitiesFromStringList(t *testing.T) {
	alert, _ := Record(map[string]any{
		"entity_list": []any{"vm-1", "vm-2", "vm-1", ""},
	})
	assert.Equal(t, []string{"vm-1", "vm-2"}, alert.Entities)
}

func TestEntitiesAbsent(t *testing.T) {
	alert, _ := Record(map[string]any{"severity": "WARNING"})
	assert.Nil(t, alert.Entities)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
