package collectors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomycgitntnx/Automation/internal/models"
	"github.com/tomycgitntnx/Automation/internal/normalize"
)

const sampleTable = `
Cluster status report, generated 2026-08-02

| ID  | Severity | Title         | Created             | Entity | Message           |
+-----+----------+---------------+---------------------+--------+-------------------+
| A-1 | CRITICAL | Disk offline  | 2026-08-02 11:22:33 | disk-7 | Disk 7 is offline |
| A-2 | kWARNING | Pool usage    |                     | pool-1 | Usage above 80%   |
| A-3 | INFO     | Ragged | row  | with | surplus | pipes | in the tail |
| A-4 | INFO     | Short row
`

func TestParseStatusTable(t *testing.T) {
	records, err := ParseStatusTable(strings.NewReader(sampleTable))
	require.NoError(t, err)
	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, "A-1", first["id"])
	assert.Equal(t, "CRITICAL", first["severity"])
	assert.Equal(t, "Disk offline", first["title"])
	assert.Equal(t, "2026-08-02 11:22:33", first["created"])
	assert.Equal(t, "disk-7", first["entity"])
	assert.Equal(t, "Disk 7 is offline", first["message"])

	// Interior empty cells stay empty values.
	assert.Equal(t, "", records[1]["created"])

	// Surplus cells fold into the last column.
	assert.Equal(t, "surplus pipes in the tail", records[2]["message"])

	// Short rows pad out with empty values.
	assert.Equal(t, "Short row", records[3]["title"])
	assert.Equal(t, "", records[3]["message"])
}

func TestParseStatusTableFeedsNormalization(t *testing.T) {
	records, err := ParseStatusTable(strings.NewReader(sampleTable))
	require.NoError(t, err)

	alert, stripped := normalize.Record(records[0])
	assert.False(t, stripped)
	assert.Equal(t, models.SeverityCritical, alert.Severity)
	assert.Equal(t, "Disk offline", alert.Title)
	assert.Equal(t, []string{"disk-7"}, alert.Entities)
	require.NotNil(t, alert.CreatedAt)

	legacy, stripped := normalize.Record(records[1])
	assert.True(t, stripped)
	assert.Equal(t, models.SeverityWarning, legacy.Severity)
	assert.Nil(t, legacy.CreatedAt)
}

func TestParseStatusTableNoHeader(t *testing.T) {
	_, err := ParseStatusTable(strings.NewReader("nothing tabular here\nat all\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no table header")
}

func TestParseStatusTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0o644))

	records, err := ParseStatusTableFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	_, err = ParseStatusTableFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
