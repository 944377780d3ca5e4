package collectors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseStatusTable parses a loosely formatted "|"-separated status table, the
// shape older management CLIs print, into raw records keyed by the header
// row. It backstops endpoints that expose no structured API at all.
//
// The first line containing a "|" is the header; column names are folded to
// lower_snake_case so the records normalize like API responses. Ruler lines
// and text outside the table are skipped. Short rows are padded with empty
// values; surplus cells are folded into the last column.
func ParseStatusTable(r io.Reader) ([]map[string]any, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	var records []map[string]any

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isRuler(line) || !strings.Contains(line, "|") {
			continue
		}

		cells := splitRow(line)
		if len(cells) == 0 {
			continue
		}
		if header == nil {
			header = make([]string, len(cells))
			for i, cell := range cells {
				header[i] = headerKey(cell)
			}
			continue
		}

		record := make(map[string]any, len(header))
		for i, key := range header {
			switch {
			case i < len(cells):
				record[key] = cells[i]
			default:
				record[key] = ""
			}
		}
		if len(cells) > len(header) {
			extra := strings.Join(cells[len(header)-1:], " ")
			record[header[len(header)-1]] = extra
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status table: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("no table header found")
	}
	return records, nil
}

// ParseStatusTableFile reads a captured status table dump from disk.
func ParseStatusTableFile(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open status table: %w", err)
	}
	defer f.Close()

	records, err := ParseStatusTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// isRuler reports lines drawn entirely from box characters, like the
// +----+----+ separators under a header.
func isRuler(line string) bool {
	for _, r := range line {
		switch r {
		case '-', '+', '=', '|', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	// Border pipes produce empty edge cells; interior empties are real values.
	if len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func headerKey(cell string) string {
	cell = strings.TrimSuffix(strings.TrimSpace(cell), ":")
	return strings.Join(strings.Fields(strings.ToLower(cell)), "_")
}
