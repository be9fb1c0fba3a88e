package importer

import "strings"

// Table is a parsed tabular payload: the header row plus every data
// row keyed by header.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// ParseTabular splits a raw payload whose first line is headers and
// whose cells are comma delimited with optional double-quote wrapping.
// Quotes are stripped but commas inside quoted cells are NOT handled;
// sources with embedded commas need pre-processing before ingestion.
func ParseTabular(raw string) Table {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var table Table
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitCells(line)
		if table.Headers == nil {
			table.Headers = cells
			continue
		}
		row := make(map[string]string, len(table.Headers))
		for i, header := range table.Headers {
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func splitCells(line string) []string {
	parts := strings.Split(line, ",")
	cells := make([]string, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= 2 && strings.HasPrefix(p, `"`) && strings.HasSuffix(p, `"`) {
			p = p[1 : len(p)-1]
		}
		cells[i] = p
	}
	return cells
}
