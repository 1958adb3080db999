// Package importer handles the CSV bulk-import pipeline: the bounded
// client-facing preview and the full server-side commit with duplicate
// detection.
package importer

import "strings"

// PreviewLimit bounds how many rows the preview shows.
const PreviewLimit = 5

// PreviewRow is one line of the import preview: the 1-based position among
// the retained lines and the raw column values.
type PreviewRow struct {
	Line int      `json:"line"`
	Data []string `json:"data"`
}

// Preview extracts a best-effort preview from raw delimited text: blank and
// whitespace-only lines are dropped, at most PreviewLimit lines are kept, and
// each cell is trimmed and stripped of surrounding double quotes. The split
// is a naive comma split that does not honor quoted commas; the preview is
// advisory only and the commit path parses properly. Never fails: empty
// input yields an empty result.
func Preview(raw string) []PreviewRow {
	var rows []PreviewRow
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, ",")
		for i, col := range cols {
			cols[i] = strings.Trim(strings.TrimSpace(col), `"`)
		}
		rows = append(rows, PreviewRow{Line: len(rows) + 1, Data: cols})
		if len(rows) == PreviewLimit {
			break
		}
	}
	return rows
}
