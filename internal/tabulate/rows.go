// Package tabulate turns parsed XML documents into CSV rows using the
// configured tag mapping. It is pure computation so the row expansion
// policy can be tested without touching PDFs or the filesystem.
package tabulate

import (
	"github.com/attachx/pdfxml2csv/internal/mapping"
	"github.com/attachx/pdfxml2csv/internal/xmldoc"
)

// BuildRows produces the CSV rows for one document under the given
// mapping.
//
// For every active mapping entry the tag's occurrence values are taken
// in document order. The document yields as many rows as the largest
// occurrence count; a document where no active tag contributes a value
// yields none. Row i takes each tag's i-th occurrence when it exists,
// falls back to the tag's last value, and finally to the empty string.
// A tag repeated three times while the others appear once therefore
// yields three rows with the singleton values duplicated on each.
func BuildRows(doc *xmldoc.Document, m *mapping.Mapping) [][]string {
	active := m.Active()
	if len(active) == 0 {
		return nil
	}

	columns := make([][]string, len(active))
	maxCount := 0
	for i, entry := range active {
		columns[i] = doc.Occurrences(entry.Tag)
		if len(columns[i]) > maxCount {
			maxCount = len(columns[i])
		}
	}
	if maxCount == 0 {
		return nil
	}

	rows := make([][]string, maxCount)
	for r := 0; r < maxCount; r++ {
		row := make([]string, len(active))
		for i := range active {
			values := columns[i]
			switch {
			case r < len(values):
				row[i] = values[r]
			case len(values) > 0:
				row[i] = values[len(values)-1]
			}
		}
		rows[r] = row
	}
	return rows
}
