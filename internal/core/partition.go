package core

import (
	"fmt"

	"github.com/JonMunkholm/splitter/internal/sheet"
)

// Part is one output slice of a table: the header followed by the data
// rows in [Start, End) of the source table's data rows.
type Part struct {
	Index int // 1-based
	Start int
	End   int
	Table sheet.Table
}

// DataRowCount returns the number of data rows in the part.
func (p Part) DataRowCount() int {
	return p.End - p.Start
}

// Partition splits t into exactly partCount parts. Every part repeats the
// header. Data rows are chunked by ceil(dataRows/partCount), so earlier
// parts take the remainder and trailing parts may be empty.
//
// Row slices in the returned parts alias t; t must not be modified while
// the parts are in use.
func Partition(t sheet.Table, partCount int) ([]Part, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("%w: empty file, no header row", ErrInvalidInput)
	}
	if partCount <= 0 {
		return nil, fmt.Errorf("%w: part count must be a positive integer, got %d", ErrInvalidInput, partCount)
	}

	header := t.Header()
	rows := t.DataRows()
	n := len(rows)
	chunkSize := (n + partCount - 1) / partCount

	parts := make([]Part, partCount)
	for i := range parts {
		start := min(i*chunkSize, n)
		end := min(start+chunkSize, n)

		table := make(sheet.Table, 0, 1+end-start)
		table = append(table, header)
		table = append(table, rows[start:end]...)

		parts[i] = Part{
			Index: i + 1,
			Start: start,
			End:   end,
			Table: table,
		}
	}

	return parts, nil
}
