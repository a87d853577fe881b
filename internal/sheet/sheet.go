// Package sheet defines the in-memory tabular model shared by the codecs,
// the partitioner and the HTTP layer.
//
// A Table is header-first: row 0 is the header, every following row is a
// data row. Rows may be ragged; nothing here enforces a column count.
package sheet

import (
	"path"
	"strings"
)

// Cell is a single scalar value: string, float64, bool, or nil for empty.
type Cell = any

// Row is an ordered sequence of cells.
type Row []Cell

// Table is an ordered sequence of rows, header first.
type Table []Row

// Header returns the header row, or nil for an empty table.
func (t Table) Header() Row {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// DataRows returns every row after the header.
func (t Table) DataRows() []Row {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// DataRowCount returns the number of rows excluding the header.
func (t Table) DataRowCount() int {
	if len(t) == 0 {
		return 0
	}
	return len(t) - 1
}

// Format identifies the on-disk representation of a table.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatXLSX, FormatCSV}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type used when serving a file of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// DetectFormat returns the format implied by fileName's extension and the
// file name with that extension removed. The match is case-insensitive.
// ok is false when the extension is not a supported format.
func DetectFormat(fileName string) (format Format, base string, ok bool) {
	ext := path.Ext(fileName)
	for _, f := range Formats {
		if strings.EqualFold(ext, f.Extension()) {
			return f, strings.TrimSuffix(fileName, ext), true
		}
	}
	return "", "", false
}
