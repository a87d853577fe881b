// Package codec converts between file bytes and sheet.Table for each
// supported format.
package codec

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/splitter/internal/sheet"
)

// Codec reads and writes one tabular format.
type Codec interface {
	// Decode parses a whole file into a header-first table.
	Decode(r io.Reader) (sheet.Table, error)

	// Encode writes t as a complete, standalone file.
	Encode(w io.Writer, t sheet.Table) error

	// Format reports which format this codec handles.
	Format() sheet.Format
}

// For returns the codec registered for f.
func For(f sheet.Format) (Codec, error) {
	switch f {
	case sheet.FormatCSV:
		return CSV{}, nil
	case sheet.FormatXLSX:
		return XLSX{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %q", f)
	}
}
