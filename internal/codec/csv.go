package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/splitter/internal/sheet"
)

// CSV handles comma-separated text. Input is always read as UTF-8: a
// leading byte order mark is dropped and invalid byte sequences become
// U+FFFD. Every decoded cell is a string.
type CSV struct{}

func (CSV) Format() sheet.Format { return sheet.FormatCSV }

func (CSV) Decode(r io.Reader) (sheet.Table, error) {
	utf8Reader := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(utf8Reader)
	cr.FieldsPerRecord = -1

	var table sheet.Table
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}

		row := make(sheet.Row, len(record))
		for i, v := range record {
			row[i] = v
		}
		table = append(table, row)
	}

	return table, nil
}

func (CSV) Encode(w io.Writer, t sheet.Table) error {
	cw := csv.NewWriter(w)

	record := make([]string, 0, len(t.Header()))
	for _, row := range t {
		record = record[:0]
		for _, cell := range row {
			record = append(record, FormatCell(cell))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// FormatCell renders a cell the way it appears in delimited text.
func FormatCell(c sheet.Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", v)
	}
}
