package codec

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/splitter/internal/sheet"
)

// OutputSheet is the name of the only sheet in every encoded workbook.
const OutputSheet = "Sheet1"

// XLSX handles Office Open XML workbooks. Only the first sheet is read.
type XLSX struct{}

func (XLSX) Format() sheet.Format { return sheet.FormatXLSX }

func (XLSX) Decode(r io.Reader) (sheet.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("invalid xlsx: workbook has no sheets")
	}
	name := sheets[0]

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: read sheet %q: %w", name, err)
	}

	table := make(sheet.Table, len(raw))
	for r, values := range raw {
		row := make(sheet.Row, len(values))
		for c, v := range values {
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("invalid xlsx: %w", err)
			}
			cellType, err := f.GetCellType(name, axis)
			if err != nil {
				return nil, fmt.Errorf("invalid xlsx: cell %s: %w", axis, err)
			}
			row[c] = typedCell(cellType, v)
		}
		table[r] = row
	}

	return table, nil
}

// typedCell converts a raw stored value into a Cell. Numbers carry no type
// attribute in most writers, so untyped values that parse as numbers are
// treated as numbers.
func typedCell(ct excelize.CellType, v string) sheet.Cell {
	if v == "" {
		return nil
	}
	switch ct {
	case excelize.CellTypeBool:
		return v == "1" || v == "TRUE" || v == "true"
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
		return v
	default:
		return v
	}
}

func (XLSX) Encode(w io.Writer, t sheet.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(OutputSheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	for i, row := range t {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for c, cell := range row {
			values[c] = cell
		}
		if err := sw.SetRow(axis, values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
