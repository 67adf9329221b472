package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of a spreadsheet export: a name, a header row
// and display-ready data rows. The writer knows nothing about grouping
// or totals; callers hand it finished rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// ToExcel writes the sheets to a single XLSX workbook and returns its
// bytes. Generation is all-or-nothing: any write error discards the
// whole workbook.
func ToExcel(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		name := sheet.Name
		if i == 0 {
			// Rename the implicit default sheet instead of adding.
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("add sheet %q: %w", name, err)
			}
		}

		// Headerless sheets lay out their own rows from the top.
		offset := 1
		if len(sheet.Header) > 0 {
			header := make([]any, len(sheet.Header))
			for j, h := range sheet.Header {
				header[j] = h
			}
			if err := setRow(f, name, 1, header); err != nil {
				return nil, err
			}
			offset = 2
		}
		for r, row := range sheet.Rows {
			if err := setRow(f, name, r+offset, row); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %q: %w", rowNum, sheet, err)
	}
	return nil
}
