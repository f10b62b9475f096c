// Package export writes report tables as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"github.com/zulandar/pitwall/internal/report"
)

// maxSheetName is Excel's sheet name length limit.
const maxSheetName = 31

// WriteCSV writes the header and rows of t. An empty table writes nothing.
func WriteCSV(w io.Writer, t *report.Table) error {
	cw := csv.NewWriter(w)
	if len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return fmt.Errorf("export: csv header: %w", err)
		}
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("export: csv rows: %w", err)
	}
	return nil
}

// WriteXLSX writes t as a single-sheet workbook. Numeric cells are stored as
// numbers so spreadsheet formulas work on them.
func WriteXLSX(w io.Writer, t *report.Table, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	name := SheetName(sheet)
	if name != "Sheet1" {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("export: xlsx sheet: %w", err)
		}
	}

	rows := make([][]string, 0, len(t.Rows)+1)
	if len(t.Header) > 0 {
		rows = append(rows, t.Header)
	}
	rows = append(rows, t.Rows...)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export: xlsx row %d: %w", i+1, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v, i == 0 && len(t.Header) > 0)
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("export: xlsx row %d: %w", i+1, err)
		}
	}
	if len(t.Header) > 0 {
		if err := f.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("export: xlsx panes: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: xlsx write: %w", err)
	}
	return nil
}

// SheetName trims a report type to a valid sheet name.
func SheetName(s string) string {
	if s == "" {
		return "Sheet1"
	}
	r := []rune(s)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}

func cellValue(v string, header bool) interface{} {
	if header {
		return v
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
