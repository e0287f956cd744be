package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Présences"

var columnWidths = []float64{14, 28, 14, 12, 12, 14, 14, 18, 26, 16}

func WriteXLSX(w io.Writer, data dashboard.ExportData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// 1. Title
	if err := f.SetCellValue(sheetName, "A1", data.Title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if err := f.MergeCell(sheetName, "A1", "J1"); err != nil {
		return fmt.Errorf("failed to merge title: %w", err)
	}

	// 2. Header
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A3", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A3", "J3", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	// 3. Rows
	for i, row := range data.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		values := Values(row)
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
		}
		// Hours and entry count stay numeric for spreadsheet formulas
		cells[7] = row.HoursWorked.Round(2).InexactFloat64()
		cells[9] = len(row.Entries)
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
