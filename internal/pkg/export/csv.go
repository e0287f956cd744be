package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
)

const utf8BOM = "\uFEFF"

// WriteCSV writes a UTF-8 CSV with a byte order mark so spreadsheet tools
// pick the right encoding.
func WriteCSV(w io.Writer, data dashboard.ExportData) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range data.Rows {
		if err := cw.Write(Values(row)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
