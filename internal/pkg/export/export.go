package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
)

var ErrUnsupportedExportFormat = errors.New("unsupported export format")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// ParseFormat accepts csv, xlsx and html, case-insensitively. Empty means csv.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, value)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FileName returns presences_<today>_<n>_lignes.<ext>.
func FileName(data dashboard.ExportData, format Format) string {
	return fmt.Sprintf("presences_%s_%d_lignes.%s", data.Today, len(data.Rows), format)
}

// Columns is the header of every export format.
var Columns = []string{
	"Matricule",
	"Nom",
	"ID Employé",
	"Date",
	"Jour",
	"Heure arrivée",
	"Heure départ",
	"Heures travaillées",
	"Statut",
	"Nombre de points",
}

// Values returns the exported cells of a row, in Columns order.
func Values(row view.Row) []string {
	return []string{
		row.CardNo,
		row.Name,
		row.UserID.String(),
		row.Date,
		row.DisplayDayName(),
		row.ArrivalTime,
		row.DepartureTime,
		row.HoursWorked.StringFixed(2),
		string(row.DerivedStatus),
		strconv.Itoa(len(row.Entries)),
	}
}

// Write renders data in the given format.
func Write(w io.Writer, format Format, data dashboard.ExportData) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, data)
	case FormatXLSX:
		return WriteXLSX(w, data)
	case FormatHTML:
		return WriteHTML(w, data)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, format)
	}
}
