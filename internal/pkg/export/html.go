package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var tableTemplate = template.Must(template.New("table.html.tmpl").Funcs(template.FuncMap{
	"values": Values,
}).ParseFS(templateFS, "templates/table.html.tmpl"))

type htmlPage struct {
	Title   string
	Today   string
	Columns []string
	Data    dashboard.ExportData
}

func WriteHTML(w io.Writer, data dashboard.ExportData) error {
	page := htmlPage{
		Title:   data.Title,
		Today:   attendance.FormatDate(data.Today),
		Columns: Columns,
		Data:    data,
	}
	if err := tableTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render html export: %w", err)
	}
	return nil
}
