package view

import (
	"slices"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Projection is the output of the whole pipeline for one state.
type Projection struct {
	// Ordered holds every filtered and sorted record, across all pages.
	Ordered []attendance.Record
	Page    view.FilteredPage
}

// Project runs filter, sort and pagination over a record set.
func Project(records []attendance.Record, state view.State, today string, lang language.Tag) Projection {
	ordered := Sort(Filter(records, state), state.SortKey, today, lang)
	pageRecords, pagination := Paginate(ordered, state.PageSize, state.Page)

	return Projection{
		Ordered: ordered,
		Page: view.FilteredPage{
			Rows:       Rows(pageRecords, today),
			Pagination: pagination,
		},
	}
}

// Rows attaches the derived status to each record.
func Rows(records []attendance.Record, today string) []view.Row {
	rows := make([]view.Row, 0, len(records))
	for _, r := range records {
		status := attendance.Classify(r, today)
		rows = append(rows, view.Row{
			Record:        r,
			DerivedStatus: status,
			StatusClass:   attendance.StatusClass(status),
			IsToday:       r.Date == today,
		})
	}
	return rows
}

// EmployeeOptions lists employees by name, labelled "name (external id)".
func EmployeeOptions(employees []attendance.Employee, lang language.Tag) []view.Option {
	sorted := sortedEmployees(employees, lang)
	options := make([]view.Option, 0, len(sorted))
	for _, e := range sorted {
		ref := e.UserID.String()
		if ref == "" {
			ref = e.Matricule
		}
		if ref == "" {
			ref = "N/A"
		}
		options = append(options, view.Option{
			Value: e.UID,
			Label: e.Name + " (" + ref + ")",
		})
	}
	return options
}

// DefaultEmployee is the employee the by-employee view opens on: the first
// one by name. It is empty when there are no employees.
func DefaultEmployee(employees []attendance.Employee, lang language.Tag) attendance.ID {
	sorted := sortedEmployees(employees, lang)
	if len(sorted) == 0 {
		return ""
	}
	return sorted[0].UID
}

func sortedEmployees(employees []attendance.Employee, lang language.Tag) []attendance.Employee {
	col := collate.New(lang)
	sorted := slices.Clone(employees)
	slices.SortStableFunc(sorted, func(a, b attendance.Employee) int {
		return col.CompareString(a.Name, b.Name)
	})
	return sorted
}

// Title is the heading of the record table for a state.
func Title(state view.State, employees []attendance.Employee) string {
	switch state.Mode {
	case attendance.ModeByDate:
		return "Pointages du " + attendance.FormatDate(state.Date)
	case attendance.ModeByEmployee:
		for _, e := range employees {
			if e.UID == state.EmployeeUID {
				return "Historique de " + e.Name
			}
		}
		return "Historique de l'employé"
	case attendance.ModeToday:
		return "Pointages du jour"
	default:
		return "Tous les pointages"
	}
}
