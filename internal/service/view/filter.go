package view

import (
	"strings"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	"golang.org/x/text/cases"
)

// Filter keeps the records matching every active predicate of the state.
// Input order is preserved and the input slice is not modified.
//
// The date and employee predicates only apply in the All mode: the other
// modes are already narrowed by the backend query.
func Filter(records []attendance.Record, state view.State) []attendance.Record {
	fold := cases.Fold()
	needle := ""
	if state.SearchText != "" {
		needle = fold.String(state.SearchText)
	}

	all := state.Mode == attendance.ModeAll
	out := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if needle != "" && !strings.Contains(fold.String(searchText(r)), needle) {
			continue
		}
		if all && state.Date != "" && r.Date != state.Date {
			continue
		}
		if all && state.EmployeeUID != "" && r.UID != state.EmployeeUID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func searchText(r attendance.Record) string {
	return r.Name + " " + r.CardNo + " " + r.UserID.String() + " " + r.Date
}
