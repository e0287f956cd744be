package view

import (
	"cmp"
	"slices"
	"strings"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort returns a stably ordered copy of records. Names are compared with the
// collation rules of lang. An unknown key keeps the input order.
func Sort(records []attendance.Record, key view.SortKey, today string, lang language.Tag) []attendance.Record {
	out := slices.Clone(records)
	if out == nil {
		out = []attendance.Record{}
	}

	var compare func(a, b attendance.Record) int
	switch key {
	case view.SortDateDesc:
		compare = func(a, b attendance.Record) int { return strings.Compare(b.Date, a.Date) }
	case view.SortDateAsc:
		compare = func(a, b attendance.Record) int { return strings.Compare(a.Date, b.Date) }
	case view.SortNameAsc:
		col := collate.New(lang)
		compare = func(a, b attendance.Record) int { return col.CompareString(a.Name, b.Name) }
	case view.SortNameDesc:
		col := collate.New(lang)
		compare = func(a, b attendance.Record) int { return col.CompareString(b.Name, a.Name) }
	case view.SortHoursDesc:
		compare = func(a, b attendance.Record) int { return b.HoursWorked.Cmp(a.HoursWorked.Decimal) }
	case view.SortHoursAsc:
		compare = func(a, b attendance.Record) int { return a.HoursWorked.Cmp(b.HoursWorked.Decimal) }
	case view.SortStatus:
		// Classify once per record, not once per comparison.
		type ranked struct {
			priority int
			record   attendance.Record
		}
		items := make([]ranked, len(out))
		for i, r := range out {
			items[i] = ranked{priority: attendance.Priority(attendance.Classify(r, today)), record: r}
		}
		slices.SortStableFunc(items, func(a, b ranked) int {
			return cmp.Compare(a.priority, b.priority)
		})
		for i, item := range items {
			out[i] = item.record
		}
		return out
	default:
		return out
	}

	slices.SortStableFunc(out, compare)
	return out
}
