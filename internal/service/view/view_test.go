package view

import (
	"fmt"
	"testing"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const today = "2024-01-10"

func hours(t *testing.T, v string) attendance.Hours {
	t.Helper()
	h, err := attendance.NewHours(v)
	require.NoError(t, err)
	return h
}

func records(n int) []attendance.Record {
	out := make([]attendance.Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, attendance.Record{
			UID:  attendance.ID(fmt.Sprint(i)),
			Name: fmt.Sprintf("Employee %02d", i),
			Date: "2024-01-09",
		})
	}
	return out
}

func uids(rs []attendance.Record) []attendance.ID {
	out := make([]attendance.ID, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.UID)
	}
	return out
}

// ===== FILTER =====

func TestFilter_DateOnlyAppliesInAllMode(t *testing.T) {
	rs := []attendance.Record{
		{UID: "1", Date: "2024-01-09"},
		{UID: "2", Date: "2024-01-10"},
		{UID: "3", Date: "2024-01-10"},
	}

	got := Filter(rs, view.State{Mode: attendance.ModeAll, Date: "2024-01-10"})
	assert.Equal(t, []attendance.ID{"2", "3"}, uids(got))

	got = Filter(rs, view.State{Mode: attendance.ModeByDate, Date: "2024-01-10"})
	assert.Equal(t, []attendance.ID{"1", "2", "3"}, uids(got))

	got = Filter(rs, view.State{Mode: attendance.ModeAll})
	assert.Len(t, got, 3)
}

func TestFilter_EmployeeOnlyAppliesInAllMode(t *testing.T) {
	rs := []attendance.Record{
		{UID: "1", Date: "2024-01-09"},
		{UID: "2", Date: "2024-01-09"},
		{UID: "1", Date: "2024-01-10"},
	}

	got := Filter(rs, view.State{Mode: attendance.ModeAll, EmployeeUID: "1"})
	assert.Equal(t, []attendance.ID{"1", "1"}, uids(got))

	for _, mode := range []attendance.Mode{attendance.ModeByEmployee, attendance.ModeByDate, attendance.ModeToday} {
		got = Filter(rs, view.State{Mode: mode, EmployeeUID: "1", Date: "2024-01-10"})
		assert.Len(t, got, 3, mode)
	}
}

func TestFilter_Search(t *testing.T) {
	rs := []attendance.Record{
		{UID: "1", Name: "Awa Diallo", CardNo: "C-100", UserID: "E1", Date: "2024-01-09"},
		{UID: "2", Name: "Jean Dupont", CardNo: "C-200", UserID: "E2", Date: "2024-01-10"},
		{UID: "3", Name: "", CardNo: "", UserID: "", Date: "2024-01-11"},
	}
	state := view.State{Mode: attendance.ModeByDate}

	cases := map[string][]attendance.ID{
		"AWA":        {"1"},
		"dupont":     {"2"},
		"c-":         {"1", "2"},
		"e2":         {"2"},
		"2024-01-11": {"3"},
		"nobody":     {},
		"":           {"1", "2", "3"},
	}
	for needle, want := range cases {
		state.SearchText = needle
		assert.Equal(t, want, uids(Filter(rs, state)), needle)
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	rs := records(5)
	before := uids(rs)

	_ = Filter(rs, view.State{Mode: attendance.ModeAll, EmployeeUID: "3"})

	assert.Equal(t, before, uids(rs))
}

// ===== SORT =====

func TestSort_StatusOrder(t *testing.T) {
	rs := []attendance.Record{
		{UID: "absent", Date: "2024-01-09"},
		{UID: "late", Date: "2024-01-09", ArrivalTime: "09:30", DepartureTime: "17:00"},
		{UID: "ontime", Date: "2024-01-09", ArrivalTime: "07:30", DepartureTime: "17:00"},
	}

	got := Sort(rs, view.SortStatus, today, language.French)

	assert.Equal(t, []attendance.ID{"ontime", "late", "absent"}, uids(got))
	assert.Equal(t, attendance.ID("absent"), rs[0].UID, "input must not be reordered")
}

func TestSort_StatusIsStable(t *testing.T) {
	rs := []attendance.Record{
		{UID: "a1", Date: "2024-01-09"},
		{UID: "p1", Date: "2024-01-09", ArrivalTime: "08:30", DepartureTime: "17:00"},
		{UID: "a2", Date: "2024-01-08"},
		{UID: "a3", Date: "2024-01-07"},
		{UID: "p2", Date: "2024-01-08", ArrivalTime: "08:45", DepartureTime: "17:00"},
	}

	got := Sort(rs, view.SortStatus, today, language.French)

	assert.Equal(t, []attendance.ID{"p1", "p2", "a1", "a2", "a3"}, uids(got))
}

func TestSort_StatusPutsUnknownLast(t *testing.T) {
	rs := []attendance.Record{
		{UID: "leave", Date: "2024-01-09", Status: "Congé"},
		{UID: "missing", Date: "2024-01-09", ArrivalTime: "08:10"},
		{UID: "ontime", Date: "2024-01-09", ArrivalTime: "07:00", DepartureTime: "16:00"},
	}

	got := Sort(rs, view.SortStatus, today, language.French)

	assert.Equal(t, []attendance.ID{"ontime", "missing", "leave"}, uids(got))
}

func TestSort_Keys(t *testing.T) {
	rs := []attendance.Record{
		{UID: "1", Name: "Zoé", Date: "2024-01-08", HoursWorked: hours(t, "7.5")},
		{UID: "2", Name: "émile", Date: "2024-01-10", HoursWorked: hours(t, "")},
		{UID: "3", Name: "Bruno", Date: "2024-01-09", HoursWorked: hours(t, "10.25")},
	}

	cases := []struct {
		key  view.SortKey
		want []attendance.ID
	}{
		{view.SortDateDesc, []attendance.ID{"2", "3", "1"}},
		{view.SortDateAsc, []attendance.ID{"1", "3", "2"}},
		{view.SortNameAsc, []attendance.ID{"3", "2", "1"}},
		{view.SortNameDesc, []attendance.ID{"1", "2", "3"}},
		{view.SortHoursDesc, []attendance.ID{"3", "1", "2"}},
		{view.SortHoursAsc, []attendance.ID{"2", "1", "3"}},
		{"unknown", []attendance.ID{"1", "2", "3"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, uids(Sort(rs, c.key, today, language.French)), c.key)
	}
}

func TestSort_MissingNameSortsFirst(t *testing.T) {
	rs := []attendance.Record{
		{UID: "1", Name: "Awa"},
		{UID: "2"},
	}

	got := Sort(rs, view.SortNameAsc, today, language.French)

	assert.Equal(t, []attendance.ID{"2", "1"}, uids(got))
}

func TestSort_Empty(t *testing.T) {
	got := Sort(nil, view.SortDateDesc, today, language.French)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ===== PAGINATION =====

func TestPaginate_ClampsRequestedPage(t *testing.T) {
	rs := records(45)

	page, p := Paginate(rs, 20, 5)

	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 3, p.Page)
	assert.Len(t, page, 5)
	assert.Equal(t, attendance.ID("41"), page[0].UID)
	assert.Equal(t, "41-45 of 45", p.Showing)
	assert.False(t, p.FirstDisabled)
	assert.True(t, p.NextDisabled)
	assert.True(t, p.LastDisabled)
}

func TestPaginate_Middle(t *testing.T) {
	page, p := Paginate(records(45), 20, 2)

	assert.Len(t, page, 20)
	assert.Equal(t, attendance.ID("21"), page[0].UID)
	assert.Equal(t, "21-40 of 45", p.Showing)
	assert.Equal(t, []int{1, 2, 3}, p.Window)
	assert.False(t, p.LeadingEllipsis)
	assert.False(t, p.TrailingEllipsis)
	assert.False(t, p.PrevDisabled)
	assert.False(t, p.NextDisabled)
}

func TestPaginate_Empty(t *testing.T) {
	page, p := Paginate(nil, 20, 3)

	assert.Empty(t, page)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 1, p.DisplayTotalPages)
	assert.Equal(t, "0 of 0", p.Showing)
	assert.Empty(t, p.Window)
	assert.True(t, p.FirstDisabled)
	assert.True(t, p.PrevDisabled)
	assert.True(t, p.NextDisabled)
	assert.True(t, p.LastDisabled)
}

func TestPaginate_BelowRangeAndBadPageSize(t *testing.T) {
	page, p := Paginate(records(30), 0, -2)

	assert.Equal(t, view.DefaultPageSize, p.PageSize)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 2, p.TotalPages)
	assert.Len(t, page, 20)
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		page, total       int
		want              []int
		leading, trailing bool
	}{
		{1, 0, []int{}, false, false},
		{1, 1, []int{}, false, false},
		{1, 2, []int{1, 2}, false, false},
		{1, 10, []int{1, 2, 3, 4, 5}, false, true},
		{3, 10, []int{1, 2, 3, 4, 5}, false, true},
		{4, 10, []int{2, 3, 4, 5, 6}, true, true},
		{6, 10, []int{4, 5, 6, 7, 8}, true, true},
		{9, 10, []int{6, 7, 8, 9, 10}, true, false},
		{10, 10, []int{6, 7, 8, 9, 10}, true, false},
	}
	for _, c := range cases {
		window, leading, trailing := PageWindow(c.page, c.total)
		assert.Equal(t, c.want, window, "page %d of %d", c.page, c.total)
		assert.Equal(t, c.leading, leading, "page %d of %d", c.page, c.total)
		assert.Equal(t, c.trailing, trailing, "page %d of %d", c.page, c.total)
	}
}

// ===== PROJECTION =====

func TestProject_PageSizeChangeResetsToFirstPage(t *testing.T) {
	rs := records(45)
	state := view.NewState("", 20)
	state.Mode = attendance.ModeByDate
	state.Page = 3

	before := Project(rs, state, today, language.French)
	require.Equal(t, 3, before.Page.Pagination.Page)
	require.Equal(t, 3, before.Page.Pagination.TotalPages)

	tr, err := view.Reduce(state, view.Event{Action: view.ActionSetPageSize, PageSize: 50}, view.Env{
		Today:      today,
		TotalPages: before.Page.Pagination.TotalPages,
	})
	require.NoError(t, err)

	after := Project(rs, tr.Next, today, language.French)
	assert.Equal(t, 1, after.Page.Pagination.Page)
	assert.Equal(t, 1, after.Page.Pagination.TotalPages)
	assert.Len(t, after.Page.Rows, 45)
	assert.Len(t, after.Ordered, 45)
}

func TestProject_Rows(t *testing.T) {
	rs := []attendance.Record{
		{UID: "1", Date: today, ArrivalTime: "08:15"},
		{UID: "2", Date: "2024-01-09", ArrivalTime: "09:15", DepartureTime: "18:00"},
	}
	state := view.State{Mode: attendance.ModeToday, SortKey: view.SortStatus, Page: 1, PageSize: 20}

	got := Project(rs, state, today, language.French)

	require.Len(t, got.Page.Rows, 2)
	assert.Equal(t, attendance.StatusInProgress, got.Page.Rows[0].DerivedStatus)
	assert.Equal(t, "status-inprogress", got.Page.Rows[0].StatusClass)
	assert.True(t, got.Page.Rows[0].IsToday)
	assert.Equal(t, attendance.StatusLate, got.Page.Rows[1].DerivedStatus)
	assert.False(t, got.Page.Rows[1].IsToday)
}

// ===== EMPLOYEES =====

func TestEmployeeOptions(t *testing.T) {
	employees := []attendance.Employee{
		{UID: "3", Name: "Zoé", Matricule: "M-3"},
		{UID: "1", Name: "Awa", UserID: "E1", Matricule: "M-1"},
		{UID: "2", Name: "Émile"},
	}

	got := EmployeeOptions(employees, language.French)

	assert.Equal(t, []view.Option{
		{Value: "1", Label: "Awa (E1)"},
		{Value: "2", Label: "Émile (N/A)"},
		{Value: "3", Label: "Zoé (M-3)"},
	}, got)
	assert.Equal(t, attendance.ID("1"), DefaultEmployee(employees, language.French))
	assert.Equal(t, attendance.ID(""), DefaultEmployee(nil, language.French))
	assert.Equal(t, "Zoé", employees[0].Name, "input must not be reordered")
}

func TestTitle(t *testing.T) {
	employees := []attendance.Employee{{UID: "1", Name: "Awa"}}

	assert.Equal(t, "Tous les pointages", Title(view.State{Mode: attendance.ModeAll}, employees))
	assert.Equal(t, "Pointages du jour", Title(view.State{Mode: attendance.ModeToday}, employees))
	assert.Equal(t, "Pointages du 10/01/2024", Title(view.State{Mode: attendance.ModeByDate, Date: today}, employees))
	assert.Equal(t, "Historique de Awa", Title(view.State{Mode: attendance.ModeByEmployee, EmployeeUID: "1"}, employees))
	assert.Equal(t, "Historique de l'employé", Title(view.State{Mode: attendance.ModeByEmployee, EmployeeUID: "9"}, employees))
}
