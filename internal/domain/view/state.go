package view

import "github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortKey names a row ordering.
type SortKey string

const (
	SortDateDesc  SortKey = "date-desc"
	SortDateAsc   SortKey = "date-asc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortHoursDesc SortKey = "hours-desc"
	SortHoursAsc  SortKey = "hours-asc"
	SortStatus    SortKey = "status"
)

var SortKeys = []SortKey{
	SortDateDesc,
	SortDateAsc,
	SortNameAsc,
	SortNameDesc,
	SortHoursDesc,
	SortHoursAsc,
	SortStatus,
}

func (k SortKey) Valid() bool {
	for _, key := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

// State is the complete description of what a dashboard shows.
// It is a value: every change goes through Reduce and yields a new State.
type State struct {
	Mode        attendance.Mode `json:"mode"`
	Date        string          `json:"date"`
	EmployeeUID attendance.ID   `json:"employee_uid"`
	SearchText  string          `json:"search_text"`
	SortKey     SortKey         `json:"sort_key"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
}

// NewState returns the initial view: every record of today, newest first.
func NewState(today string, pageSize int) State {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return State{
		Mode:     attendance.ModeAll,
		Date:     today,
		SortKey:  SortDateDesc,
		Page:     1,
		PageSize: pageSize,
	}
}

// Scope returns the server-side selection the state maps to.
func (s State) Scope() attendance.Scope {
	return attendance.Scope{
		Mode:        s.Mode,
		Date:        s.Date,
		EmployeeUID: s.EmployeeUID,
	}
}
