package attendance

import (
	"context"
)

// Mode is the scoping strategy of a view: it decides which backend query runs.
type Mode string

const (
	ModeAll        Mode = "all"
	ModeByDate     Mode = "by-date"
	ModeByEmployee Mode = "by-employee"
	ModeToday      Mode = "today"
)

// Modes lists the view modes in cycling order.
var Modes = []Mode{ModeAll, ModeByDate, ModeByEmployee, ModeToday}

func (m Mode) Valid() bool {
	for _, mode := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Next returns the following mode in cycling order.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if m == mode {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeAll
}

// Scope is the server-side selection of a record set.
type Scope struct {
	Mode        Mode
	Date        string
	EmployeeUID ID
}

// Key identifies the backend query a scope maps to.
// The All date narrowing is local, so it is not part of the key.
func (s Scope) Key() string {
	switch s.Mode {
	case ModeByDate:
		return string(ModeByDate) + ":" + s.Date
	case ModeByEmployee:
		return string(ModeByEmployee) + ":" + s.EmployeeUID.String()
	case ModeToday:
		return string(ModeToday)
	default:
		return string(ModeAll)
	}
}

// AttendanceRepository is the device backend as seen by the dashboard.
// Implementations never patch records in place: every call returns a fresh set.
type AttendanceRepository interface {
	// Health reports whether the backend answers.
	Health(ctx context.Context) (bool, error)

	// Summary returns the global counters.
	Summary(ctx context.Context) (Summary, error)

	// Employees returns the employee reference list.
	Employees(ctx context.Context) ([]Employee, error)

	// Records returns the record set of a scope.
	Records(ctx context.Context, scope Scope) (RecordsResult, error)

	// RecordDetail returns one record and its employee, ErrRecordNotFound on miss.
	RecordDetail(ctx context.Context, uid ID, date string) (Detail, error)

	// Refresh asks the backend to re-read the device and returns the new summary.
	Refresh(ctx context.Context) (Summary, error)
}
