package postgresql

import (
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// lateAfter is the last on-time arrival minute, 09:00.
const lateAfter = 9 * 60

func isLate(r attendance.Record) bool {
	minutes, err := attendance.ParseClock(r.ArrivalTime)
	return err == nil && minutes > lateAfter
}

// dayStats counts one day's records against the employee roster.
// An employee with several rows on the day is counted once.
func dayStats(records []attendance.Record, totalEmployees int) attendance.ScopeStats {
	present := map[attendance.ID]bool{}
	late := map[attendance.ID]bool{}
	inProgress := map[attendance.ID]bool{}
	for _, r := range records {
		if !r.HasArrival() {
			continue
		}
		present[r.UID] = true
		if isLate(r) {
			late[r.UID] = true
		}
		if !r.HasDeparture() {
			inProgress[r.UID] = true
		}
	}

	absent := totalEmployees - len(present)
	if absent < 0 {
		absent = 0
	}

	return attendance.ScopeStats{
		Total:      totalEmployees,
		Present:    len(present),
		Late:       len(late),
		Absent:     absent,
		InProgress: len(inProgress),
	}
}

// employeeStats summarizes one employee's history. The average is over the
// days with an arrival.
func employeeStats(records []attendance.Record) attendance.ScopeStats {
	stats := attendance.ScopeStats{TotalDays: len(records)}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.HoursWorked.Decimal)
		if !r.HasArrival() {
			continue
		}
		stats.PresentDays++
		if isLate(r) {
			stats.LateDays++
		}
	}

	stats.TotalHours = attendance.Hours{Decimal: total.Round(2)}
	stats.AverageHours = attendance.Hours{Decimal: decimal.Zero}
	if stats.PresentDays > 0 {
		stats.AverageHours = attendance.Hours{Decimal: total.Div(decimal.NewFromInt(int64(stats.PresentDays))).Round(2)}
	}
	return stats
}
