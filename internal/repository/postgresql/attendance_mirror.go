package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const recordColumns = `
	r.employee_uid, COALESCE(e.name, ''), COALESCE(e.card_no, ''), COALESCE(e.user_id, ''),
	to_char(r.date, 'YYYY-MM-DD'), r.day_name, r.arrival_time, r.departure_time,
	r.hours_worked::text, r.status, r.device_user_id,
	COALESCE((
		SELECT json_agg(json_build_object('type', en.type, 'time', en.time, 'timestamp', en.timestamp) ORDER BY en.seq)
		FROM attendance_entries en
		WHERE en.record_id = r.id
	), '[]'::json)
`

type attendanceMirror struct {
	db  *database.DB
	loc *time.Location
	now func() time.Time
}

// NewAttendanceRepository returns a read-only repository over the PostgreSQL
// mirror of the device backend. loc decides which day "today" is.
func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceMirror{db: db, loc: loc, now: time.Now}
}

// Health implements attendance.AttendanceRepository.
func (m *attendanceMirror) Health(ctx context.Context) (bool, error) {
	if err := m.db.Ping(ctx); err != nil {
		return false, fmt.Errorf("%w: %v", attendance.ErrNetworkFailure, err)
	}
	return true, nil
}

// Summary implements attendance.AttendanceRepository.
func (m *attendanceMirror) Summary(ctx context.Context) (attendance.Summary, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM employees),
			(SELECT COUNT(DISTINCT date) FROM attendance_records),
			(SELECT COUNT(*) FROM attendance_records),
			COALESCE(s.total_logs, (SELECT COUNT(*) FROM attendance_entries)),
			s.last_update,
			COALESCE(s.is_connected, FALSE),
			s.is_real_data
		FROM (SELECT 1) AS one
		LEFT JOIN device_sync s ON s.id = 1
	`

	var (
		summary    attendance.Summary
		lastUpdate *time.Time
	)
	err := q.QueryRow(ctx, query).Scan(
		&summary.TotalUsers, &summary.TotalDays, &summary.TotalRecords, &summary.TotalLogs,
		&lastUpdate, &summary.IsConnected, &summary.IsRealData,
	)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("%w: failed to read summary: %v", attendance.ErrNetworkFailure, err)
	}
	if lastUpdate != nil {
		summary.LastUpdate = *lastUpdate
	}

	return summary, nil
}

// Employees implements attendance.AttendanceRepository.
func (m *attendanceMirror) Employees(ctx context.Context) ([]attendance.Employee, error) {
	q := GetQuerier(ctx, m.db)

	rows, err := q.Query(ctx, `SELECT uid, name, card_no, user_id, matricule FROM employees ORDER BY name, uid`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list employees: %v", attendance.ErrNetworkFailure, err)
	}
	defer rows.Close()

	employees := []attendance.Employee{}
	for rows.Next() {
		var (
			e           attendance.Employee
			uid, userID string
		)
		if err := rows.Scan(&uid, &e.Name, &e.CardNo, &userID, &e.Matricule); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.UID = attendance.ID(uid)
		e.UserID = attendance.ID(userID)
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list employees: %v", attendance.ErrNetworkFailure, err)
	}

	return employees, nil
}

// Records implements attendance.AttendanceRepository.
func (m *attendanceMirror) Records(ctx context.Context, scope attendance.Scope) (attendance.RecordsResult, error) {
	var (
		where string
		args  []interface{}
	)
	switch scope.Mode {
	case attendance.ModeAll, "":
	case attendance.ModeByDate:
		if scope.Date == "" {
			return attendance.RecordsResult{}, fmt.Errorf("%w: by-date scope without a date", attendance.ErrInvalidScope)
		}
		where, args = "WHERE r.date = $1::date", []interface{}{scope.Date}
	case attendance.ModeByEmployee:
		if scope.EmployeeUID == "" {
			return attendance.RecordsResult{}, attendance.ErrEmployeeRequired
		}
		where, args = "WHERE r.employee_uid = $1", []interface{}{scope.EmployeeUID.String()}
	case attendance.ModeToday:
		where, args = "WHERE r.date = $1::date", []interface{}{m.today()}
	default:
		return attendance.RecordsResult{}, fmt.Errorf("%w: mode %q", attendance.ErrInvalidScope, scope.Mode)
	}

	// Records and the employee count come from the same snapshot.
	var result attendance.RecordsResult
	err := WithReadOnlyTransaction(ctx, m.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)

		records, err := m.queryRecords(txCtx, where+" ORDER BY r.date DESC, r.id", args...)
		if err != nil {
			return err
		}

		result = attendance.RecordsResult{Records: records}
		switch scope.Mode {
		case attendance.ModeByEmployee:
			stats := employeeStats(records)
			result.Stats = &stats
		case attendance.ModeByDate, attendance.ModeToday:
			total, err := m.countEmployees(txCtx)
			if err != nil {
				return err
			}
			stats := dayStats(records, total)
			result.Stats = &stats
		}
		return nil
	})
	if err != nil {
		return attendance.RecordsResult{}, err
	}

	return result, nil
}

// RecordDetail implements attendance.AttendanceRepository.
func (m *attendanceMirror) RecordDetail(ctx context.Context, uid attendance.ID, date string) (attendance.Detail, error) {
	if uid == "" {
		return attendance.Detail{}, attendance.ErrEmployeeRequired
	}

	records, err := m.queryRecords(ctx, "WHERE r.employee_uid = $1 AND r.date = $2::date ORDER BY r.id LIMIT 1", uid.String(), date)
	if err != nil {
		return attendance.Detail{}, err
	}
	if len(records) == 0 {
		return attendance.Detail{}, fmt.Errorf("%w: %s on %s", attendance.ErrRecordNotFound, uid, date)
	}

	detail := attendance.Detail{Record: records[0]}
	employee, err := m.employee(ctx, uid)
	switch {
	case err == nil:
		detail.Employee = employee
	case errors.Is(err, pgx.ErrNoRows):
		detail.Employee = attendance.Employee{UID: uid, Name: records[0].Name}
	default:
		return attendance.Detail{}, fmt.Errorf("%w: failed to get employee: %v", attendance.ErrNetworkFailure, err)
	}

	return detail, nil
}

// Refresh implements attendance.AttendanceRepository. The mirror is kept
// current by the sync process, so a refresh only re-reads the summary.
func (m *attendanceMirror) Refresh(ctx context.Context) (attendance.Summary, error) {
	return m.Summary(ctx)
}

func (m *attendanceMirror) today() string {
	return attendance.Today(m.now(), m.loc)
}

func (m *attendanceMirror) queryRecords(ctx context.Context, clause string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, m.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records r
		LEFT JOIN employees e ON e.uid = r.employee_uid
		` + clause

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query records: %v", attendance.ErrNetworkFailure, err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to query records: %v", attendance.ErrNetworkFailure, err)
	}

	return records, nil
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var (
		r                         attendance.Record
		uid, userID, deviceUserID string
		status, hours             string
		entries                   []byte
	)
	err := row.Scan(
		&uid, &r.Name, &r.CardNo, &userID,
		&r.Date, &r.DayName, &r.ArrivalTime, &r.DepartureTime,
		&hours, &status, &deviceUserID,
		&entries,
	)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to scan record: %w", err)
	}

	r.UID = attendance.ID(uid)
	r.UserID = attendance.ID(userID)
	r.DeviceUserID = attendance.ID(deviceUserID)
	r.Status = attendance.Status(status)

	if r.HoursWorked, err = attendance.NewHours(hours); err != nil {
		return attendance.Record{}, fmt.Errorf("%w: %v", attendance.ErrServerLogicFailure, err)
	}
	if err := json.Unmarshal(entries, &r.Entries); err != nil {
		return attendance.Record{}, fmt.Errorf("%w: decode entries: %v", attendance.ErrServerLogicFailure, err)
	}

	return r, nil
}

func (m *attendanceMirror) employee(ctx context.Context, uid attendance.ID) (attendance.Employee, error) {
	q := GetQuerier(ctx, m.db)

	var (
		e      attendance.Employee
		userID string
	)
	err := q.QueryRow(ctx, `SELECT name, card_no, user_id, matricule FROM employees WHERE uid = $1`, uid.String()).
		Scan(&e.Name, &e.CardNo, &userID, &e.Matricule)
	if err != nil {
		return attendance.Employee{}, err
	}
	e.UID = uid
	e.UserID = attendance.ID(userID)

	return e, nil
}

func (m *attendanceMirror) countEmployees(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, m.db)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: failed to count employees: %v", attendance.ErrNetworkFailure, err)
	}
	return total, nil
}
