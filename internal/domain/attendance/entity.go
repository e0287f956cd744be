package attendance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ID is an opaque identifier. The device backend sends numeric uids for some
// firmwares and strings for others, so both JSON forms are accepted.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Hours is a non-negative decimal count of worked hours.
// Empty, null and "-" values are zero.
type Hours struct {
	decimal.Decimal
}

// NewHours parses value and fails on anything that is not a number.
func NewHours(value string) (Hours, error) {
	d, err := parseHours(value)
	if err != nil {
		return Hours{}, err
	}
	return Hours{Decimal: d}, nil
}

// UnmarshalJSON never fails: the backend sends placeholders such as
// "En cours..." for open days, which count as zero hours.
func (h *Hours) UnmarshalJSON(b []byte) error {
	d, err := parseHours(string(b))
	if err != nil {
		slog.Debug("Ignoring unparsable hours value", "value", string(b))
		d = decimal.Zero
	}
	h.Decimal = d
	return nil
}

func parseHours(value string) (decimal.Decimal, error) {
	s := strings.Trim(strings.TrimSpace(value), `"`)
	if s == "" || s == "null" || s == "-" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid hours %q: %w", s, err)
	}
	return d, nil
}

// EntryType is the kind of punch recorded by the device.
type EntryType int

const (
	EntryArrival   EntryType = 0
	EntryDeparture EntryType = 1
)

func (t EntryType) String() string {
	if t == EntryArrival {
		return "Arrivée"
	}
	return "Départ"
}

// Entry is a single punch event.
type Entry struct {
	Type      EntryType `json:"type"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is one employee's attendance for one calendar day.
// (UID, Date) is the natural key; records are never merged on it.
type Record struct {
	UID           ID      `json:"uid"`
	Name          string  `json:"name,omitempty"`
	CardNo        string  `json:"cardNo,omitempty"`
	UserID        ID      `json:"userId,omitempty"`
	Date          string  `json:"date"`
	DayName       string  `json:"dayName,omitempty"`
	ArrivalTime   string  `json:"arrivalTime,omitempty"`
	DepartureTime string  `json:"departureTime,omitempty"`
	HoursWorked   Hours   `json:"hoursWorked"`
	Entries       []Entry `json:"entries"`
	Status        Status  `json:"status,omitempty"`
	DeviceUserID  ID      `json:"pointeuseUserId,omitempty"`
}

func (r Record) HasArrival() bool {
	return strings.TrimSpace(r.ArrivalTime) != ""
}

func (r Record) HasDeparture() bool {
	return strings.TrimSpace(r.DepartureTime) != ""
}

// Employee is read-only reference data owned by the device backend.
type Employee struct {
	UID       ID     `json:"uid"`
	Name      string `json:"name"`
	CardNo    string `json:"cardNo,omitempty"`
	UserID    ID     `json:"userId,omitempty"`
	Matricule string `json:"matricule,omitempty"`
}

// UnmarshalJSON accepts the lower-case "userid" key used by the users endpoint.
func (e *Employee) UnmarshalJSON(b []byte) error {
	type plain Employee
	var wire struct {
		plain
		LegacyUserID ID `json:"userid"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*e = Employee(wire.plain)
	if e.UserID == "" {
		e.UserID = wire.LegacyUserID
	}
	return nil
}

// Summary is the device backend's global counters.
type Summary struct {
	TotalUsers   int       `json:"totalUsers"`
	TotalDays    int       `json:"totalDays"`
	TotalLogs    int       `json:"totalLogs"`
	TotalRecords int       `json:"totalRecords"`
	LastUpdate   time.Time `json:"lastUpdate"`
	IsConnected  bool      `json:"isConnected"`
	IsRealData   *bool     `json:"isRealData,omitempty"`
}

// UsesSampleData reports whether the backend flagged its data as fictive.
func (s Summary) UsesSampleData() bool {
	return s.IsRealData != nil && !*s.IsRealData
}

// ScopeStats are the per-scope counters returned next to a record set.
// Per-day scopes fill the daily counters, per-employee scopes the others.
type ScopeStats struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Late       int `json:"late"`
	Absent     int `json:"absent"`
	InProgress int `json:"inProgress"`

	TotalDays    int   `json:"totalDays"`
	PresentDays  int   `json:"presentDays"`
	LateDays     int   `json:"lateDays"`
	TotalHours   Hours `json:"totalHours"`
	AverageHours Hours `json:"averageHours"`
}

// RecordsResult is a scoped record set as returned by the repository.
type RecordsResult struct {
	Records []Record
	Stats   *ScopeStats
}

// Detail is a single record with its employee.
type Detail struct {
	Record   Record   `json:"record"`
	Employee Employee `json:"employee"`
}
