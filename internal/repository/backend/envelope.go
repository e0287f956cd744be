package backend

import (
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

// envelope is the response body shared by every backend endpoint.
type envelope struct {
	Success  bool                  `json:"success"`
	Message  string                `json:"message"`
	Error    string                `json:"error"`
	Data     json.RawMessage       `json:"data"`
	Stats    *wireStats            `json:"stats"`
	Summary  *wireSummary          `json:"summary"`
	Users    []attendance.Employee `json:"users"`
	Employee *attendance.Employee  `json:"employee"`

	// Counters of the by-date endpoint, sent instead of stats by older backends
	Present *int `json:"present"`
	Late    *int `json:"late"`
	Absent  *int `json:"absent"`
}

func (e envelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return "success=false"
}

func (e envelope) scopeStats() *attendance.ScopeStats {
	if e.Stats != nil {
		stats := e.Stats.toDomain()
		return &stats
	}
	if e.Present == nil && e.Late == nil && e.Absent == nil {
		return nil
	}
	return &attendance.ScopeStats{
		Present: deref(e.Present),
		Late:    deref(e.Late),
		Absent:  deref(e.Absent),
	}
}

type wireSummary struct {
	TotalUsers   int    `json:"totalUsers"`
	TotalDays    int    `json:"totalDays"`
	TotalLogs    int    `json:"totalLogs"`
	TotalRecords int    `json:"totalRecords"`
	LastUpdate   string `json:"lastUpdate"`
	IsConnected  bool   `json:"isConnected"`
	IsRealData   *bool  `json:"isRealData"`
}

func (s wireSummary) toDomain() attendance.Summary {
	summary := attendance.Summary{
		TotalUsers:   s.TotalUsers,
		TotalDays:    s.TotalDays,
		TotalLogs:    s.TotalLogs,
		TotalRecords: s.TotalRecords,
		IsConnected:  s.IsConnected,
		IsRealData:   s.IsRealData,
	}
	if t, err := time.Parse(time.RFC3339Nano, s.LastUpdate); err == nil {
		summary.LastUpdate = t
	}
	return summary
}

// wireStats accepts both the short and the "...Today" counter names.
type wireStats struct {
	Total           *int `json:"total"`
	TotalEmployees  *int `json:"totalEmployees"`
	Present         *int `json:"present"`
	PresentToday    *int `json:"presentToday"`
	Late            *int `json:"late"`
	LateToday       *int `json:"lateToday"`
	Absent          *int `json:"absent"`
	AbsentToday     *int `json:"absentToday"`
	InProgress      *int `json:"inProgress"`
	InProgressToday *int `json:"inProgressToday"`

	TotalDays    int              `json:"totalDays"`
	PresentDays  int              `json:"presentDays"`
	LateDays     int              `json:"lateDays"`
	TotalHours   attendance.Hours `json:"totalHours"`
	AverageHours attendance.Hours `json:"averageHours"`
}

func (s wireStats) toDomain() attendance.ScopeStats {
	return attendance.ScopeStats{
		Total:        firstNonZero(s.Total, s.TotalEmployees),
		Present:      firstNonZero(s.Present, s.PresentToday),
		Late:         firstNonZero(s.Late, s.LateToday),
		Absent:       firstNonZero(s.Absent, s.AbsentToday),
		InProgress:   firstNonZero(s.InProgress, s.InProgressToday),
		TotalDays:    s.TotalDays,
		PresentDays:  s.PresentDays,
		LateDays:     s.LateDays,
		TotalHours:   s.TotalHours,
		AverageHours: s.AverageHours,
	}
}

func firstNonZero(values ...*int) int {
	for _, v := range values {
		if v != nil && *v != 0 {
			return *v
		}
	}
	return 0
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
