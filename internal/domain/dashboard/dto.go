package dashboard

import (
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/validator"
)

// ========== ERROR BANNER ==========

// ErrorKind classifies the banner shown after a failed operation.
type ErrorKind string

const (
	ErrorKindNetwork    ErrorKind = "network"
	ErrorKindServer     ErrorKind = "server"
	ErrorKindNoEmployee ErrorKind = "no_employee"
	ErrorKindNotFound   ErrorKind = "not_found"
	ErrorKindUnknown    ErrorKind = "unknown"
)

// ErrorState is the banner of a session. It stays until the next successful fetch.
type ErrorState struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ========== SNAPSHOT ==========

// HeaderResponse is the summary header of the dashboard.
type HeaderResponse struct {
	Summary    attendance.Summary `json:"summary"`
	Online     bool               `json:"online"`
	SampleData bool               `json:"sample_data"`
}

// Snapshot is everything a client needs to draw a session.
type Snapshot struct {
	SessionID string                 `json:"session_id"`
	State     view.State             `json:"state"`
	Title     string                 `json:"title"`
	Page      view.FilteredPage      `json:"page"`
	Stats     *attendance.ScopeStats `json:"stats,omitempty"`
	Header    HeaderResponse         `json:"header"`
	Employees []view.Option          `json:"employees"`
	Error     *ErrorState            `json:"error,omitempty"`

	// Pending is the state being fetched, if any.
	Pending   *view.State `json:"pending,omitempty"`
	Loading   bool        `json:"loading"`
	Visible   bool        `json:"visible"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ========== EXPORT ==========

// ExportData is the full filtered and sorted record set of a session.
type ExportData struct {
	Today string     `json:"today"`
	Title string     `json:"title"`
	Rows  []view.Row `json:"rows"`
}

// ========== REQUESTS ==========

type VisibilityRequest struct {
	Visible *bool `json:"visible"`
}

func (r *VisibilityRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Visible == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "visible",
			Message: "visible is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordDetailRequest struct {
	UID  attendance.ID
	Date string
}

func (r *RecordDetailRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UID.String()) {
		errs = append(errs, validator.ValidationError{
			Field:   "uid",
			Message: "uid is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
