package view

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/validator"
)

// Action is the kind of a user interaction.
type Action string

const (
	ActionSetMode     Action = "set-mode"
	ActionCycleMode   Action = "cycle-mode"
	ActionSetDate     Action = "set-date"
	ActionSetEmployee Action = "set-employee"
	ActionSetSearch   Action = "set-search"
	ActionSetSort     Action = "set-sort"
	ActionGoToPage    Action = "go-to-page"
	ActionFirstPage   Action = "first-page"
	ActionPrevPage    Action = "prev-page"
	ActionNextPage    Action = "next-page"
	ActionLastPage    Action = "last-page"
	ActionSetPageSize Action = "set-page-size"
)

var actions = []string{
	string(ActionSetMode),
	string(ActionCycleMode),
	string(ActionSetDate),
	string(ActionSetEmployee),
	string(ActionSetSearch),
	string(ActionSetSort),
	string(ActionGoToPage),
	string(ActionFirstPage),
	string(ActionPrevPage),
	string(ActionNextPage),
	string(ActionLastPage),
	string(ActionSetPageSize),
}

const maxSearchLength = 200

// Event is a user interaction. Only the field matching Action is read.
type Event struct {
	Action      Action          `json:"action"`
	Mode        attendance.Mode `json:"mode,omitempty"`
	Date        string          `json:"date,omitempty"`
	EmployeeUID attendance.ID   `json:"employee_uid,omitempty"`
	SearchText  string          `json:"search_text,omitempty"`
	SortKey     SortKey         `json:"sort_key,omitempty"`
	Page        int             `json:"page,omitempty"`
	PageSize    int             `json:"page_size,omitempty"`
}

func (e *Event) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(string(e.Action)) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is required",
		})
		return errs
	}
	if !validator.IsInSlice(string(e.Action), actions) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: fmt.Sprintf("action %q is not supported", e.Action),
		})
		return errs
	}

	switch e.Action {
	case ActionSetMode:
		if !e.Mode.Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "mode",
				Message: "mode must be one of all, by-date, by-employee, today",
			})
		}
	case ActionSetDate:
		if e.Date != "" {
			if _, ok := validator.IsValidDate(e.Date); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   "date",
					Message: "date must be in YYYY-MM-DD format",
				})
			}
		}
	case ActionSetSearch:
		if len(e.SearchText) > maxSearchLength {
			errs = append(errs, validator.ValidationError{
				Field:   "search_text",
				Message: fmt.Sprintf("search_text must not exceed %d characters", maxSearchLength),
			})
		}
	case ActionSetSort:
		if !e.SortKey.Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_key",
				Message: fmt.Sprintf("sort_key %q is not supported", e.SortKey),
			})
		}
	case ActionSetPageSize:
		if e.PageSize < 1 || e.PageSize > MaxPageSize {
			errs = append(errs, validator.ValidationError{
				Field:   "page_size",
				Message: fmt.Sprintf("page_size must be between 1 and %d", MaxPageSize),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
