package view

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

// Env is what the reducer needs to know about the world outside the state.
type Env struct {
	// Today is the current calendar day, YYYY-MM-DD.
	Today string
	// DefaultEmployeeUID is used when the by-employee view has no employee.
	// Empty when no employee is known.
	DefaultEmployeeUID attendance.ID
	// TotalPages of the projection the user is looking at.
	TotalPages int
}

// Transition is the outcome of an event: the next state, and whether that
// state selects a different server-side record set.
type Transition struct {
	Next    State
	Refetch bool
}

// Reduce applies an event to a state. It is pure: on error the returned
// transition carries the unchanged state.
func Reduce(s State, e Event, env Env) (Transition, error) {
	if err := e.Validate(); err != nil {
		return Transition{Next: s}, err
	}

	next := s
	switch e.Action {
	case ActionSetMode:
		return enterMode(s, e.Mode, env)

	case ActionCycleMode:
		return enterMode(s, s.Mode.Next(), env)

	case ActionSetDate:
		next.Date = e.Date
		next.Page = 1
		if next.Mode == attendance.ModeByDate && next.Date == "" {
			next.Date = env.Today
		}
		refetch := next.Mode == attendance.ModeByDate || next.Mode == attendance.ModeAll
		return Transition{Next: next, Refetch: refetch}, nil

	case ActionSetEmployee:
		next.EmployeeUID = e.EmployeeUID
		next.Page = 1
		if next.Mode != attendance.ModeByEmployee {
			return Transition{Next: next}, nil
		}
		if next.EmployeeUID == "" {
			if env.DefaultEmployeeUID == "" {
				return Transition{Next: s}, attendance.ErrNoEmployeeAvailable
			}
			next.EmployeeUID = env.DefaultEmployeeUID
		}
		return Transition{Next: next, Refetch: true}, nil

	case ActionSetSearch:
		next.SearchText = e.SearchText
		next.Page = 1

	case ActionSetSort:
		next.SortKey = e.SortKey

	case ActionGoToPage:
		// Out of range requests are ignored.
		if e.Page >= 1 && e.Page <= env.TotalPages {
			next.Page = e.Page
		}

	case ActionFirstPage:
		next.Page = 1

	case ActionPrevPage:
		if next.Page > 1 {
			next.Page--
		}

	case ActionNextPage:
		if next.Page < env.TotalPages {
			next.Page++
		}

	case ActionLastPage:
		if env.TotalPages > 0 {
			next.Page = env.TotalPages
		}

	case ActionSetPageSize:
		next.PageSize = e.PageSize
		next.Page = 1

	default:
		return Transition{Next: s}, fmt.Errorf("%w: %s", ErrUnknownAction, e.Action)
	}

	return Transition{Next: next}, nil
}

func enterMode(s State, mode attendance.Mode, env Env) (Transition, error) {
	next := s
	next.Mode = mode
	next.Page = 1

	switch mode {
	case attendance.ModeToday:
		next.Date = env.Today
	case attendance.ModeByDate:
		if next.Date == "" {
			next.Date = env.Today
		}
	case attendance.ModeByEmployee:
		if next.EmployeeUID == "" {
			if env.DefaultEmployeeUID == "" {
				return Transition{Next: s}, attendance.ErrNoEmployeeAvailable
			}
			next.EmployeeUID = env.DefaultEmployeeUID
		}
	}

	return Transition{Next: next, Refetch: true}, nil
}
