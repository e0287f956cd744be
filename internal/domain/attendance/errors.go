package attendance

import "errors"

// Attendance domain errors
var (
	// Collaborator errors
	ErrNetworkFailure     = errors.New("attendance backend unreachable")
	ErrServerLogicFailure = errors.New("attendance backend reported a failure")
	ErrRecordNotFound     = errors.New("attendance record not found")

	// Classification errors
	ErrMalformedTime = errors.New("malformed time")

	// Scope errors
	ErrEmployeeRequired    = errors.New("employee uid is required")
	ErrInvalidScope        = errors.New("invalid attendance scope")
	ErrNoEmployeeAvailable = errors.New("no employee available for the by-employee view")
)
