package dashboard

import "errors"

var (
	ErrSessionNotFound  = errors.New("dashboard session not found")
	ErrInvalidSessionID = errors.New("invalid dashboard session id")
	ErrNothingToExport  = errors.New("no attendance rows to export")
)
