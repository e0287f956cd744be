package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Session errors
	case errors.Is(err, dashboard.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, dashboard.ErrInvalidSessionID):
		BadRequest(w, "Invalid session id", nil)
	case errors.Is(err, dashboard.ErrNothingToExport):
		UnprocessableEntity(w, "NOTHING_TO_EXPORT", "Aucune donnée à exporter")

	// View errors
	case errors.Is(err, view.ErrUnknownAction):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, export.ErrUnsupportedExportFormat):
		BadRequest(w, err.Error(), map[string]string{"format": "format must be csv, xlsx or html"})

	// Attendance backend errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNetworkFailure):
		BadGateway(w, "BACKEND_UNREACHABLE", "Attendance backend is unreachable")
	case errors.Is(err, attendance.ErrServerLogicFailure):
		BadGateway(w, "BACKEND_ERROR", "Attendance backend reported an error")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
