package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// SessionIDParam is the route parameter holding a session id.
const SessionIDParam = "id"

// RequireSessionID rejects requests whose session id is not a UUIDv7.
func RequireSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validator.IsValidUUID(chi.URLParam(r, SessionIDParam)) {
			response.HandleError(w, dashboard.ErrInvalidSessionID)
			return
		}

		next.ServeHTTP(w, r)
	})
}
