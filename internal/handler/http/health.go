package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/handler/http/response"
)

type HealthResponse struct {
	Status        string `json:"status"`
	BackendOnline bool   `json:"backend_online"`
	Sessions      int    `json:"sessions"`
}

// SessionCounter reports the number of open dashboard sessions.
type SessionCounter interface {
	Count() int
}

type HealthHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	repo     attendance.AttendanceRepository
	sessions SessionCounter
}

func NewHealthHandler(repo attendance.AttendanceRepository, sessions SessionCounter) HealthHandler {
	return &healthHandlerImpl{repo: repo, sessions: sessions}
}

// Health handles GET /health. The service stays up when the backend is down.
func (h *healthHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	online, _ := h.repo.Health(ctx)
	status := "ok"
	if !online {
		status = "degraded"
	}

	response.Success(w, HealthResponse{
		Status:        status,
		BackendOnline: online,
		Sessions:      h.sessions.Count(),
	})
}
