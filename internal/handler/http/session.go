package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

const keepaliveInterval = 30 * time.Second

// SessionHandler serves the dashboard sessions.
type SessionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Dispatch(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	SetVisibility(w http.ResponseWriter, r *http.Request)
	RecordDetail(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	// SSE
	Stream(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	dashboardService dashboard.DashboardService
	hub              *sse.Hub
}

func NewSessionHandler(dashboardService dashboard.DashboardService, hub *sse.Hub) SessionHandler {
	return &sessionHandlerImpl{
		dashboardService: dashboardService,
		hub:              hub,
	}
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, middleware.SessionIDParam)
}

// writeSnapshot sends a snapshot with its pagination as meta.
func writeSnapshot(w http.ResponseWriter, snap dashboard.Snapshot) {
	p := snap.Page.Pagination
	response.SuccessWithMeta(w, snap, &response.Meta{
		Page:       p.Page,
		Limit:      p.PageSize,
		TotalItems: int64(p.TotalItems),
		TotalPages: p.TotalPages,
		Showing:    p.Showing,
	})
}

// Create handles POST /sessions
func (h *sessionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboardService.Create(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+snap.SessionID)
	response.Created(w, "Session created", snap)
}

// Get handles GET /sessions/{id}
func (h *sessionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboardService.Get(r.Context(), sessionID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeSnapshot(w, snap)
}

// Delete handles DELETE /sessions/{id}
func (h *sessionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboardService.Delete(r.Context(), sessionID(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// Dispatch handles POST /sessions/{id}/events
func (h *sessionHandlerImpl) Dispatch(w http.ResponseWriter, r *http.Request) {
	var event view.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	snap, err := h.dashboardService.Dispatch(r.Context(), sessionID(r), event)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeSnapshot(w, snap)
}

// Refresh handles POST /sessions/{id}/refresh
func (h *sessionHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboardService.Refresh(r.Context(), sessionID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeSnapshot(w, snap)
}

// SetVisibility handles PUT /sessions/{id}/visibility
func (h *sessionHandlerImpl) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req dashboard.VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	snap, err := h.dashboardService.SetVisibility(r.Context(), sessionID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeSnapshot(w, snap)
}

// RecordDetail handles GET /sessions/{id}/records/{uid}/{date}
func (h *sessionHandlerImpl) RecordDetail(w http.ResponseWriter, r *http.Request) {
	req := dashboard.RecordDetailRequest{
		UID:  attendance.ID(chi.URLParam(r, "uid")),
		Date: chi.URLParam(r, "date"),
	}

	detail, err := h.dashboardService.RecordDetail(r.Context(), sessionID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, detail)
}

// Export handles GET /sessions/{id}/export?format=csv|xlsx|html
func (h *sessionHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.dashboardService.Export(r.Context(), sessionID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Render fully before writing so a failure still gets a JSON error
	var buf bytes.Buffer
	if err := export.Write(&buf, format, data); err != nil {
		slog.Error("export failed", "session_id", sessionID(r), "format", format, "error", err)
		response.InternalServerError(w, "Failed to export records")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(data, format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Export-Rows", strconv.Itoa(len(data.Rows)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Stream handles the SSE connection of a session
func (h *sessionHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	// Subscribe before reading the snapshot so no update is lost in between
	events, cleanup := h.hub.Subscribe(id)
	defer cleanup()

	snap, err := h.dashboardService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	writeEvent(w, sse.EventSnapshot, snap)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()
			if event.Event == sse.EventClosed {
				return
			}

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode sse event", "event", name, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
