package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/sse"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

const autoRefreshConcurrency = 4

type Config struct {
	Location    *time.Location
	Lang        language.Tag
	PageSize    int
	IdleTimeout time.Duration
	Now         func() time.Time
}

// Registry keeps the open dashboard sessions and publishes their snapshots
// on the SSE hub.
type Registry struct {
	repo attendance.AttendanceRepository
	hub  *sse.Hub
	cfg  Config

	mu       sync.RWMutex
	sessions map[string]*Controller
}

var _ dashboard.DashboardService = (*Registry)(nil)

func NewDashboardService(repo attendance.AttendanceRepository, hub *sse.Hub, cfg Config) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{
		repo:     repo,
		hub:      hub,
		cfg:      cfg,
		sessions: make(map[string]*Controller),
	}
}

// Create implements dashboard.DashboardService.
func (r *Registry) Create(ctx context.Context) (dashboard.Snapshot, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return dashboard.Snapshot{}, fmt.Errorf("failed to generate session id: %w", err)
	}

	c := NewController(id.String(), r.repo, ControllerConfig{
		Location: r.cfg.Location,
		Lang:     r.cfg.Lang,
		PageSize: r.cfg.PageSize,
		Now:      r.cfg.Now,
		OnChange: r.publish,
	})

	r.mu.Lock()
	r.sessions[c.ID()] = c
	r.mu.Unlock()

	slog.Info("Dashboard session created", "session_id", c.ID())
	return c.Load(ctx), nil
}

// Get implements dashboard.DashboardService.
func (r *Registry) Get(ctx context.Context, sessionID string) (dashboard.Snapshot, error) {
	c, err := r.controller(sessionID)
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	c.Touch()
	return c.Snapshot(), nil
}

// Delete implements dashboard.DashboardService.
func (r *Registry) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	_, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	if !ok {
		return dashboard.ErrSessionNotFound
	}

	r.hub.Publish(sessionID, sse.Event{SessionID: sessionID, Event: sse.EventClosed})
	slog.Info("Dashboard session deleted", "session_id", sessionID)
	return nil
}

// Dispatch implements dashboard.DashboardService.
func (r *Registry) Dispatch(ctx context.Context, sessionID string, event view.Event) (dashboard.Snapshot, error) {
	c, err := r.controller(sessionID)
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	return c.Dispatch(ctx, event)
}

// Refresh implements dashboard.DashboardService.
func (r *Registry) Refresh(ctx context.Context, sessionID string) (dashboard.Snapshot, error) {
	c, err := r.controller(sessionID)
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	return c.Refresh(ctx), nil
}

// SetVisibility implements dashboard.DashboardService.
func (r *Registry) SetVisibility(ctx context.Context, sessionID string, req dashboard.VisibilityRequest) (dashboard.Snapshot, error) {
	if err := req.Validate(); err != nil {
		return dashboard.Snapshot{}, err
	}

	c, err := r.controller(sessionID)
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	return c.SetVisible(*req.Visible), nil
}

// RecordDetail implements dashboard.DashboardService.
func (r *Registry) RecordDetail(ctx context.Context, sessionID string, req dashboard.RecordDetailRequest) (attendance.Detail, error) {
	if err := req.Validate(); err != nil {
		return attendance.Detail{}, err
	}

	c, err := r.controller(sessionID)
	if err != nil {
		return attendance.Detail{}, err
	}
	return c.Detail(ctx, req.UID, req.Date)
}

// Export implements dashboard.DashboardService.
func (r *Registry) Export(ctx context.Context, sessionID string) (dashboard.ExportData, error) {
	c, err := r.controller(sessionID)
	if err != nil {
		return dashboard.ExportData{}, err
	}

	data := c.Export()
	if len(data.Rows) == 0 {
		return dashboard.ExportData{}, dashboard.ErrNothingToExport
	}
	return data, nil
}

// AutoRefresh runs the timed refresh of every visible session.
func (r *Registry) AutoRefresh(ctx context.Context) error {
	var refreshed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(autoRefreshConcurrency)
	for _, c := range r.controllers() {
		g.Go(func() error {
			if c.AutoRefresh(gCtx) {
				refreshed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Debug("Dashboard sessions refreshed", "count", refreshed.Load())
	return nil
}

// ExpireIdle closes sessions unused for longer than the idle timeout.
// Sessions with an open stream are kept.
func (r *Registry) ExpireIdle(ctx context.Context) error {
	if r.cfg.IdleTimeout <= 0 {
		return nil
	}

	deadline := r.cfg.Now().Add(-r.cfg.IdleTimeout)
	expired := 0
	for _, c := range r.controllers() {
		if c.LastAccess().After(deadline) || r.hub.SubscriberCount(c.ID()) > 0 {
			continue
		}
		if err := r.Delete(ctx, c.ID()); err == nil {
			expired++
		}
	}

	if expired > 0 {
		slog.Info("Expired idle dashboard sessions", "count", expired)
	}
	return nil
}

// Count returns the number of open sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) controller(sessionID string) (*Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.sessions[sessionID]
	if !ok {
		return nil, dashboard.ErrSessionNotFound
	}
	return c, nil
}

func (r *Registry) controllers() []*Controller {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Controller, 0, len(r.sessions))
	for _, c := range r.sessions {
		list = append(list, c)
	}
	return list
}

func (r *Registry) publish(snap dashboard.Snapshot) {
	r.hub.Publish(snap.SessionID, sse.Event{
		SessionID: snap.SessionID,
		Event:     sse.EventSnapshot,
		Data:      snap,
	})
	if snap.Error != nil {
		r.hub.Publish(snap.SessionID, sse.Event{
			SessionID: snap.SessionID,
			Event:     sse.EventError,
			Data:      snap.Error,
		})
	}
}
