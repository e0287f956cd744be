package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRegistry(repo *stubRepository, clock *fakeClock) (*Registry, *sse.Hub) {
	hub := sse.NewHub()
	return NewDashboardService(repo, hub, Config{
		Location:    time.UTC,
		Lang:        language.French,
		PageSize:    20,
		IdleTimeout: 30 * time.Minute,
		Now:         clock.Now,
	}), hub
}

func TestRegistry_Lifecycle(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(&stubRepository{}, &fakeClock{now: testNow})

	created, err := registry.Create(ctx)
	require.NoError(t, err)
	assert.True(t, validator.IsValidUUID(created.SessionID))
	assert.Len(t, created.Page.Rows, 3)
	assert.Equal(t, 1, registry.Count())

	got, err := registry.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, created.State, got.State)

	snap, err := registry.Dispatch(ctx, created.SessionID, view.Event{Action: view.ActionSetSort, SortKey: view.SortStatus})
	require.NoError(t, err)
	assert.Equal(t, view.SortStatus, snap.State.SortKey)

	require.NoError(t, registry.Delete(ctx, created.SessionID))
	_, err = registry.Get(ctx, created.SessionID)
	assert.ErrorIs(t, err, dashboard.ErrSessionNotFound)
	assert.ErrorIs(t, registry.Delete(ctx, created.SessionID), dashboard.ErrSessionNotFound)
}

func TestRegistry_UnknownSession(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(&stubRepository{}, &fakeClock{now: testNow})

	_, err := registry.Dispatch(ctx, "missing", view.Event{Action: view.ActionFirstPage})
	assert.ErrorIs(t, err, dashboard.ErrSessionNotFound)

	_, err = registry.Refresh(ctx, "missing")
	assert.ErrorIs(t, err, dashboard.ErrSessionNotFound)

	_, err = registry.Export(ctx, "missing")
	assert.ErrorIs(t, err, dashboard.ErrSessionNotFound)
}

func TestRegistry_ExportEmptyView(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(&stubRepository{}, &fakeClock{now: testNow})
	created, err := registry.Create(ctx)
	require.NoError(t, err)

	data, err := registry.Export(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Len(t, data.Rows, 3)

	_, err = registry.Dispatch(ctx, created.SessionID, view.Event{Action: view.ActionSetSearch, SearchText: "nobody"})
	require.NoError(t, err)

	_, err = registry.Export(ctx, created.SessionID)
	assert.ErrorIs(t, err, dashboard.ErrNothingToExport)
}

func TestRegistry_RequestValidation(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(&stubRepository{}, &fakeClock{now: testNow})
	created, err := registry.Create(ctx)
	require.NoError(t, err)

	_, err = registry.SetVisibility(ctx, created.SessionID, dashboard.VisibilityRequest{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	hidden := false
	snap, err := registry.SetVisibility(ctx, created.SessionID, dashboard.VisibilityRequest{Visible: &hidden})
	require.NoError(t, err)
	assert.False(t, snap.Visible)

	_, err = registry.RecordDetail(ctx, created.SessionID, dashboard.RecordDetailRequest{UID: "1", Date: "yesterday"})
	assert.ErrorAs(t, err, &verrs)

	_, err = registry.RecordDetail(ctx, created.SessionID, dashboard.RecordDetailRequest{UID: "1", Date: testToday})
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestRegistry_PublishesSnapshots(t *testing.T) {
	ctx := context.Background()
	registry, hub := newTestRegistry(&stubRepository{}, &fakeClock{now: testNow})
	created, err := registry.Create(ctx)
	require.NoError(t, err)

	events, cleanup := hub.Subscribe(created.SessionID)
	defer cleanup()

	_, err = registry.Dispatch(ctx, created.SessionID, view.Event{Action: view.ActionSetSearch, SearchText: "employee"})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventSnapshot, ev.Event)
		snap, ok := ev.Data.(dashboard.Snapshot)
		require.True(t, ok)
		assert.Equal(t, "employee", snap.State.SearchText)
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	require.NoError(t, registry.Delete(ctx, created.SessionID))
	select {
	case ev := <-events:
		assert.Equal(t, sse.EventClosed, ev.Event)
	case <-time.After(time.Second):
		t.Fatal("no close event published")
	}
}

func TestRegistry_ExpireIdle(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: testNow}
	registry, hub := newTestRegistry(&stubRepository{}, clock)

	idle, err := registry.Create(ctx)
	require.NoError(t, err)
	streaming, err := registry.Create(ctx)
	require.NoError(t, err)
	_, cleanup := hub.Subscribe(streaming.SessionID)
	defer cleanup()

	clock.Advance(10 * time.Minute)
	active, err := registry.Create(ctx)
	require.NoError(t, err)

	clock.Advance(25 * time.Minute)
	require.NoError(t, registry.ExpireIdle(ctx))

	_, err = registry.Get(ctx, idle.SessionID)
	assert.ErrorIs(t, err, dashboard.ErrSessionNotFound)
	_, err = registry.Get(ctx, streaming.SessionID)
	assert.NoError(t, err)
	_, err = registry.Get(ctx, active.SessionID)
	assert.NoError(t, err)
}

func TestRegistry_AutoRefresh(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepository{}
	registry, _ := newTestRegistry(repo, &fakeClock{now: testNow})

	visible, err := registry.Create(ctx)
	require.NoError(t, err)
	hidden, err := registry.Create(ctx)
	require.NoError(t, err)
	off := false
	_, err = registry.SetVisibility(ctx, hidden.SessionID, dashboard.VisibilityRequest{Visible: &off})
	require.NoError(t, err)

	require.NoError(t, registry.AutoRefresh(ctx))

	assert.Equal(t, int32(1), repo.refreshCalls.Load())
	snap, err := registry.Get(ctx, visible.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 99, snap.Header.Summary.TotalLogs)
}
