package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSessions struct {
	refreshed atomic.Int32
	expired   atomic.Int32
	err       error
}

func (c *countingSessions) AutoRefresh(ctx context.Context) error {
	c.refreshed.Add(1)
	return c.err
}

func (c *countingSessions) ExpireIdle(ctx context.Context) error {
	c.expired.Add(1)
	return nil
}

func TestScheduler_AddJobValidation(t *testing.T) {
	s := NewScheduler()
	noop := func(context.Context) error { return nil }

	assert.Error(t, s.AddJob(Job{Name: "zero", Fn: noop}))
	assert.Error(t, s.AddJob(Job{Name: "nil", Interval: time.Second}))
	require.NoError(t, s.AddJob(Job{Name: "ok", Interval: time.Second, Fn: noop}))

	s.Start()
	defer s.Stop()
	assert.Error(t, s.AddJob(Job{Name: "late", Interval: time.Second, Fn: noop}))
	assert.Equal(t, []string{"ok"}, s.Jobs())
}

func TestDashboardJobs_RegisterAndRunOnce(t *testing.T) {
	sessions := &countingSessions{}
	s := NewScheduler()
	require.NoError(t, NewDashboardJobs(sessions, 2*time.Minute, time.Minute).RegisterJobs(s))

	assert.Equal(t, []string{"auto_refresh_sessions", "expire_idle_sessions"}, s.Jobs())

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, int32(1), sessions.refreshed.Load())
	assert.Equal(t, int32(1), sessions.expired.Load())
}

func TestScheduler_RunOnceReportsFirstError(t *testing.T) {
	boom := errors.New("boom")
	sessions := &countingSessions{err: boom}
	s := NewScheduler()
	require.NoError(t, NewDashboardJobs(sessions, time.Minute, time.Minute).RegisterJobs(s))

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), sessions.expired.Load())
}

func TestScheduler_TicksUntilStopped(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler()
	require.NoError(t, s.AddJob(Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Fn: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}
