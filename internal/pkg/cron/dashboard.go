package cron

import (
	"context"
	"time"
)

// SessionMaintainer is the part of the dashboard service the jobs drive.
type SessionMaintainer interface {
	AutoRefresh(ctx context.Context) error
	ExpireIdle(ctx context.Context) error
}

// DashboardJobs contains the dashboard session cron jobs
type DashboardJobs struct {
	sessions        SessionMaintainer
	refreshInterval time.Duration
	expireInterval  time.Duration
}

func NewDashboardJobs(sessions SessionMaintainer, refreshInterval, expireInterval time.Duration) *DashboardJobs {
	return &DashboardJobs{
		sessions:        sessions,
		refreshInterval: refreshInterval,
		expireInterval:  expireInterval,
	}
}

// RegisterJobs registers all dashboard cron jobs
func (j *DashboardJobs) RegisterJobs(scheduler *Scheduler) error {
	// Refresh visible sessions, every 2 minutes by default
	if err := scheduler.AddJob(Job{
		Name:     "auto_refresh_sessions",
		Interval: j.refreshInterval,
		Fn:       j.sessions.AutoRefresh,
	}); err != nil {
		return err
	}

	return scheduler.AddJob(Job{
		Name:     "expire_idle_sessions",
		Interval: j.expireInterval,
		Fn:       j.sessions.ExpireIdle,
	})
}
