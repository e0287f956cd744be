package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
	viewService "github.com/cmlabs-hris/attendance-dashboard-go/internal/service/view"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

// ControllerConfig holds what a controller needs besides its repository.
type ControllerConfig struct {
	Location *time.Location
	Lang     language.Tag
	PageSize int
	Now      func() time.Time
	// OnChange is called with a fresh snapshot after every state change.
	OnChange func(dashboard.Snapshot)
}

// Controller owns one dashboard session. It is safe for concurrent use.
//
// The committed state always matches the record set it was fetched for. A
// state that needs new records is kept as pending until its fetch succeeds;
// responses to anything but the latest request are dropped.
type Controller struct {
	id       string
	repo     attendance.AttendanceRepository
	loc      *time.Location
	lang     language.Tag
	now      func() time.Time
	onChange func(dashboard.Snapshot)
	logger   *slog.Logger

	group singleflight.Group

	mu         sync.Mutex
	state      view.State
	pending    *view.State
	records    []attendance.Record
	stats      *attendance.ScopeStats
	employees  []attendance.Employee
	summary    attendance.Summary
	refErr     error
	online     bool
	errState   *dashboard.ErrorState
	seq        uint64
	inFlight   int
	visible    bool
	lastAccess time.Time
	updatedAt  time.Time
}

func NewController(id string, repo attendance.AttendanceRepository, cfg ControllerConfig) *Controller {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	c := &Controller{
		id:       id,
		repo:     repo,
		loc:      cfg.Location,
		lang:     cfg.Lang,
		now:      cfg.Now,
		onChange: cfg.OnChange,
		logger:   slog.With("session_id", id),
		visible:  true,
	}
	c.state = view.NewState(c.today(), cfg.PageSize)
	c.lastAccess = c.now()
	return c
}

func (c *Controller) ID() string {
	return c.id
}

// Load fetches the reference data (health, summary, employees) concurrently,
// then the record set of the current state. Records are loaded even when the
// reference data is not; the banner stays until a refresh reloads it.
func (c *Controller) Load(ctx context.Context) dashboard.Snapshot {
	ctx = context.WithoutCancel(ctx)

	if err := c.loadReference(ctx); err != nil {
		c.logger.Error("Failed to load dashboard reference data", "error", err)
		c.fail(err)
	}

	c.mu.Lock()
	next := c.effectiveStateLocked()
	seq := c.beginFetchLocked(next)
	c.mu.Unlock()

	c.fetch(ctx, seq, next.Scope())
	return c.Snapshot()
}

// loadReference keeps whatever part of the reference data loaded.
func (c *Controller) loadReference(ctx context.Context) error {
	var (
		online       bool
		summary      attendance.Summary
		employees    []attendance.Employee
		summaryErr   error
		employeesErr error
	)

	var g errgroup.Group

	// 1. Backend health, never fatal
	g.Go(func() error {
		ok, err := c.repo.Health(ctx)
		online = err == nil && ok
		return nil
	})

	// 2. Global counters
	g.Go(func() error {
		s, err := c.repo.Summary(ctx)
		if err != nil {
			summaryErr = fmt.Errorf("failed to load summary: %w", err)
			return nil
		}
		summary = s
		return nil
	})

	// 3. Employee reference list
	g.Go(func() error {
		list, err := c.repo.Employees(ctx)
		if err != nil {
			employeesErr = fmt.Errorf("failed to load employees: %w", err)
			return nil
		}
		employees = list
		return nil
	})

	_ = g.Wait()
	err := errors.Join(summaryErr, employeesErr)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.online = online
	if summaryErr == nil {
		c.summary = summary
	}
	if employeesErr == nil {
		c.employees = employees
	}
	c.refErr = err
	return err
}

// Dispatch applies a user event. Events that select a different scope block
// until the new record set is fetched; the others are applied immediately.
// Only validation errors are returned: fetch failures end up in the banner.
func (c *Controller) Dispatch(ctx context.Context, event view.Event) (dashboard.Snapshot, error) {
	c.mu.Lock()
	c.lastAccess = c.now()

	base := c.effectiveStateLocked()
	tr, err := view.Reduce(base, event, c.envLocked(base))
	if err != nil {
		if errors.Is(err, attendance.ErrNoEmployeeAvailable) {
			c.setErrorLocked(err)
			snap := c.snapshotLocked()
			c.mu.Unlock()
			c.notify(snap)
			return snap, nil
		}
		c.mu.Unlock()
		return dashboard.Snapshot{}, err
	}

	if !tr.Refetch {
		if c.pending != nil {
			// Keep the in-flight state in step, and show the change now if it
			// also makes sense for the records on screen.
			c.pending = &tr.Next
			if ctr, err := view.Reduce(c.state, event, c.envLocked(c.state)); err == nil && !ctr.Refetch {
				c.state = ctr.Next
			}
		} else {
			c.state = tr.Next
		}
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return snap, nil
	}

	seq := c.beginFetchLocked(tr.Next)
	loading := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(loading)

	c.fetch(context.WithoutCancel(ctx), seq, tr.Next.Scope())
	return c.Snapshot(), nil
}

// Refresh asks the backend to re-read the device, then reloads the current
// scope. Reference data is reloaded first if it is missing. Concurrent refreshes of the same scope are collapsed into one.
func (c *Controller) Refresh(ctx context.Context) dashboard.Snapshot {
	ctx = context.WithoutCancel(ctx)

	c.mu.Lock()
	c.lastAccess = c.now()
	key := "refresh:" + c.effectiveStateLocked().Scope().Key()
	c.mu.Unlock()

	_, _, _ = c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		reload := c.refErr != nil || len(c.employees) == 0
		c.mu.Unlock()
		if reload {
			if err := c.loadReference(ctx); err != nil {
				c.logger.Warn("Dashboard reference data still unavailable", "error", err)
			}
		}

		summary, err := c.repo.Refresh(ctx)
		if err != nil {
			c.logger.Error("Failed to refresh attendance backend", "error", err)
			c.fail(err)
			return nil, err
		}

		c.mu.Lock()
		c.summary = summary
		next := c.effectiveStateLocked()
		seq := c.beginFetchLocked(next)
		c.mu.Unlock()

		// Do not join a fetch that started before the backend refreshed.
		c.group.Forget(scopeKey(next.Scope()))
		c.fetch(ctx, seq, next.Scope())
		return nil, nil
	})

	return c.Snapshot()
}

// AutoRefresh is the timed refresh. It does nothing while the session is
// hidden or already fetching, and reports whether it ran.
func (c *Controller) AutoRefresh(ctx context.Context) bool {
	c.mu.Lock()
	skip := !c.visible || c.inFlight > 0
	c.mu.Unlock()
	if skip {
		return false
	}

	c.Refresh(ctx)
	return true
}

func (c *Controller) SetVisible(visible bool) dashboard.Snapshot {
	c.mu.Lock()
	c.lastAccess = c.now()
	c.visible = visible
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return snap
}

func (c *Controller) Detail(ctx context.Context, uid attendance.ID, date string) (attendance.Detail, error) {
	c.mu.Lock()
	c.lastAccess = c.now()
	c.mu.Unlock()

	detail, err := c.repo.RecordDetail(ctx, uid, date)
	if err != nil {
		return attendance.Detail{}, fmt.Errorf("failed to get record detail: %w", err)
	}
	return detail, nil
}

// Export returns every row of the committed view, not only the current page.
func (c *Controller) Export() dashboard.ExportData {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAccess = c.now()

	today := c.today()
	proj := viewService.Project(c.records, c.state, today, c.lang)
	return dashboard.ExportData{
		Today: today,
		Title: viewService.Title(c.state, c.employees),
		Rows:  viewService.Rows(proj.Ordered, today),
	}
}

func (c *Controller) Snapshot() dashboard.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Touch marks the session as used.
func (c *Controller) Touch() {
	c.mu.Lock()
	c.lastAccess = c.now()
	c.mu.Unlock()
}

func (c *Controller) LastAccess() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAccess
}

// fetch loads the records of scope and commits them with the pending state,
// unless a newer request was issued meanwhile.
func (c *Controller) fetch(ctx context.Context, seq uint64, scope attendance.Scope) {
	v, err, _ := c.group.Do(scopeKey(scope), func() (any, error) {
		return c.repo.Records(ctx, scope)
	})

	c.mu.Lock()
	c.inFlight--
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Info("Discarding stale attendance response", "scope", scope.Key(), "seq", seq)
		return
	}

	pending := c.pending
	c.pending = nil
	if err != nil {
		c.setErrorLocked(err)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Error("Failed to fetch attendance records", "scope", scope.Key(), "error", err)
		c.notify(snap)
		return
	}

	result := v.(attendance.RecordsResult)
	if pending != nil {
		c.state = *pending
	}
	c.records = result.Records
	c.stats = result.Stats
	c.errState = nil
	if c.refErr != nil {
		c.setErrorLocked(c.refErr)
	}
	c.updatedAt = c.now()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Controller) beginFetchLocked(next view.State) uint64 {
	c.pending = &next
	c.seq++
	c.inFlight++
	return c.seq
}

func (c *Controller) effectiveStateLocked() view.State {
	if c.pending != nil {
		return *c.pending
	}
	return c.state
}

func (c *Controller) envLocked(s view.State) view.Env {
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = view.DefaultPageSize
	}
	// Pages of a state waiting for another scope are unknown until it commits.
	var count int
	if c.pending == nil || s.Scope().Key() == c.state.Scope().Key() {
		count = len(viewService.Filter(c.records, s))
	}

	return view.Env{
		Today:              c.today(),
		DefaultEmployeeUID: viewService.DefaultEmployee(c.employees, c.lang),
		TotalPages:         (count + pageSize - 1) / pageSize,
	}
}

// snapshotLocked projects the committed state and normalizes its page to the
// one actually shown.
func (c *Controller) snapshotLocked() dashboard.Snapshot {
	today := c.today()
	proj := viewService.Project(c.records, c.state, today, c.lang)
	c.state.Page = proj.Page.Pagination.Page

	var pending *view.State
	if c.pending != nil {
		p := *c.pending
		pending = &p
	}
	var errState *dashboard.ErrorState
	if c.errState != nil {
		e := *c.errState
		errState = &e
	}

	return dashboard.Snapshot{
		SessionID: c.id,
		State:     c.state,
		Title:     viewService.Title(c.state, c.employees),
		Page:      proj.Page,
		Stats:     c.stats,
		Header: dashboard.HeaderResponse{
			Summary:    c.summary,
			Online:     c.online,
			SampleData: c.summary.UsesSampleData(),
		},
		Employees: viewService.EmployeeOptions(c.employees, c.lang),
		Error:     errState,
		Pending:   pending,
		Loading:   c.inFlight > 0,
		Visible:   c.visible,
		UpdatedAt: c.updatedAt,
	}
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.setErrorLocked(err)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) setErrorLocked(err error) {
	kind, message := classifyError(err)
	c.errState = &dashboard.ErrorState{
		Kind:       kind,
		Message:    message,
		OccurredAt: c.now(),
	}
}

func (c *Controller) notify(snap dashboard.Snapshot) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}

func (c *Controller) today() string {
	return attendance.Today(c.now(), c.loc)
}

func classifyError(err error) (dashboard.ErrorKind, string) {
	switch {
	case errors.Is(err, attendance.ErrNoEmployeeAvailable):
		return dashboard.ErrorKindNoEmployee, "No employee available"
	case errors.Is(err, attendance.ErrRecordNotFound):
		return dashboard.ErrorKindNotFound, "Attendance record not found"
	case errors.Is(err, attendance.ErrServerLogicFailure):
		return dashboard.ErrorKindServer, "The attendance backend could not load the data"
	case errors.Is(err, attendance.ErrNetworkFailure):
		return dashboard.ErrorKindNetwork, "Unable to reach the attendance backend"
	default:
		return dashboard.ErrorKindUnknown, "An unexpected error occurred while loading the data"
	}
}

func scopeKey(scope attendance.Scope) string {
	return "scope:" + scope.Key()
}
