package dashboard

import (
	"context"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
)

// DashboardService manages dashboard sessions. A session is one open
// dashboard: its view state, the record set of its scope and its banner.
type DashboardService interface {
	// Create opens a session and runs its initial load.
	Create(ctx context.Context) (Snapshot, error)

	// Get returns the current snapshot of a session.
	Get(ctx context.Context, sessionID string) (Snapshot, error)

	// Delete closes a session.
	Delete(ctx context.Context, sessionID string) error

	// Dispatch applies a view event, fetching a new record set when the event
	// selects a different scope.
	Dispatch(ctx context.Context, sessionID string, event view.Event) (Snapshot, error)

	// Refresh asks the backend to re-read the device, then reloads the scope.
	Refresh(ctx context.Context, sessionID string) (Snapshot, error)

	// SetVisibility pauses or resumes the timed refresh of a session.
	SetVisibility(ctx context.Context, sessionID string, req VisibilityRequest) (Snapshot, error)

	// RecordDetail returns one record with its employee.
	RecordDetail(ctx context.Context, sessionID string, req RecordDetailRequest) (attendance.Detail, error)

	// Export returns every filtered and sorted row of a session.
	Export(ctx context.Context, sessionID string) (ExportData, error)
}
