package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

const (
	DefaultBaseURL = "http://localhost:3000/api"
	maxErrorBody   = 4 << 10
)

// APIError is a non-2xx answer of the device backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("attendance backend %s %s: http status=%d body=%q", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return attendance.ErrNetworkFailure
}

type attendanceRepositoryImpl struct {
	baseURL    string
	httpClient *http.Client
}

// NewAttendanceRepository returns a repository backed by the device backend's HTTP API.
func NewAttendanceRepository(baseURL string, httpClient *http.Client) attendance.AttendanceRepository {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &attendanceRepositoryImpl{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Health implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Health(ctx context.Context) (bool, error) {
	resp, err := r.do(ctx, http.MethodGet, "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// Summary implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Summary(ctx context.Context) (attendance.Summary, error) {
	env, err := r.get(ctx, http.MethodGet, "/summary")
	if err != nil {
		return attendance.Summary{}, err
	}
	if env.Summary == nil {
		return attendance.Summary{}, fmt.Errorf("%w: summary missing from response", attendance.ErrServerLogicFailure)
	}
	return env.Summary.toDomain(), nil
}

// Employees implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Employees(ctx context.Context) ([]attendance.Employee, error) {
	env, err := r.get(ctx, http.MethodGet, "/users")
	if err != nil {
		return nil, err
	}
	if env.Users == nil {
		return []attendance.Employee{}, nil
	}
	return env.Users, nil
}

// Records implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Records(ctx context.Context, scope attendance.Scope) (attendance.RecordsResult, error) {
	path, err := scopePath(scope)
	if err != nil {
		return attendance.RecordsResult{}, err
	}

	env, err := r.get(ctx, http.MethodGet, path)
	if err != nil {
		return attendance.RecordsResult{}, err
	}

	records := []attendance.Record{}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return attendance.RecordsResult{}, fmt.Errorf("%w: decode records: %v", attendance.ErrServerLogicFailure, err)
		}
	}

	return attendance.RecordsResult{
		Records: records,
		Stats:   env.scopeStats(),
	}, nil
}

// RecordDetail implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) RecordDetail(ctx context.Context, uid attendance.ID, date string) (attendance.Detail, error) {
	if uid == "" {
		return attendance.Detail{}, attendance.ErrEmployeeRequired
	}

	path := "/by-employee/" + url.PathEscape(uid.String()) + "/date/" + url.PathEscape(date)
	env, err := r.get(ctx, http.MethodGet, path)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return attendance.Detail{}, fmt.Errorf("%w: %s on %s", attendance.ErrRecordNotFound, uid, date)
		}
		return attendance.Detail{}, err
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return attendance.Detail{}, fmt.Errorf("%w: %s on %s", attendance.ErrRecordNotFound, uid, date)
	}

	var detail attendance.Detail
	if err := json.Unmarshal(env.Data, &detail.Record); err != nil {
		return attendance.Detail{}, fmt.Errorf("%w: decode record: %v", attendance.ErrServerLogicFailure, err)
	}
	if env.Employee != nil {
		detail.Employee = *env.Employee
	}
	return detail, nil
}

// Refresh implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Refresh(ctx context.Context) (attendance.Summary, error) {
	env, err := r.get(ctx, http.MethodPost, "/refresh")
	if err != nil {
		return attendance.Summary{}, err
	}
	if env.Summary == nil {
		return attendance.Summary{}, nil
	}
	return env.Summary.toDomain(), nil
}

func scopePath(scope attendance.Scope) (string, error) {
	switch scope.Mode {
	case attendance.ModeAll, "":
		return "/attendance", nil
	case attendance.ModeByDate:
		if scope.Date == "" {
			return "", fmt.Errorf("%w: by-date scope without a date", attendance.ErrInvalidScope)
		}
		return "/by-date/" + url.PathEscape(scope.Date), nil
	case attendance.ModeByEmployee:
		if scope.EmployeeUID == "" {
			return "", attendance.ErrEmployeeRequired
		}
		return "/by-employee/" + url.PathEscape(scope.EmployeeUID.String()), nil
	case attendance.ModeToday:
		return "/today", nil
	default:
		return "", fmt.Errorf("%w: mode %q", attendance.ErrInvalidScope, scope.Mode)
	}
}

func (r *attendanceRepositoryImpl) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", attendance.ErrNetworkFailure, method, path, err)
	}
	return resp, nil
}

// get performs a request and decodes the backend envelope. Non-2xx answers
// become *APIError, success=false becomes ErrServerLogicFailure.
func (r *attendanceRepositoryImpl) get(ctx context.Context, method, path string) (envelope, error) {
	resp, err := r.do(ctx, method, path)
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return envelope{}, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("%w: decode %s: %v", attendance.ErrServerLogicFailure, path, err)
	}
	if !env.Success {
		return envelope{}, fmt.Errorf("%w: %s %s: %s", attendance.ErrServerLogicFailure, method, path, env.message())
	}
	return env, nil
}
