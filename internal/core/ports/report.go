package ports

import (
	"context"
	"time"

	"github.com/vitaltrack/health-system/internal/core/domain"
)

// ReportRepository persists reports. All scoped lookups treat out-of-scope
// ids as domain.ErrNotFound.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	// FindByID scopes by caller: non-empty userID or professionalID become
	// additional filters.
	FindByID(ctx context.Context, id string, filter ListFilter) (*domain.Report, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Report, int64, error)
	Update(ctx context.Context, id, professionalID string, fields map[string]any) (*domain.Report, error)
	// AssignAccessCode is Update guarded on the access code not existing
	// yet, so concurrent first-shares cannot overwrite each other's code.
	// A report that already carries a code is domain.ErrNotFound.
	AssignAccessCode(ctx context.Context, id, professionalID string, fields map[string]any) (*domain.Report, error)
	Delete(ctx context.Context, id, professionalID string) error
	// FindShared fetches by access code; unshared reports are not returned.
	FindShared(ctx context.Context, accessCode string) (*domain.Report, error)
	FindSharedByID(ctx context.Context, id string) (*domain.Report, error)
}

// ShareCache caches access-code to report-id lookups for the public shared
// endpoint. A nil/unavailable cache degrades to storage lookups.
type ShareCache interface {
	Get(ctx context.Context, accessCode string) (string, error)
	Set(ctx context.Context, accessCode, reportID string) error
	Invalidate(ctx context.Context, accessCode string) error
}

// CreateReportInput carries report generation parameters. UserID is the
// target athlete; for athlete callers it is forced to the caller.
type CreateReportInput struct {
	UserID     string
	Title      string
	Type       domain.ReportType
	PeriodFrom time.Time
	PeriodTo   time.Time
}

// ReportList is one page of reports.
type ReportList struct {
	Items      []*domain.Report
	Pagination Pagination
}

// ReportService covers report generation, CRUD, and sharing.
type ReportService interface {
	// Create assembles the content snapshot from the measurement records in
	// the period, copied by value so later edits never leak into the report.
	Create(ctx context.Context, caller Caller, input CreateReportInput) (*domain.Report, error)
	List(ctx context.Context, caller Caller, filter ListFilter) (*ReportList, error)
	Get(ctx context.Context, caller Caller, id string) (*domain.Report, error)
	Update(ctx context.Context, professionalID, id string, updates map[string]any) (*domain.Report, error)
	Delete(ctx context.Context, professionalID, id string) error
	// Share marks the report shared, assigning a unique access code exactly
	// once; re-sharing returns the existing code.
	Share(ctx context.Context, professionalID, id string) (*domain.Report, error)
	Unshare(ctx context.Context, professionalID, id string) (*domain.Report, error)
	// GetShared is the public access-code path; succeeds only while shared.
	GetShared(ctx context.Context, accessCode string) (*domain.Report, error)
}

// IntegrationRepository persists stub connection flags.
type IntegrationRepository interface {
	Status(ctx context.Context, userID string) (*domain.IntegrationStatus, error)
	Connect(ctx context.Context, userID, provider string, at time.Time) (*domain.IntegrationStatus, error)
}

// IntegrationService covers the stubbed wearable-integration flags.
type IntegrationService interface {
	Connect(ctx context.Context, userID, provider string) (*domain.IntegrationStatus, error)
	Status(ctx context.Context, userID string) (*domain.IntegrationStatus, error)
}
