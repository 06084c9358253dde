package ports

import (
	"context"
	"time"

	"github.com/vitaltrack/health-system/internal/core/domain"
)

// ListFilter carries the query parameters shared by all measurement lists.
// UserID/ProfessionalID scoping is always set by the service layer from the
// caller, never trusted from the request.
type ListFilter struct {
	UserID         string    // athlete scope; for professionals an additional filter
	ProfessionalID string    // professional scope (performance/anthropometric only)
	Source         string    // health facet
	Metric         string    // performance facet
	DateFrom       time.Time // optional: recorded_at >= DateFrom
	DateTo         time.Time // optional: recorded_at <= DateTo
	Page           int       // 1-based
	Limit          int       // capped at 100 by the service
}

// HealthRepository persists self-reported health metrics.
type HealthRepository interface {
	Create(ctx context.Context, m *domain.HealthMetric) error
	// FindByID scopes by user_id; misses and out-of-scope ids both return
	// domain.ErrNotFound.
	FindByID(ctx context.Context, id, userID string) (*domain.HealthMetric, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.HealthMetric, int64, error)
	Update(ctx context.Context, id, userID string, fields map[string]any) (*domain.HealthMetric, error)
	Delete(ctx context.Context, id, userID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// PerformanceRepository persists professional-authored performance metrics.
// When professionalID is non-empty the query is additionally scoped by it.
type PerformanceRepository interface {
	Create(ctx context.Context, m *domain.PerformanceMetric) error
	FindByID(ctx context.Context, id string, filter ListFilter) (*domain.PerformanceMetric, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.PerformanceMetric, int64, error)
	Update(ctx context.Context, id, professionalID string, fields map[string]any) (*domain.PerformanceMetric, error)
	Delete(ctx context.Context, id, professionalID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// AnthropometricRepository persists body-composition records.
type AnthropometricRepository interface {
	Create(ctx context.Context, r *domain.AnthropometricRecord) error
	FindByID(ctx context.Context, id string, filter ListFilter) (*domain.AnthropometricRecord, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.AnthropometricRecord, int64, error)
	Update(ctx context.Context, id, professionalID string, fields map[string]any) (*domain.AnthropometricRecord, error)
	Delete(ctx context.Context, id, professionalID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// CreateHealthInput carries a self-reported reading.
type CreateHealthInput struct {
	Source     string
	Type       string
	Value      float64
	Unit       string
	RecordedAt time.Time
	Notes      string
}

// HealthList is one page of health metrics.
type HealthList struct {
	Items      []*domain.HealthMetric
	Pagination Pagination
}

// HealthService covers self-reported health metrics. Athletes operate on
// their own records; professionals may read (not write) records of athletes
// they own.
type HealthService interface {
	Create(ctx context.Context, caller Caller, input CreateHealthInput) (*domain.HealthMetric, error)
	List(ctx context.Context, caller Caller, filter ListFilter) (*HealthList, error)
	Get(ctx context.Context, caller Caller, id string) (*domain.HealthMetric, error)
	Update(ctx context.Context, caller Caller, id string, updates map[string]any) (*domain.HealthMetric, error)
	Delete(ctx context.Context, caller Caller, id string) error
}

// CreatePerformanceInput carries a professional-authored metric for a target
// athlete.
type CreatePerformanceInput struct {
	UserID     string
	Metric     string
	Value      float64
	Unit       string
	RecordedAt time.Time
	Notes      string
}

// PerformanceList is one page of performance metrics.
type PerformanceList struct {
	Items      []*domain.PerformanceMetric
	Pagination Pagination
}

// PerformanceService covers performance metrics: professional-write,
// athlete-read-own.
type PerformanceService interface {
	Create(ctx context.Context, professionalID string, input CreatePerformanceInput) (*domain.PerformanceMetric, error)
	List(ctx context.Context, caller Caller, filter ListFilter) (*PerformanceList, error)
	Get(ctx context.Context, caller Caller, id string) (*domain.PerformanceMetric, error)
	Update(ctx context.Context, professionalID, id string, updates map[string]any) (*domain.PerformanceMetric, error)
	Delete(ctx context.Context, professionalID, id string) error
}

// CreateAnthropometricInput carries a measurement session. Lean body mass is
// derived server-side and ignored if supplied.
type CreateAnthropometricInput struct {
	UserID       string
	WeightKg     float64
	HeightCm     float64
	BodyFatPct   float64
	Measurements map[string]float64
	RecordedAt   time.Time
	Notes        string
}

// AnthropometricList is one page of anthropometric records.
type AnthropometricList struct {
	Items      []*domain.AnthropometricRecord
	Pagination Pagination
}

// AnthropometricService covers body-composition records: professional-write,
// athlete-read-own.
type AnthropometricService interface {
	Create(ctx context.Context, professionalID string, input CreateAnthropometricInput) (*domain.AnthropometricRecord, error)
	List(ctx context.Context, caller Caller, filter ListFilter) (*AnthropometricList, error)
	Get(ctx context.Context, caller Caller, id string) (*domain.AnthropometricRecord, error)
	Update(ctx context.Context, professionalID, id string, updates map[string]any) (*domain.AnthropometricRecord, error)
	Delete(ctx context.Context, professionalID, id string) error
}
