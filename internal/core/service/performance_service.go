package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

var performanceFields = map[string]updateField{
	"metric":     stringField("metric"),
	"value":      numberField("value"),
	"unit":       stringField("unit"),
	"recordedAt": timeField("recorded_at"),
	"notes":      stringField("notes"),
}

// PerformanceService implements professional-authored performance metrics.
// Writes are stamped with the authoring professional's id and every query is
// scoped by the caller (athlete: user_id, professional: professional_id).
type PerformanceService struct {
	repo   ports.PerformanceRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewPerformanceService(repo ports.PerformanceRepository, users ports.UserRepository, logger zerolog.Logger) *PerformanceService {
	return &PerformanceService{repo: repo, users: users, logger: logger}
}

func (s *PerformanceService) Create(ctx context.Context, professionalID string, input ports.CreatePerformanceInput) (*domain.PerformanceMetric, error) {
	if input.Metric == "" {
		return nil, domain.NewValidationError("metric", "metric is required")
	}
	if _, err := s.users.FindPatient(ctx, professionalID, input.UserID); err != nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	m := &domain.PerformanceMetric{
		UserID:         input.UserID,
		ProfessionalID: professionalID,
		Metric:         input.Metric,
		Value:          input.Value,
		Unit:           input.Unit,
		RecordedAt:     input.RecordedAt,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if m.RecordedAt.IsZero() {
		m.RecordedAt = now
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create performance metric")
		return nil, err
	}
	return m, nil
}

func (s *PerformanceService) List(ctx context.Context, caller ports.Caller, filter ports.ListFilter) (*ports.PerformanceList, error) {
	filter = scopeFilter(caller, filter)
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.PerformanceList{Items: items, Pagination: ports.NewPagination(total, filter.Page, filter.Limit)}, nil
}

func (s *PerformanceService) Get(ctx context.Context, caller ports.Caller, id string) (*domain.PerformanceMetric, error) {
	return s.repo.FindByID(ctx, id, scopeFilter(caller, ports.ListFilter{}))
}

func (s *PerformanceService) Update(ctx context.Context, professionalID, id string, updates map[string]any) (*domain.PerformanceMetric, error) {
	fields, err := mapUpdateFields(updates, performanceFields)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, professionalID, fields)
}

func (s *PerformanceService) Delete(ctx context.Context, professionalID, id string) error {
	return s.repo.Delete(ctx, id, professionalID)
}

// scopeFilter pins the ownership filters to the caller. For professionals an
// explicit userId in the request narrows the result further; it never widens
// past professional_id.
func scopeFilter(caller ports.Caller, filter ports.ListFilter) ports.ListFilter {
	if caller.Role == domain.RoleProfessional {
		filter.ProfessionalID = caller.ID
	} else {
		filter.ProfessionalID = ""
		filter.UserID = caller.ID
	}
	return filter
}
