package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

var healthFields = map[string]updateField{
	"source":     enumField("source", domain.SourceGarmin, domain.SourceGoogleFit, domain.SourceAppleHealth),
	"type":       stringField("type"),
	"value":      numberField("value"),
	"unit":       stringField("unit"),
	"recordedAt": timeField("recorded_at"),
	"notes":      stringField("notes"),
}

// HealthService implements self-reported health metrics. Athletes own their
// records; professionals get read-only access to athletes assigned to them.
type HealthService struct {
	repo   ports.HealthRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewHealthService(repo ports.HealthRepository, users ports.UserRepository, logger zerolog.Logger) *HealthService {
	return &HealthService{repo: repo, users: users, logger: logger}
}

// Create records a reading for the calling athlete. Professionals never
// author health metrics: these are self-reported by design.
func (s *HealthService) Create(ctx context.Context, caller ports.Caller, input ports.CreateHealthInput) (*domain.HealthMetric, error) {
	if caller.Role != domain.RoleAthlete {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidSource(input.Source) {
		return nil, domain.NewValidationError("source", "source must be one of: garmin google_fit apple_health")
	}

	now := time.Now().UTC()
	m := &domain.HealthMetric{
		UserID:     caller.ID,
		Source:     input.Source,
		Type:       input.Type,
		Value:      input.Value,
		Unit:       input.Unit,
		RecordedAt: input.RecordedAt,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if m.RecordedAt.IsZero() {
		m.RecordedAt = now
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("user_id", caller.ID).Msg("failed to create health metric")
		return nil, err
	}
	return m, nil
}

func (s *HealthService) List(ctx context.Context, caller ports.Caller, filter ports.ListFilter) (*ports.HealthList, error) {
	userID, err := s.scopeUser(ctx, caller, filter.UserID)
	if err != nil {
		return nil, err
	}
	filter.UserID = userID
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.HealthList{Items: items, Pagination: ports.NewPagination(total, filter.Page, filter.Limit)}, nil
}

func (s *HealthService) Get(ctx context.Context, caller ports.Caller, id string) (*domain.HealthMetric, error) {
	if caller.Role == domain.RoleAthlete {
		return s.repo.FindByID(ctx, id, caller.ID)
	}
	// Professionals fetch without a user filter first, then check ownership
	// of the record's athlete; any miss is a plain not-found.
	m, err := s.repo.FindByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindPatient(ctx, caller.ID, m.UserID); err != nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *HealthService) Update(ctx context.Context, caller ports.Caller, id string, updates map[string]any) (*domain.HealthMetric, error) {
	if caller.Role != domain.RoleAthlete {
		return nil, domain.ErrForbidden
	}
	fields, err := mapUpdateFields(updates, healthFields)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, caller.ID, fields)
}

func (s *HealthService) Delete(ctx context.Context, caller ports.Caller, id string) error {
	if caller.Role != domain.RoleAthlete {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id, caller.ID)
}

// scopeUser resolves the user_id filter for a health query: athletes are
// pinned to themselves; professionals must name an athlete they own.
func (s *HealthService) scopeUser(ctx context.Context, caller ports.Caller, requested string) (string, error) {
	if caller.Role == domain.RoleAthlete {
		return caller.ID, nil
	}
	if requested == "" {
		return "", domain.NewValidationError("userId", "userId is required for professional queries")
	}
	if _, err := s.users.FindPatient(ctx, caller.ID, requested); err != nil {
		return "", domain.ErrNotFound
	}
	return requested, nil
}
