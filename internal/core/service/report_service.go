package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

const shareRetries = 3

var reportFields = map[string]updateField{
	"title": stringField("title"),
}

// ReportService implements report generation, CRUD, and access-code sharing.
type ReportService struct {
	repo           ports.ReportRepository
	health         ports.HealthRepository
	performance    ports.PerformanceRepository
	anthropometric ports.AnthropometricRepository
	users          ports.UserRepository
	cache          ports.ShareCache
	logger         zerolog.Logger
}

func NewReportService(
	repo ports.ReportRepository,
	health ports.HealthRepository,
	performance ports.PerformanceRepository,
	anthropometric ports.AnthropometricRepository,
	users ports.UserRepository,
	cache ports.ShareCache,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		repo:           repo,
		health:         health,
		performance:    performance,
		anthropometric: anthropometric,
		users:          users,
		cache:          cache,
		logger:         logger,
	}
}

// Create assembles the content snapshot from the athlete's measurement
// records within the period. The snapshot is a by-value copy: later edits to
// the source records never show up in the report.
func (s *ReportService) Create(ctx context.Context, caller ports.Caller, input ports.CreateReportInput) (*domain.Report, error) {
	if err := validateReport(input); err != nil {
		return nil, err
	}

	var userID, professionalID string
	switch caller.Role {
	case domain.RoleProfessional:
		patient, err := s.users.FindPatient(ctx, caller.ID, input.UserID)
		if err != nil {
			return nil, domain.ErrNotFound
		}
		userID, professionalID = patient.ID, caller.ID
	default:
		self, err := s.users.FindByID(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		userID, professionalID = caller.ID, self.Athlete.ProfessionalID
	}

	content, err := s.assembleContent(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &domain.Report{
		UserID:         userID,
		ProfessionalID: professionalID,
		Title:          input.Title,
		Type:           input.Type,
		PeriodFrom:     input.PeriodFrom,
		PeriodTo:       input.PeriodTo,
		Content:        *content,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create report")
		return nil, err
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, caller ports.Caller, filter ports.ListFilter) (*ports.ReportList, error) {
	filter = scopeFilter(caller, filter)
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ReportList{Items: items, Pagination: ports.NewPagination(total, filter.Page, filter.Limit)}, nil
}

func (s *ReportService) Get(ctx context.Context, caller ports.Caller, id string) (*domain.Report, error) {
	return s.repo.FindByID(ctx, id, scopeFilter(caller, ports.ListFilter{}))
}

func (s *ReportService) Update(ctx context.Context, professionalID, id string, updates map[string]any) (*domain.Report, error) {
	fields, err := mapUpdateFields(updates, reportFields)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, professionalID, fields)
}

func (s *ReportService) Delete(ctx context.Context, professionalID, id string) error {
	return s.repo.Delete(ctx, id, professionalID)
}

// Share marks the report shared. The access code is generated lazily on the
// first share and kept forever after; re-sharing is idempotent.
func (s *ReportService) Share(ctx context.Context, professionalID, id string) (*domain.Report, error) {
	report, err := s.repo.FindByID(ctx, id, ports.ListFilter{ProfessionalID: professionalID})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if report.AccessCode != "" {
		if report.Shared {
			return report, nil
		}
		return s.repo.Update(ctx, id, professionalID, map[string]any{
			"shared": true, "shared_at": now, "updated_at": now,
		})
	}

	// Uniqueness is backed by a sparse unique index; collisions retry with a
	// fresh code. The assignment is guarded on the code being absent, so a
	// concurrent first-share cannot replace an already assigned code.
	for attempt := 0; attempt < shareRetries; attempt++ {
		code := generateAccessCode()
		updated, err := s.repo.AssignAccessCode(ctx, id, professionalID, map[string]any{
			"access_code": code, "shared": true, "shared_at": now, "updated_at": now,
		})
		switch {
		case err == nil:
			_ = s.cache.Set(ctx, code, updated.ID)
			s.logger.Info().Str("report_id", id).Msg("report shared")
			return updated, nil
		case errors.Is(err, domain.ErrAccessCodeTaken):
			continue
		case errors.Is(err, domain.ErrNotFound):
			// Lost the race: a concurrent share assigned the code between
			// our read and this write. Re-read and keep that code.
			report, err = s.repo.FindByID(ctx, id, ports.ListFilter{ProfessionalID: professionalID})
			if err != nil {
				return nil, err
			}
			if report.AccessCode == "" {
				return nil, domain.ErrNotFound
			}
			if report.Shared {
				return report, nil
			}
			return s.repo.Update(ctx, id, professionalID, map[string]any{
				"shared": true, "shared_at": now, "updated_at": now,
			})
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("share report %s: could not allocate a unique access code", id)
}

func (s *ReportService) Unshare(ctx context.Context, professionalID, id string) (*domain.Report, error) {
	now := time.Now().UTC()
	updated, err := s.repo.Update(ctx, id, professionalID, map[string]any{
		"shared": false, "updated_at": now,
	})
	if err != nil {
		return nil, err
	}
	if updated.AccessCode != "" {
		_ = s.cache.Invalidate(ctx, updated.AccessCode)
	}
	return updated, nil
}

// GetShared is the public path: access code in, report out, but only while
// the report is still marked shared.
func (s *ReportService) GetShared(ctx context.Context, accessCode string) (*domain.Report, error) {
	if id, err := s.cache.Get(ctx, accessCode); err == nil && id != "" {
		report, err := s.repo.FindSharedByID(ctx, id)
		if err == nil {
			return report, nil
		}
		// Stale cache entry (unshared or deleted since): drop and fall through.
		_ = s.cache.Invalidate(ctx, accessCode)
	}

	report, err := s.repo.FindShared(ctx, accessCode)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, accessCode, report.ID)
	return report, nil
}

func (s *ReportService) assembleContent(ctx context.Context, userID string, input ports.CreateReportInput) (*domain.ReportContent, error) {
	period := ports.ListFilter{
		UserID:   userID,
		DateFrom: input.PeriodFrom,
		DateTo:   input.PeriodTo,
		Page:     1,
		Limit:    100,
	}

	var content domain.ReportContent
	if input.Type == domain.ReportHealth || input.Type == domain.ReportCombined {
		items, _, err := s.health.List(ctx, period)
		if err != nil {
			return nil, err
		}
		content.Health = copyValues(items)
	}
	if input.Type == domain.ReportPerformance || input.Type == domain.ReportCombined {
		items, _, err := s.performance.List(ctx, period)
		if err != nil {
			return nil, err
		}
		content.Performance = copyValues(items)
	}
	if input.Type == domain.ReportAnthropometric || input.Type == domain.ReportCombined {
		items, _, err := s.anthropometric.List(ctx, period)
		if err != nil {
			return nil, err
		}
		content.Anthropometric = copyValues(items)
	}
	return &content, nil
}

func copyValues[T any](items []*T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}

// generateAccessCode returns a 12-hex-char code, e.g. "7A8B9C2D0E1F".
func generateAccessCode() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%012X", time.Now().UnixNano()&0xFFFFFFFFFFFF)
	}
	return fmt.Sprintf("%X", b)
}

func validateReport(input ports.CreateReportInput) error {
	var fields []domain.FieldError
	if input.Title == "" {
		fields = append(fields, domain.FieldError{Field: "title", Message: "title is required"})
	}
	switch input.Type {
	case domain.ReportHealth, domain.ReportPerformance, domain.ReportAnthropometric, domain.ReportCombined:
	default:
		fields = append(fields, domain.FieldError{Field: "type", Message: "type must be one of: health performance anthropometric combined"})
	}
	if !input.PeriodTo.IsZero() && input.PeriodTo.Before(input.PeriodFrom) {
		fields = append(fields, domain.FieldError{Field: "periodTo", Message: "periodTo must not precede periodFrom"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
