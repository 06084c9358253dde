package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

var anthropometricFields = map[string]updateField{
	"weightKg":     positiveField("weight_kg"),
	"heightCm":     positiveField("height_cm"),
	"bodyFatPct":   rangedField("body_fat_pct", 0, 100),
	"measurements": measurementsField("measurements"),
	"recordedAt":   timeField("recorded_at"),
	"notes":        stringField("notes"),
}

// AnthropometricService implements body-composition records with the derived
// lean-body-mass field recomputed on every save that touches its inputs.
type AnthropometricService struct {
	repo   ports.AnthropometricRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewAnthropometricService(repo ports.AnthropometricRepository, users ports.UserRepository, logger zerolog.Logger) *AnthropometricService {
	return &AnthropometricService{repo: repo, users: users, logger: logger}
}

func (s *AnthropometricService) Create(ctx context.Context, professionalID string, input ports.CreateAnthropometricInput) (*domain.AnthropometricRecord, error) {
	if err := validateAnthropometric(input); err != nil {
		return nil, err
	}
	if _, err := s.users.FindPatient(ctx, professionalID, input.UserID); err != nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	r := &domain.AnthropometricRecord{
		UserID:         input.UserID,
		ProfessionalID: professionalID,
		WeightKg:       input.WeightKg,
		HeightCm:       input.HeightCm,
		BodyFatPct:     input.BodyFatPct,
		Measurements:   input.Measurements,
		RecordedAt:     input.RecordedAt,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = now
	}
	r.DeriveLeanBodyMass()

	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create anthropometric record")
		return nil, err
	}
	return r, nil
}

func (s *AnthropometricService) List(ctx context.Context, caller ports.Caller, filter ports.ListFilter) (*ports.AnthropometricList, error) {
	filter = scopeFilter(caller, filter)
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.AnthropometricList{Items: items, Pagination: ports.NewPagination(total, filter.Page, filter.Limit)}, nil
}

func (s *AnthropometricService) Get(ctx context.Context, caller ports.Caller, id string) (*domain.AnthropometricRecord, error) {
	return s.repo.FindByID(ctx, id, scopeFilter(caller, ports.ListFilter{}))
}

// Update merges the provided fields; when weight or body fat change the
// derived lean body mass is recomputed from the merged record.
func (s *AnthropometricService) Update(ctx context.Context, professionalID, id string, updates map[string]any) (*domain.AnthropometricRecord, error) {
	fields, err := mapUpdateFields(updates, anthropometricFields)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, professionalID, fields)
	if err != nil {
		return nil, err
	}

	_, weightChanged := fields["weight_kg"]
	_, fatChanged := fields["body_fat_pct"]
	if weightChanged || fatChanged {
		updated.DeriveLeanBodyMass()
		updated, err = s.repo.Update(ctx, id, professionalID, map[string]any{
			"lean_body_mass_kg": updated.LeanBodyMassKg,
			"updated_at":        time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (s *AnthropometricService) Delete(ctx context.Context, professionalID, id string) error {
	return s.repo.Delete(ctx, id, professionalID)
}

func validateAnthropometric(input ports.CreateAnthropometricInput) error {
	var fields []domain.FieldError
	if input.WeightKg <= 0 {
		fields = append(fields, domain.FieldError{Field: "weightKg", Message: "weightKg must be greater than 0"})
	}
	if input.BodyFatPct < 0 || input.BodyFatPct > 100 {
		fields = append(fields, domain.FieldError{Field: "bodyFatPct", Message: "bodyFatPct must be between 0 and 100"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
