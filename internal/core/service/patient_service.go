package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

var patientFields = map[string]updateField{
	"name":     stringField("name"),
	"gender":   enumField("athlete.gender", "male", "female", "other"),
	"age":      intField("athlete.age", 0, 150),
	"country":  stringField("athlete.country"),
	"sport":    stringField("athlete.sport"),
	"position": stringField("athlete.position"),
}

// PatientService implements professional-scoped athlete management. Every
// lookup goes through the ownership filter; another professional's athlete is
// indistinguishable from a missing one.
type PatientService struct {
	users          ports.UserRepository
	health         ports.HealthRepository
	performance    ports.PerformanceRepository
	anthropometric ports.AnthropometricRepository
	logger         zerolog.Logger
}

func NewPatientService(
	users ports.UserRepository,
	health ports.HealthRepository,
	performance ports.PerformanceRepository,
	anthropometric ports.AnthropometricRepository,
	logger zerolog.Logger,
) *PatientService {
	return &PatientService{
		users:          users,
		health:         health,
		performance:    performance,
		anthropometric: anthropometric,
		logger:         logger,
	}
}

// Create enrolls a new athlete owned by the calling professional.
func (s *PatientService) Create(ctx context.Context, professionalID string, input ports.CreatePatientInput) (*domain.User, error) {
	if err := validatePatient(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	patient := &domain.User{
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Role:         domain.RoleAthlete,
		Settings:     domain.DefaultSettings(),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Athlete: &domain.AthleteProfile{
			Gender:         input.Gender,
			Age:            input.Age,
			Country:        input.Country,
			Sport:          input.Sport,
			Position:       input.Position,
			ProfessionalID: professionalID,
		},
	}

	created, err := s.users.Create(ctx, patient)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddPatient(ctx, professionalID, created.ID); err != nil {
		s.logger.Error().Err(err).Str("patient_id", created.ID).Msg("failed to backlink patient")
	}

	s.logger.Info().Str("patient_id", created.ID).Str("professional_id", professionalID).Msg("patient created")
	return created, nil
}

func (s *PatientService) List(ctx context.Context, professionalID string, page, limit int) (*ports.PatientList, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.users.ListPatients(ctx, professionalID, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.PatientList{Items: items, Pagination: ports.NewPagination(total, page, limit)}, nil
}

func (s *PatientService) Get(ctx context.Context, professionalID, patientID string) (*domain.User, error) {
	return s.users.FindPatient(ctx, professionalID, patientID)
}

func (s *PatientService) Update(ctx context.Context, professionalID, patientID string, updates map[string]any) (*domain.User, error) {
	// Ownership first: only the assigned owner may mutate.
	if _, err := s.users.FindPatient(ctx, professionalID, patientID); err != nil {
		return nil, err
	}

	fields, err := mapUpdateFields(updates, patientFields)
	if err != nil {
		return nil, err
	}

	return s.users.Update(ctx, patientID, fields)
}

// Delete removes the patient and purges their measurement records. The three
// purges run concurrently and are not atomic with each other or the user
// delete: a crash mid-way can orphan records. Reports are not cascaded.
func (s *PatientService) Delete(ctx context.Context, professionalID, patientID string) error {
	patient, err := s.users.FindPatient(ctx, professionalID, patientID)
	if err != nil {
		return err
	}

	purges := []struct {
		kind string
		fn   func(context.Context, string) error
	}{
		{"health", s.health.DeleteByUser},
		{"performance", s.performance.DeleteByUser},
		{"anthropometric", s.anthropometric.DeleteByUser},
	}

	var wg sync.WaitGroup
	for _, p := range purges {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.fn(ctx, patient.ID); err != nil {
				s.logger.Error().Err(err).
					Str("patient_id", patient.ID).
					Str("kind", p.kind).
					Msg("cascade purge failed")
			}
		}()
	}
	wg.Wait()

	if err := s.users.Delete(ctx, patient.ID); err != nil {
		return err
	}
	if err := s.users.RemovePatient(ctx, professionalID, patient.ID); err != nil {
		s.logger.Error().Err(err).Str("patient_id", patient.ID).Msg("failed to unlink patient")
	}

	s.logger.Info().Str("patient_id", patient.ID).Str("professional_id", professionalID).Msg("patient deleted")
	return nil
}

func validatePatient(input ports.CreatePatientInput) error {
	var fields []domain.FieldError
	if input.Name == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "name is required"})
	}
	if input.Email == "" {
		fields = append(fields, domain.FieldError{Field: "email", Message: "email is required"})
	}
	if len(input.Password) < 8 {
		fields = append(fields, domain.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	switch input.Gender {
	case "male", "female", "other":
	default:
		fields = append(fields, domain.FieldError{Field: "gender", Message: "gender must be one of: male female other"})
	}
	if input.Age < 0 {
		fields = append(fields, domain.FieldError{Field: "age", Message: "age must not be negative"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// normalizePage applies the 1-based page default and the 100-row cap.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
