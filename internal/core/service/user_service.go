package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

// profileFields maps accepted top-level update keys to their storage paths,
// per role. Any key outside the caller's map rejects the whole update.
var profileCommonFields = map[string]updateField{
	"name":     stringField("name"),
	"settings": settingsField("settings"),
}

var profileAthleteFields = map[string]updateField{
	"gender":   enumField("athlete.gender", "male", "female", "other"),
	"age":      intField("athlete.age", 0, 150),
	"country":  stringField("athlete.country"),
	"sport":    stringField("athlete.sport"),
	"position": stringField("athlete.position"),
}

var profileProfessionalFields = map[string]updateField{
	"specialization":    stringField("professional.specialization"),
	"licenseNumber":     stringField("professional.license_number"),
	"yearsOfExperience": intField("professional.years_of_experience", 0, 100),
}

// UserService implements own-profile reads and whitelisted partial updates.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile merges only the provided fields. Unknown top-level keys fail
// the whole update with ErrInvalidUpdate rather than being silently dropped.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	variant := profileProfessionalFields
	if user.Role == domain.RoleAthlete {
		variant = profileAthleteFields
	}

	fields, err := mapUpdateFields(updates, profileCommonFields, variant)
	if err != nil {
		return nil, err
	}

	return s.users.Update(ctx, userID, fields)
}
