package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

// AuthService implements registration, login, and token refresh.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates an athlete or professional account. Athlete registration
// requires a ProfessionalID referencing an existing professional; this link
// is validated here only, not on later mutations.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, *ports.TokenPair, error) {
	if err := validateRegister(input); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:      input.Name,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Role:      input.Role,
		Settings:  domain.DefaultSettings(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Settings != nil {
		user.Settings = *input.Settings
	}

	switch input.Role {
	case domain.RoleAthlete:
		owner, err := s.users.FindByID(ctx, input.Athlete.ProfessionalID)
		if err != nil || !owner.IsProfessional() {
			return nil, nil, domain.NewValidationError("professionalId", "must reference an existing professional")
		}
		user.Athlete = &domain.AthleteProfile{
			Gender:         input.Athlete.Gender,
			Age:            input.Athlete.Age,
			Country:        input.Athlete.Country,
			Sport:          input.Athlete.Sport,
			Position:       input.Athlete.Position,
			ProfessionalID: owner.ID,
		}
	case domain.RoleProfessional:
		user.Professional = &domain.ProfessionalProfile{
			Specialization:    input.Professional.Specialization,
			LicenseNumber:     input.Professional.LicenseNumber,
			YearsOfExperience: input.Professional.YearsOfExperience,
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = string(hash)

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if created.Role == domain.RoleAthlete {
		// Denormalized backlink; the athlete's professional_id stays authoritative.
		if err := s.users.AddPatient(ctx, created.Athlete.ProfessionalID, created.ID); err != nil {
			s.logger.Error().Err(err).Str("user_id", created.ID).Msg("failed to backlink patient")
		}
	}

	pair, err := s.issuePair(created)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, pair, nil
}

// Login verifies credentials, stamps last_login, and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to stamp last login")
	}
	user.LastLoginAt = &now

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The old refresh
// token is not invalidated: there is no revocation store, so it remains
// usable until its natural expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil || !user.Active {
		return nil, domain.ErrInvalidToken
	}

	return s.issuePair(user)
}

func (s *AuthService) issuePair(user *domain.User) (*ports.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func validateRegister(input ports.RegisterInput) error {
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

	switch input.Role {
	case domain.RoleAthlete:
		if input.Athlete == nil {
			fields = append(fields, domain.FieldError{Field: "athlete", Message: "athlete profile is required"})
			break
		}
		if input.Athlete.ProfessionalID == "" {
			fields = append(fields, domain.FieldError{Field: "professionalId", Message: "professionalId is required"})
		}
		switch input.Athlete.Gender {
		case "male", "female", "other":
		default:
			fields = append(fields, domain.FieldError{Field: "gender", Message: "gender must be one of: male female other"})
		}
		if input.Athlete.Age < 0 {
			fields = append(fields, domain.FieldError{Field: "age", Message: "age must not be negative"})
		}
	case domain.RoleProfessional:
		if input.Professional == nil {
			fields = append(fields, domain.FieldError{Field: "professional", Message: "professional profile is required"})
			break
		}
		if input.Professional.LicenseNumber == "" {
			fields = append(fields, domain.FieldError{Field: "licenseNumber", Message: "licenseNumber is required"})
		}
		if input.Professional.YearsOfExperience < 0 {
			fields = append(fields, domain.FieldError{Field: "yearsOfExperience", Message: "yearsOfExperience must not be negative"})
		}
	default:
		fields = append(fields, domain.FieldError{Field: "role", Message: "role must be one of: athlete professional"})
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
