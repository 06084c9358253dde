package ports

import (
	"context"

	"github.com/vitaltrack/health-system/internal/core/domain"
)

// TokenClaims is the identity a verified token proves.
// Role is only present on access tokens.
type TokenClaims struct {
	UserID string
	Role   string
}

// TokenService issues and verifies the two token classes. Access and refresh
// tokens are signed with distinct secrets so a leaked access secret cannot
// mint long-lived refresh tokens.
type TokenService interface {
	IssueAccessToken(userID, role string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyAccess(token string) (*TokenClaims, error)
	VerifyRefresh(token string) (*TokenClaims, error)
}

// TokenPair is issued on registration, login, and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AthleteInput carries the athlete-variant registration fields.
type AthleteInput struct {
	Gender         string
	Age            int
	Country        string
	Sport          string
	Position       string
	ProfessionalID string
}

// ProfessionalInput carries the professional-variant registration fields.
type ProfessionalInput struct {
	Specialization    string
	LicenseNumber     string
	YearsOfExperience int
}

// RegisterInput carries all registration data. Exactly one of
// Athlete/Professional must be set, matching Role.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Role         string
	Settings     *domain.Settings
	Athlete      *AthleteInput
	Professional *ProfessionalInput
}

// AuthService covers registration, credential login, and token refresh.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	// Refresh verifies the refresh token, confirms the user still exists, and
	// issues a fresh pair. The old refresh token stays valid until natural
	// expiry: tokens are stateless and never revoked.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
