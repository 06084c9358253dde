package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

// IntegrationService implements the stubbed wearable connections: no OAuth
// handshake, just per-user flags.
type IntegrationService struct {
	repo   ports.IntegrationRepository
	logger zerolog.Logger
}

func NewIntegrationService(repo ports.IntegrationRepository, logger zerolog.Logger) *IntegrationService {
	return &IntegrationService{repo: repo, logger: logger}
}

func (s *IntegrationService) Connect(ctx context.Context, userID, provider string) (*domain.IntegrationStatus, error) {
	// URL paths spell providers with hyphens (google-fit), documents with
	// underscores (google_fit). Accept both.
	provider = strings.ReplaceAll(provider, "-", "_")
	if !domain.ValidSource(provider) {
		return nil, domain.NewValidationError("provider", "provider must be one of: garmin google_fit apple_health")
	}

	status, err := s.repo.Connect(ctx, userID, provider, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("provider", provider).Msg("integration connected")
	return status, nil
}

func (s *IntegrationService) Status(ctx context.Context, userID string) (*domain.IntegrationStatus, error) {
	return s.repo.Status(ctx, userID)
}
