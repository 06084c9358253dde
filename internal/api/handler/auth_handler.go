package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/api/metrics"
	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

// AuthHandler handles registration, login, and token refresh.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type athleteRegistration struct {
	Gender         string `json:"gender" validate:"required,oneof=male female other"`
	Age            int    `json:"age" validate:"gte=0"`
	Country        string `json:"country"`
	Sport          string `json:"sport"`
	Position       string `json:"position"`
	ProfessionalID string `json:"professionalId" validate:"required"`
}

type professionalRegistration struct {
	Specialization    string `json:"specialization"`
	LicenseNumber     string `json:"licenseNumber" validate:"required"`
	YearsOfExperience int    `json:"yearsOfExperience" validate:"gte=0"`
}

type registerRequest struct {
	Name         string                    `json:"name" validate:"required"`
	Email        string                    `json:"email" validate:"required,email"`
	Password     string                    `json:"password" validate:"required,min=8"`
	Role         string                    `json:"role" validate:"required,oneof=athlete professional"`
	Athlete      *athleteRegistration      `json:"athlete,omitempty"`
	Professional *professionalRegistration `json:"professional,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User   userResponse      `json:"user"`
	Tokens tokenPairResponse `json:"tokens"`
}

// Register creates a new athlete or professional account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details; athlete/professional block per role"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	if req.Athlete != nil {
		input.Athlete = &ports.AthleteInput{
			Gender:         req.Athlete.Gender,
			Age:            req.Athlete.Age,
			Country:        req.Athlete.Country,
			Sport:          req.Athlete.Sport,
			Position:       req.Athlete.Position,
			ProfessionalID: req.Athlete.ProfessionalID,
		}
	}
	if req.Professional != nil {
		input.Professional = &ports.ProfessionalInput{
			Specialization:    req.Professional.Specialization,
			LicenseNumber:     req.Professional.LicenseNumber,
			YearsOfExperience: req.Professional.YearsOfExperience,
		}
	}

	user, pair, err := h.authService.Register(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(user.Role).Inc()
	return c.JSON(http.StatusCreated, authResponse{
		User:   toUserResponse(user),
		Tokens: tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	})
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]any
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, pair, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{
		User:   toUserResponse(user),
		Tokens: tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	})
}

// Refresh exchanges a refresh token for a fresh pair.
//
// @Summary      Refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  tokenPairResponse
// @Failure      401   {object}  map[string]any
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.RefreshToken == "" {
		return domain.ErrInvalidToken
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
