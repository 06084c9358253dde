package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/api/metrics"
	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

// AnthropometricHandler handles body-composition records.
type AnthropometricHandler struct {
	service ports.AnthropometricService
}

func NewAnthropometricHandler(service ports.AnthropometricService) *AnthropometricHandler {
	return &AnthropometricHandler{service: service}
}

type createAnthropometricRequest struct {
	UserID       string             `json:"userId" validate:"required"`
	WeightKg     float64            `json:"weightKg" validate:"required,gt=0"`
	HeightCm     float64            `json:"heightCm" validate:"gt=0"`
	BodyFatPct   float64            `json:"bodyFatPct" validate:"gte=0,lte=100"`
	Measurements map[string]float64 `json:"measurements"`
	RecordedAt   time.Time          `json:"recordedAt"`
	Notes        string             `json:"notes"`
}

type anthropometricListResponse struct {
	Data       []*domain.AnthropometricRecord `json:"data"`
	Pagination paginationResponse             `json:"pagination"`
}

// Create handles POST /v1/measurements/anthropometric. Lean body mass is
// derived server-side from weight and body fat.
//
// @Summary      Record an anthropometric session
// @Tags         anthropometric
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAnthropometricRequest  true  "Measurement session for an owned athlete"
// @Success      201   {object}  domain.AnthropometricRecord
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/measurements/anthropometric [post]
func (h *AnthropometricHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createAnthropometricRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rec, err := h.service.Create(c.Request().Context(), caller.ID, ports.CreateAnthropometricInput{
		UserID:       req.UserID,
		WeightKg:     req.WeightKg,
		HeightCm:     req.HeightCm,
		BodyFatPct:   req.BodyFatPct,
		Measurements: req.Measurements,
		RecordedAt:   req.RecordedAt,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.MeasurementsCreatedTotal.WithLabelValues("anthropometric").Inc()
	return c.JSON(http.StatusCreated, rec)
}

// List handles GET /v1/measurements/anthropometric.
func (h *AnthropometricHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), caller, queryListFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, anthropometricListResponse{
		Data:       list.Items,
		Pagination: toPaginationResponse(list.Pagination),
	})
}

// Get handles GET /v1/measurements/anthropometric/:id.
func (h *AnthropometricHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	rec, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Update handles PUT /v1/measurements/anthropometric/:id. Touching weight or
// body fat recomputes the derived lean body mass.
func (h *AnthropometricHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if err := c.Bind(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	rec, err := h.service.Update(c.Request().Context(), caller.ID, c.Param("id"), updates)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /v1/measurements/anthropometric/:id.
func (h *AnthropometricHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
