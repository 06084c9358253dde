package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/api/metrics"
	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

// HealthMetricHandler handles self-reported health metrics.
type HealthMetricHandler struct {
	service ports.HealthService
}

func NewHealthMetricHandler(service ports.HealthService) *HealthMetricHandler {
	return &HealthMetricHandler{service: service}
}

type createHealthRequest struct {
	Source     string    `json:"source" validate:"required,oneof=garmin google_fit apple_health"`
	Type       string    `json:"type" validate:"required"`
	Value      float64   `json:"value" validate:"required"`
	Unit       string    `json:"unit" validate:"required"`
	RecordedAt time.Time `json:"recordedAt"`
	Notes      string    `json:"notes"`
}

type healthListResponse struct {
	Data       []*domain.HealthMetric `json:"data"`
	Pagination paginationResponse     `json:"pagination"`
}

// Create handles POST /v1/health.
//
// @Summary      Record a health metric
// @Tags         health
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createHealthRequest  true  "Reading"
// @Success      201   {object}  domain.HealthMetric
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /v1/health [post]
func (h *HealthMetricHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createHealthRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.service.Create(c.Request().Context(), caller, ports.CreateHealthInput{
		Source:     req.Source,
		Type:       req.Type,
		Value:      req.Value,
		Unit:       req.Unit,
		RecordedAt: req.RecordedAt,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.MeasurementsCreatedTotal.WithLabelValues("health").Inc()
	return c.JSON(http.StatusCreated, m)
}

// List handles GET /v1/health with page/limit/from/to/source filters.
//
// @Summary      List health metrics
// @Tags         health
// @Produce      json
// @Security     BearerAuth
// @Param        source  query     string  false  "Facet: garmin, google_fit, apple_health"
// @Param        userId  query     string  false  "Target athlete (professionals only)"
// @Success      200     {object}  healthListResponse
// @Router       /v1/health [get]
func (h *HealthMetricHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), caller, queryListFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, healthListResponse{
		Data:       list.Items,
		Pagination: toPaginationResponse(list.Pagination),
	})
}

// Get handles GET /v1/health/:id.
func (h *HealthMetricHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	m, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Update handles PUT /v1/health/:id: partial merge.
func (h *HealthMetricHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if err := c.Bind(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	m, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), updates)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /v1/health/:id.
func (h *HealthMetricHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
