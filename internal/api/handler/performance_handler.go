package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/api/metrics"
	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

// PerformanceHandler handles professional-authored performance metrics.
// Writes are role-gated in the router; reads are open to both roles with
// ownership scoping in the service.
type PerformanceHandler struct {
	service ports.PerformanceService
}

func NewPerformanceHandler(service ports.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{service: service}
}

type createPerformanceRequest struct {
	UserID     string    `json:"userId" validate:"required"`
	Metric     string    `json:"metric" validate:"required"`
	Value      float64   `json:"value" validate:"required"`
	Unit       string    `json:"unit" validate:"required"`
	RecordedAt time.Time `json:"recordedAt"`
	Notes      string    `json:"notes"`
}

type performanceListResponse struct {
	Data       []*domain.PerformanceMetric `json:"data"`
	Pagination paginationResponse          `json:"pagination"`
}

// Create handles POST /v1/performance: stamps the authoring professional.
//
// @Summary      Record a performance metric
// @Tags         performance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPerformanceRequest  true  "Metric for an owned athlete"
// @Success      201   {object}  domain.PerformanceMetric
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/performance [post]
func (h *PerformanceHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createPerformanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := h.service.Create(c.Request().Context(), caller.ID, ports.CreatePerformanceInput{
		UserID:     req.UserID,
		Metric:     req.Metric,
		Value:      req.Value,
		Unit:       req.Unit,
		RecordedAt: req.RecordedAt,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.MeasurementsCreatedTotal.WithLabelValues("performance").Inc()
	return c.JSON(http.StatusCreated, m)
}

// List handles GET /v1/performance with page/limit/from/to/metric filters.
// An explicit userId narrows a professional's scope; it never widens it.
//
// @Summary      List performance metrics
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Param        metric  query     string  false  "Facet: metric name"
// @Param        userId  query     string  false  "Additional athlete filter"
// @Success      200     {object}  performanceListResponse
// @Router       /v1/performance [get]
func (h *PerformanceHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), caller, queryListFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, performanceListResponse{
		Data:       list.Items,
		Pagination: toPaginationResponse(list.Pagination),
	})
}

// Get handles GET /v1/performance/:id.
func (h *PerformanceHandler) Get(c echo.Context) error {
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

// Update handles PUT /v1/performance/:id: partial merge, owner only.
func (h *PerformanceHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if err := c.Bind(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	m, err := h.service.Update(c.Request().Context(), caller.ID, c.Param("id"), updates)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /v1/performance/:id.
func (h *PerformanceHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
