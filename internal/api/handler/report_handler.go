package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/api/metrics"
	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

// ReportHandler handles report generation, CRUD, and sharing.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type createReportRequest struct {
	UserID     string    `json:"userId"`
	Title      string    `json:"title" validate:"required"`
	Type       string    `json:"type" validate:"required,oneof=health performance anthropometric combined"`
	PeriodFrom time.Time `json:"periodFrom"`
	PeriodTo   time.Time `json:"periodTo"`
}

type reportListResponse struct {
	Data       []*domain.Report   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// Create handles POST /v1/reports: assembles the content snapshot from the
// measurement records in the period.
//
// @Summary      Generate a report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReportRequest  true  "Report parameters"
// @Success      201   {object}  domain.Report
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.service.Create(c.Request().Context(), caller, ports.CreateReportInput{
		UserID:     req.UserID,
		Title:      req.Title,
		Type:       domain.ReportType(req.Type),
		PeriodFrom: req.PeriodFrom,
		PeriodTo:   req.PeriodTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, report)
}

// List handles GET /v1/reports.
func (h *ReportHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), caller, queryListFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportListResponse{
		Data:       list.Items,
		Pagination: toPaginationResponse(list.Pagination),
	})
}

// Get handles GET /v1/reports/:id.
func (h *ReportHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	report, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// Update handles PUT /v1/reports/:id: partial merge, owning professional only.
func (h *ReportHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if err := c.Bind(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	report, err := h.service.Update(c.Request().Context(), caller.ID, c.Param("id"), updates)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// Delete handles DELETE /v1/reports/:id.
func (h *ReportHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Share handles POST /v1/reports/:id/share: assigns the access code on
// first share, idempotent afterwards.
//
// @Summary      Share a report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Report id"
// @Success      200  {object}  domain.Report
// @Failure      404  {object}  map[string]any
// @Router       /v1/reports/{id}/share [post]
func (h *ReportHandler) Share(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	report, err := h.service.Share(c.Request().Context(), caller.ID, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.ReportsSharedTotal.Inc()
	return c.JSON(http.StatusOK, report)
}

// Unshare handles POST /v1/reports/:id/unshare: hides the report from the
// public path; the access code is kept for a future re-share.
func (h *ReportHandler) Unshare(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	report, err := h.service.Unshare(c.Request().Context(), caller.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// GetShared handles GET /v1/reports/shared/:accessCode: the public,
// unauthenticated path.
//
// @Summary      Fetch a shared report by access code
// @Tags         reports
// @Produce      json
// @Param        accessCode  path      string  true  "Access code"
// @Success      200         {object}  domain.Report
// @Failure      404         {object}  map[string]any
// @Router       /v1/reports/shared/{accessCode} [get]
func (h *ReportHandler) GetShared(c echo.Context) error {
	report, err := h.service.GetShared(c.Request().Context(), c.Param("accessCode"))
	if err != nil {
		metrics.SharedReportViewsTotal.WithLabelValues("miss").Inc()
		return err
	}

	metrics.SharedReportViewsTotal.WithLabelValues("hit").Inc()
	return c.JSON(http.StatusOK, report)
}
