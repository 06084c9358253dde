package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/core/ports"
)

// IntegrationHandler exposes the stubbed wearable-integration endpoints.
type IntegrationHandler struct {
	service ports.IntegrationService
}

func NewIntegrationHandler(service ports.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{service: service}
}

// Connect handles POST /v1/integrations/:provider/connect.
//
// @Summary      Mark a wearable provider as connected
// @Tags         integrations
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string  true  "garmin, google_fit or apple_health"
// @Success      200       {object}  domain.IntegrationStatus
// @Failure      400       {object}  map[string]any
// @Router       /v1/integrations/{provider}/connect [post]
func (h *IntegrationHandler) Connect(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	status, err := h.service.Connect(c.Request().Context(), caller.ID, c.Param("provider"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

// Status handles GET /v1/integrations/status.
func (h *IntegrationHandler) Status(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	status, err := h.service.Status(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}
