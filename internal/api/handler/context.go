package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/core/ports"
)

// ctxCaller extracts the identity injected by the Auth middleware. A missing
// claim means the middleware did not run; reject rather than proceed
// unscoped.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Caller{ID: userID, Role: role}, nil
}

// queryListFilter parses the shared list query parameters: page, limit, date
// range, and the kind facets. Ownership fields are set by the services, not
// here.
func queryListFilter(c echo.Context) ports.ListFilter {
	f := ports.ListFilter{
		UserID: c.QueryParam("userId"),
		Source: c.QueryParam("source"),
		Metric: c.QueryParam("metric"),
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if from, err := time.Parse(time.RFC3339, c.QueryParam("from")); err == nil {
		f.DateFrom = from
	}
	if to, err := time.Parse(time.RFC3339, c.QueryParam("to")); err == nil {
		f.DateTo = to
	}
	return f
}
