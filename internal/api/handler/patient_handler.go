package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vitaltrack/health-system/internal/core/ports"
)

// PatientHandler handles professional-owned athlete management. All routes
// sit behind Auth + RequireRole(professional); ownership scoping happens in
// the service.
type PatientHandler struct {
	patientService ports.PatientService
}

func NewPatientHandler(patientService ports.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

type createPatientRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
	Age      int    `json:"age" validate:"gte=0"`
	Country  string `json:"country"`
	Sport    string `json:"sport"`
	Position string `json:"position"`
}

type patientListResponse struct {
	Data       []userResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// Create handles POST /v1/users/patients: enrolls a new athlete owned by
// the calling professional.
//
// @Summary      Create a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Patient details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /v1/users/patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patient, err := h.patientService.Create(c.Request().Context(), caller.ID, ports.CreatePatientInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Gender:   req.Gender,
		Age:      req.Age,
		Country:  req.Country,
		Sport:    req.Sport,
		Position: req.Position,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(patient))
}

// List handles GET /v1/users/patients.
//
// @Summary      List own patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "1-based page"
// @Param        limit  query     int  false  "page size (max 100)"
// @Success      200    {object}  patientListResponse
// @Router       /v1/users/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	list, err := h.patientService.List(c.Request().Context(), caller.ID, page, limit)
	if err != nil {
		return err
	}

	items := make([]userResponse, len(list.Items))
	for i, u := range list.Items {
		items[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, patientListResponse{
		Data:       items,
		Pagination: toPaginationResponse(list.Pagination),
	})
}

// Get handles GET /v1/users/patients/:id. Another professional's patient is
// a 404, never a 403.
//
// @Summary      Get an owned patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Patient id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]any
// @Router       /v1/users/patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	patient, err := h.patientService.Get(c.Request().Context(), caller.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(patient))
}

// Update handles PUT /v1/users/patients/:id: partial merge with wholesale
// rejection of unknown fields.
//
// @Summary      Update an owned patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Patient id"
// @Param        body  body      map[string]any  true  "Whitelisted fields to merge"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /v1/users/patients/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if err := c.Bind(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patient, err := h.patientService.Update(c.Request().Context(), caller.ID, c.Param("id"), updates)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(patient))
}

// Delete handles DELETE /v1/users/patients/:id: cascades the patient's
// measurement records, leaves reports in place.
//
// @Summary      Delete an owned patient
// @Tags         patients
// @Security     BearerAuth
// @Param        id  path  string  true  "Patient id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Router       /v1/users/patients/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.patientService.Delete(c.Request().Context(), caller.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
