package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/afiya/health-system/internal/api/metrics"
	"github.com/afiya/health-system/internal/core/domain"
	"github.com/afiya/health-system/internal/core/ports"
)

// ProgramHandler handles HTTP requests for health-program CRUD.
type ProgramHandler struct {
	service ports.ProgramService
}

func NewProgramHandler(service ports.ProgramService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

// pathID parses the :id path segment. A non-numeric id cannot name any
// record, so callers treat a false return as not-found.
func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// List handles GET /programs.
//
// @Summary      List health programs
// @Tags         programs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   programResponse
// @Failure      401  {object}  map[string]string
// @Router       /programs [get]
func (h *ProgramHandler) List(c echo.Context) error {
	programs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProgramListResponse(programs))
}

// Get handles GET /programs/:id.
//
// @Summary      Get a program
// @Tags         programs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Program ID"
// @Success      200  {object}  programResponse
// @Failure      404  {object}  map[string]string
// @Router       /programs/{id} [get]
func (h *ProgramHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return domain.ErrProgramNotFound
	}
	program, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProgramResponse(program))
}

// Create handles POST /programs.
//
// @Summary      Create a health program
// @Tags         programs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      programRequest  true  "Program"
// @Success      201   {object}  programResponse
// @Failure      400   {object}  map[string]string
// @Router       /programs [post]
func (h *ProgramHandler) Create(c echo.Context) error {
	var req programRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	program, err := h.service.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}

	metrics.ProgramsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toProgramResponse(program))
}

// Update handles PUT /programs/:id, a full replace of the writable fields.
//
// @Summary      Rename a program
// @Tags         programs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Program ID"
// @Param        body  body      programRequest  true  "Program"
// @Success      200   {object}  programResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /programs/{id} [put]
func (h *ProgramHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return domain.ErrProgramNotFound
	}

	var req programRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	program, err := h.service.Update(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProgramResponse(program))
}

// Patch handles PATCH /programs/:id, where only supplied fields change.
//
// @Summary      Partially update a program
// @Tags         programs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Program ID"
// @Param        body  body      programPatchRequest  true  "Fields to update"
// @Success      200   {object}  programResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /programs/{id} [patch]
func (h *ProgramHandler) Patch(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return domain.ErrProgramNotFound
	}

	var req programPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	program, err := h.service.Patch(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProgramResponse(program))
}

// Delete handles DELETE /programs/:id. The service detaches the program
// from every enrolled client before the record goes away.
//
// @Summary      Delete a program
// @Tags         programs
// @Security     BearerAuth
// @Param        id  path  int  true  "Program ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /programs/{id} [delete]
func (h *ProgramHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return domain.ErrProgramNotFound
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
