package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/afiya/health-system/internal/api/metrics"
	"github.com/afiya/health-system/internal/core/domain"
	"github.com/afiya/health-system/internal/core/ports"
)

// ClientHandler handles HTTP requests for client CRUD, search, and
// enrollment.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List handles GET /clients. Every client is returned with its enrolled
// programs resolved to id + name.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   clientResponse
// @Failure      401  {object}  map[string]string
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientListResponse(clients))
}

// Get handles GET /clients/:id.
//
// @Summary      Get a client profile
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Client ID"
// @Success      200  {object}  clientResponse
// @Failure      404  {object}  map[string]string
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return domain.ErrClientNotFound
	}
	client, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Create handles POST /clients.
//
// @Summary      Register a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  map[string]string
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	client, err := h.service.Create(c.Request().Context(), ports.CreateClientInput{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		return err
	}

	metrics.ClientsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toClientResponse(client))
}

// Update handles PUT /clients/:id, a full replace of the writable fields.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Client ID"
// @Param        body  body      createClientRequest  true  "Client"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return domain.ErrClientNotFound
	}

	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	client, err := h.service.Update(c.Request().Context(), id, ports.CreateClientInput{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Patch handles PATCH /clients/:id, where only supplied fields change.
//
// @Summary      Partially update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Client ID"
// @Param        body  body      patchClientRequest  true  "Fields to update"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /clients/{id} [patch]
func (h *ClientHandler) Patch(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return domain.ErrClientNotFound
	}

	var req patchClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	client, err := h.service.Patch(c.Request().Context(), id, ports.ClientUpdate{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Delete handles DELETE /clients/:id. Membership entries go with the
// client; programs are untouched.
//
// @Summary      Delete a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id  path  int  true  "Client ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return domain.ErrClientNotFound
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Search handles GET /clients/search?q=. The q parameter must be present:
// absent is a request error, while an empty value matches every client.
//
// @Summary      Search clients by name
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Name substring (case-insensitive); empty matches all"
// @Success      200  {array}   clientResponse
// @Failure      400  {object}  map[string]string
// @Router       /clients/search [get]
func (h *ClientHandler) Search(c echo.Context) error {
	params := c.QueryParams()
	if _, present := params["q"]; !present {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"detail": "Query parameter 'q' is required.",
		})
	}
	q := params.Get("q")

	clients, err := h.service.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}

	kind := "filtered"
	if q == "" {
		kind = "empty"
	}
	metrics.SearchesTotal.WithLabelValues(kind).Inc()

	return c.JSON(http.StatusOK, toClientListResponse(clients))
}

// Enroll handles POST /clients/:id/enroll. An unknown client id is 404; a
// missing or unknown program_id is a 400 validation failure on program_id.
//
// @Summary      Enroll a client in a program
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Client ID"
// @Param        body  body      enrollRequest  true  "Program to enroll in"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /clients/{id}/enroll [post]
func (h *ClientHandler) Enroll(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return domain.ErrClientNotFound
	}

	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	// The service checks the client before the program_id so an unknown
	// client fails as not-found even when the payload is empty.
	client, added, err := h.service.Enroll(c.Request().Context(), id, req.ProgramID)
	if err != nil {
		return err
	}

	result := "added"
	if !added {
		result = "duplicate"
	}
	metrics.EnrollmentsTotal.WithLabelValues(result).Inc()

	return c.JSON(http.StatusOK, toClientResponse(client))
}
