package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/luminamkt/agencyhub/pkg/api/errors"
	"github.com/luminamkt/agencyhub/pkg/clients"
	"github.com/luminamkt/agencyhub/pkg/models"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	service   *clients.Service
	validator *validator.Validate
}

// NewClientHandler creates a new client handler
func NewClientHandler(service *clients.Service) *ClientHandler {
	return &ClientHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create godoc
// @Summary Create client
// @Description Register a new agency client, mirroring it to the remote Customer doctype
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.CreateClientRequest true "Client data"
// @Success 201 {object} models.Client "Created client"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Router /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req models.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	client, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusCreated, client)
}

// List godoc
// @Summary List clients
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Client "Clients"
// @Router /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary Get client by ID
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} models.Client "Client"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "client")
		}
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, client)
}

// Update godoc
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param body body models.UpdateClientRequest true "Fields to update"
// @Success 200 {object} models.Client "Updated client"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req models.UpdateClientRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	client, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "client")
		}
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, client)
}

// Delete godoc
// @Summary Delete client
// @Description Remove a client and its remote Customer document. Admin only.
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} models.SuccessResponse "Deleted"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "client")
		}
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Client deleted successfully",
	})
}

// Resync godoc
// @Summary Resync client
// @Description Retry the remote create for a client stuck on a local sentinel ID. Admin only.
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} models.Client "Resynced client"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Failure 502 {object} models.ErrorResponse "Remote still unavailable"
// @Router /clients/{id}/resync [post]
func (h *ClientHandler) Resync(c echo.Context) error {
	client, err := h.service.Resync(c.Request().Context(), c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "client")
		}
		return errors.RemoteError(c, err)
	}

	return c.JSON(http.StatusOK, client)
}
