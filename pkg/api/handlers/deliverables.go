package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/luminamkt/agencyhub/pkg/api/errors"
	"github.com/luminamkt/agencyhub/pkg/deliverables"
	"github.com/luminamkt/agencyhub/pkg/models"
)

// DeliverableHandler handles deliverable endpoints
type DeliverableHandler struct {
	service   *deliverables.Service
	validator *validator.Validate
}

// NewDeliverableHandler creates a new deliverable handler
func NewDeliverableHandler(service *deliverables.Service) *DeliverableHandler {
	return &DeliverableHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create godoc
// @Summary Create deliverable
// @Tags Deliverables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.CreateDeliverableRequest true "Deliverable"
// @Success 201 {object} models.Deliverable "Created deliverable"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Router /deliverables [post]
func (h *DeliverableHandler) Create(c echo.Context) error {
	var req models.CreateDeliverableRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	d, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusCreated, d)
}

// List godoc
// @Summary List deliverables
// @Description Lists deliverables, optionally filtered to one client via ?clientId=
// @Tags Deliverables
// @Produce json
// @Security BearerAuth
// @Param clientId query string false "Filter by client"
// @Success 200 {array} models.Deliverable "Deliverables"
// @Router /deliverables [get]
func (h *DeliverableHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context(), c.QueryParam("clientId"))
	if err != nil {
		// Locals are still returned; surface the remote failure alongside them
		return c.JSON(http.StatusOK, map[string]any{
			"data":  list,
			"error": "remote store unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"data": list})
}

// Get godoc
// @Summary Get deliverable by ID
// @Tags Deliverables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Success 200 {object} models.Deliverable "Deliverable"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /deliverables/{id} [get]
func (h *DeliverableHandler) Get(c echo.Context) error {
	d, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "deliverable")
		}
		return errors.RemoteError(c, err)
	}

	return c.JSON(http.StatusOK, d)
}

// UpdateStatus godoc
// @Summary Update deliverable status
// @Description Transition a deliverable's status, optionally appending one feedback entry
// @Tags Deliverables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Param body body models.UpdateDeliverableStatusRequest true "New status"
// @Success 200 {object} models.Deliverable "Updated deliverable"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /deliverables/{id}/status [patch]
func (h *DeliverableHandler) UpdateStatus(c echo.Context) error {
	var req models.UpdateDeliverableStatusRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	d, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "deliverable")
		}
		return errors.RemoteError(c, err)
	}

	return c.JSON(http.StatusOK, d)
}

// Delete godoc
// @Summary Delete deliverable
// @Tags Deliverables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deliverable ID"
// @Success 200 {object} models.SuccessResponse "Deleted"
// @Router /deliverables/{id} [delete]
func (h *DeliverableHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "deliverable")
		}
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Deliverable deleted successfully",
	})
}
