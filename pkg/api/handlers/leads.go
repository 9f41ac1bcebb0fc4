package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/luminamkt/agencyhub/pkg/api/errors"
	"github.com/luminamkt/agencyhub/pkg/leads"
	"github.com/luminamkt/agencyhub/pkg/models"
)

// LeadHandler handles lead pipeline endpoints
type LeadHandler struct {
	service   *leads.Service
	validator *validator.Validate
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(service *leads.Service) *LeadHandler {
	return &LeadHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create godoc
// @Summary Create lead
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.CreateLeadRequest true "Lead data"
// @Success 201 {object} models.Lead "Created lead"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Router /leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	var req models.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	lead, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		var invalid *leads.ErrInvalidStatus
		if stderrors.As(err, &invalid) {
			return errors.ValidationError(c, err)
		}
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusCreated, lead)
}

// List godoc
// @Summary List pipeline leads
// @Description Returns the pipeline board. A remote failure is reported in the error field alongside locally pending leads.
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.LeadListResponse "Pipeline leads"
// @Router /leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	resp, err := h.service.List(c.Request().Context())
	if err != nil {
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Update lead
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param body body models.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} models.Lead "Updated lead"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /leads/{id} [put]
func (h *LeadHandler) Update(c echo.Context) error {
	var req models.UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	lead, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		var invalid *leads.ErrInvalidStatus
		if stderrors.As(err, &invalid) {
			return errors.ValidationError(c, err)
		}
		if isNotFound(err) {
			return errors.NotFoundError(c, "lead")
		}
		return errors.RemoteError(c, err)
	}

	return c.JSON(http.StatusOK, lead)
}

// UpdateStatus godoc
// @Summary Move lead in the pipeline
// @Description Update only the lead's status, accepting either a status value or a board column ID
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param body body models.UpdateLeadRequest true "status or columnId"
// @Success 200 {object} models.Lead "Updated lead"
// @Failure 400 {object} models.ErrorResponse "Unknown status or column"
// @Router /leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status   *string `json:"status,omitempty"`
		ColumnID *string `json:"columnId,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if req.Status == nil && req.ColumnID == nil {
		return errors.ValidationError(c, stderrors.New("status or columnId is required"))
	}

	lead, err := h.service.Update(c.Request().Context(), c.Param("id"), models.UpdateLeadRequest{
		Status:   req.Status,
		ColumnID: req.ColumnID,
	})
	if err != nil {
		var invalid *leads.ErrInvalidStatus
		if stderrors.As(err, &invalid) {
			return errors.ValidationError(c, err)
		}
		if isNotFound(err) {
			return errors.NotFoundError(c, "lead")
		}
		return errors.RemoteError(c, err)
	}

	return c.JSON(http.StatusOK, lead)
}

// Delete godoc
// @Summary Delete lead
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} models.SuccessResponse "Deleted"
// @Router /leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "lead")
		}
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Lead deleted successfully",
	})
}
