package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/luminamkt/agencyhub/pkg/api/errors"
	"github.com/luminamkt/agencyhub/pkg/deliverables"
	"github.com/luminamkt/agencyhub/pkg/models"
)

// PortalHandler handles the client-facing portal endpoints. All routes
// are authenticated by portal token; the resolved client is read from
// the request context.
type PortalHandler struct {
	deliverables *deliverables.Service
	validator    *validator.Validate
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(deliverableService *deliverables.Service) *PortalHandler {
	return &PortalHandler{
		deliverables: deliverableService,
		validator:    validator.New(),
	}
}

// PortalFeedbackRequest is a client's verdict on one deliverable
type PortalFeedbackRequest struct {
	Action  string `json:"action" validate:"required,oneof=approve request_changes"`
	Comment string `json:"comment,omitempty"`
	Author  string `json:"author,omitempty"`
}

// Me godoc
// @Summary Portal session
// @Description Return the client resolved from the portal token
// @Tags Portal
// @Produce json
// @Success 200 {object} models.Client "Client"
// @Failure 401 {object} models.ErrorResponse "Invalid token"
// @Router /portal/me [get]
func (h *PortalHandler) Me(c echo.Context) error {
	client, ok := c.Get("portal_client").(*models.Client)
	if !ok {
		return errors.UnauthorizedError(c, "no portal session")
	}

	// The token authenticates the caller; never echo it back
	view := *client
	view.Token = ""

	return c.JSON(http.StatusOK, view)
}

// Deliverables godoc
// @Summary Portal deliverables
// @Description List the authenticated client's deliverables
// @Tags Portal
// @Produce json
// @Success 200 {array} models.Deliverable "Deliverables"
// @Failure 401 {object} models.ErrorResponse "Invalid token"
// @Router /portal/deliverables [get]
func (h *PortalHandler) Deliverables(c echo.Context) error {
	client, ok := c.Get("portal_client").(*models.Client)
	if !ok {
		return errors.UnauthorizedError(c, "no portal session")
	}

	list, err := h.deliverables.List(c.Request().Context(), client.ID)
	if err != nil {
		// Locally pending deliverables are still shown
		return c.JSON(http.StatusOK, map[string]any{
			"data":  list,
			"error": "remote store unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"data": list})
}

// Feedback godoc
// @Summary Submit deliverable feedback
// @Description Approve a deliverable or request changes with a comment
// @Tags Portal
// @Accept json
// @Produce json
// @Param id path string true "Deliverable ID"
// @Param body body PortalFeedbackRequest true "Verdict"
// @Success 200 {object} models.Deliverable "Updated deliverable"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /portal/deliverables/{id}/feedback [post]
func (h *PortalHandler) Feedback(c echo.Context) error {
	client, ok := c.Get("portal_client").(*models.Client)
	if !ok {
		return errors.UnauthorizedError(c, "no portal session")
	}

	var req PortalFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	id := c.Param("id")

	// The deliverable must belong to the authenticated client
	d, err := h.deliverables.Get(c.Request().Context(), id)
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "deliverable")
		}
		return errors.RemoteError(c, err)
	}
	if d.ClientID != "" && d.ClientID != client.ID {
		return errors.NotFoundError(c, "deliverable")
	}

	status := models.DeliverableStatusApproved
	if req.Action == "request_changes" {
		status = models.DeliverableStatusChangesRequested
	}

	update := models.UpdateDeliverableStatusRequest{Status: status}
	if req.Comment != "" {
		author := req.Author
		if author == "" {
			author = client.Name
		}
		update.Feedback = &models.Feedback{
			Comment: req.Comment,
			Author:  author,
		}
	}

	updated, err := h.deliverables.UpdateStatus(c.Request().Context(), id, update)
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "deliverable")
		}
		return errors.RemoteError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}
