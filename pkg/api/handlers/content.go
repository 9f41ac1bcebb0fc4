package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/luminamkt/agencyhub/pkg/api/errors"
	"github.com/luminamkt/agencyhub/pkg/contentgrid"
	"github.com/luminamkt/agencyhub/pkg/models"
)

// ContentHandler handles content grid endpoints
type ContentHandler struct {
	service   *contentgrid.Service
	validator *validator.Validate
}

// NewContentHandler creates a new content grid handler
func NewContentHandler(service *contentgrid.Service) *ContentHandler {
	return &ContentHandler{
		service:   service,
		validator: validator.New(),
	}
}

// List godoc
// @Summary List a client's content grid
// @Description Returns planned content for a client. When the remote store is unreachable the response carries degraded=true and only locally pending items.
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} models.ContentListResponse "Content grid"
// @Router /clients/{id}/content [get]
func (h *ContentHandler) List(c echo.Context) error {
	resp, err := h.service.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Create content grid item
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param body body models.CreateContentRequest true "Content item"
// @Success 201 {object} models.ContentGridItem "Created item"
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Router /clients/{id}/content [post]
func (h *ContentHandler) Create(c echo.Context) error {
	var req models.CreateContentRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	item, err := h.service.Create(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary Update content grid item
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param itemId path string true "Content item ID"
// @Param body body models.UpdateContentRequest true "Fields to update"
// @Success 200 {object} models.ContentGridItem "Updated item"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /clients/{id}/content/{itemId} [put]
func (h *ContentHandler) Update(c echo.Context) error {
	var req models.UpdateContentRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	item, err := h.service.Update(c.Request().Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "content item")
		}
		return errors.RemoteError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete content grid item
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param itemId path string true "Content item ID"
// @Success 200 {object} models.SuccessResponse "Deleted"
// @Router /clients/{id}/content/{itemId} [delete]
func (h *ContentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("itemId")); err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "content item")
		}
		return errors.StoreError(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Content item deleted successfully",
	})
}

// Resync godoc
// @Summary Resync content grid item
// @Description Retry the remote create for a locally pending content item
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param itemId path string true "Content item ID"
// @Success 200 {object} models.ContentGridItem "Resynced item"
// @Failure 502 {object} models.ErrorResponse "Remote still unavailable"
// @Router /clients/{id}/content/{itemId}/resync [post]
func (h *ContentHandler) Resync(c echo.Context) error {
	item, err := h.service.Resync(c.Request().Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "content item")
		}
		return errors.RemoteError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}
