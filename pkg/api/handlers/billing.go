package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/luminamkt/agencyhub/pkg/api/errors"
	"github.com/luminamkt/agencyhub/pkg/billing"
	"github.com/luminamkt/agencyhub/pkg/clients"
	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/models"
)

// BillingHandler handles invoice and payment endpoints
type BillingHandler struct {
	service   *billing.Service
	clients   *clients.Service
	validator *validator.Validate
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(service *billing.Service, clientService *clients.Service) *BillingHandler {
	return &BillingHandler{
		service:   service,
		clients:   clientService,
		validator: validator.New(),
	}
}

// Summary godoc
// @Summary Client billing summary
// @Description Invoices and payments for one client, fetched from the remote store concurrently
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} models.BillingSummary "Billing summary"
// @Failure 404 {object} models.ErrorResponse "Client not found"
// @Failure 502 {object} models.ErrorResponse "Remote unavailable"
// @Router /clients/{id}/billing [get]
func (h *BillingHandler) Summary(c echo.Context) error {
	client, err := h.clients.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return errors.NotFoundError(c, "client")
		}
		return errors.StoreError(c, err)
	}

	// Billing is read-only against the remote store; a locally pending
	// client has no remote documents to query yet.
	if models.IsLocalID(client.ERPID) {
		return c.JSON(http.StatusOK, &models.BillingSummary{
			Invoices: []models.Invoice{},
			Payments: []models.Payment{},
			Error:    "client not yet synced to remote store",
		})
	}

	summary, err := h.service.Summary(c.Request().Context(), client.ERPID)
	if err != nil {
		if erp.IsUnavailable(err) {
			return errors.RemoteError(c, err)
		}
		return errors.InternalError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// MarkPaid godoc
// @Summary Mark invoice as paid
// @Description Creates a remote Payment Entry against the invoice and updates its status
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param body body models.MarkPaidRequest true "Payment details"
// @Success 200 {object} models.Payment "Recorded payment"
// @Failure 404 {object} models.ErrorResponse "Invoice not found"
// @Failure 502 {object} models.ErrorResponse "Remote unavailable"
// @Router /invoices/{id}/mark-paid [post]
func (h *BillingHandler) MarkPaid(c echo.Context) error {
	var req models.MarkPaidRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	payment, err := h.service.MarkPaid(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if stderrors.Is(err, erp.ErrNotFound) {
			return errors.NotFoundError(c, "invoice")
		}
		if erp.IsUnavailable(err) {
			return errors.RemoteError(c, err)
		}
		return errors.InternalError(c, err)
	}

	return c.JSON(http.StatusOK, payment)
}
