// Package billing reads invoices and payments from the remote Sales
// Invoice and Payment Entry doctypes. These are read-mostly: the only
// write is the payment record created by MarkPaid. Read failures are
// surfaced as explicit error results, never stale or fabricated data.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/models"
	"github.com/luminamkt/agencyhub/pkg/notify"
)

const (
	doctypeSalesInvoice = "Sales Invoice"
	doctypePaymentEntry = "Payment Entry"
)

var (
	invoiceFields = []string{"name", "customer", "posting_date", "due_date", "grand_total", "outstanding_amount", "currency", "status"}
	paymentFields = []string{"name", "party", "posting_date", "paid_amount", "status", "reference_no"}
)

// Service handles invoice and payment reads plus the mark-paid write
type Service struct {
	gateway *erp.Client
	relay   *notify.Relay
}

// NewService creates a new billing service
func NewService(gateway *erp.Client, relay *notify.Relay) *Service {
	return &Service{
		gateway: gateway,
		relay:   relay,
	}
}

// ListInvoices returns a customer's invoices
func (s *Service) ListInvoices(ctx context.Context, customer string) ([]models.Invoice, error) {
	raws, err := s.gateway.List(ctx, doctypeSalesInvoice, erp.ListOptions{
		Filters: []erp.Filter{erp.Eq("customer", customer)},
		Fields:  invoiceFields,
		OrderBy: "posting_date desc",
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Invoice, 0, len(raws))
	for _, raw := range raws {
		var inv models.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			log.Printf("⚠️  Skipping invoice with unexpected shape: %v", err)
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

// ListPayments returns a customer's payments
func (s *Service) ListPayments(ctx context.Context, customer string) ([]models.Payment, error) {
	raws, err := s.gateway.List(ctx, doctypePaymentEntry, erp.ListOptions{
		Filters: []erp.Filter{erp.Eq("party", customer)},
		Fields:  paymentFields,
		OrderBy: "posting_date desc",
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Payment, 0, len(raws))
	for _, raw := range raws {
		var p models.Payment
		if err := json.Unmarshal(raw, &p); err != nil {
			log.Printf("⚠️  Skipping payment with unexpected shape: %v", err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Summary fetches invoices and payments for one dashboard load. The two
// reads populate disjoint result sets, so they run concurrently and are
// joined; ordering between them is irrelevant.
func (s *Service) Summary(ctx context.Context, customer string) (*models.BillingSummary, error) {
	summary := &models.BillingSummary{
		Invoices: []models.Invoice{},
		Payments: []models.Payment{},
	}

	var (
		wg          sync.WaitGroup
		invErr      error
		payErr      error
		invoiceList []models.Invoice
		paymentList []models.Payment
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		invoiceList, invErr = s.ListInvoices(ctx, customer)
	}()
	go func() {
		defer wg.Done()
		paymentList, payErr = s.ListPayments(ctx, customer)
	}()
	wg.Wait()

	if invErr != nil {
		return summary, invErr
	}
	if payErr != nil {
		return summary, payErr
	}

	summary.Invoices = invoiceList
	summary.Payments = paymentList
	return summary, nil
}

// MarkPaid records a payment for an invoice: a remote Payment Entry is
// created, then the invoice status is updated. Both writes go to the
// remote store; there is no local fallback for money records.
func (s *Service) MarkPaid(ctx context.Context, invoiceID string, req models.MarkPaidRequest) (*models.Payment, error) {
	raw, err := s.gateway.Get(ctx, doctypeSalesInvoice, invoiceID)
	if err != nil {
		return nil, err
	}
	var inv models.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, &erp.DecodeError{Err: err}
	}

	postingDate := time.Now().UTC().Format("2006-01-02")
	paymentID, err := s.gateway.Create(ctx, doctypePaymentEntry, map[string]any{
		"payment_type": "Receive",
		"party_type":   "Customer",
		"party":        inv.Customer,
		"paid_amount":  req.Amount,
		"posting_date": postingDate,
		"reference_no": req.ReferenceNo,
		"references": []map[string]any{
			{
				"reference_doctype": doctypeSalesInvoice,
				"reference_name":    invoiceID,
				"allocated_amount":  req.Amount,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment entry: %w", err)
	}

	if err := s.gateway.Update(ctx, doctypeSalesInvoice, invoiceID, map[string]any{
		"status": "Paid",
	}); err != nil {
		// The payment exists; an invoice left unmarked is recoverable
		// in the ERP UI, so log instead of unwinding.
		log.Printf("⚠️  Payment %s created but invoice %s status update failed: %v", paymentID, invoiceID, err)
	}

	s.relay.Notify(notify.EventInvoicePaid, map[string]any{
		"invoice":  invoiceID,
		"customer": inv.Customer,
		"amount":   req.Amount,
	})

	return &models.Payment{
		Name:        paymentID,
		Party:       inv.Customer,
		PostingDate: postingDate,
		PaidAmount:  req.Amount,
		ReferenceNo: req.ReferenceNo,
	}, nil
}
