package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/models"
	"github.com/luminamkt/agencyhub/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger serves canned Sales Invoice and Payment Entry documents and
// records the writes it receives
type fakeLedger struct {
	mu       sync.Mutex
	invoices []map[string]any
	payments []map[string]any
	created  []map[string]any
	updates  map[string]map[string]any
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{updates: make(map[string]map[string]any)}
}

func (f *fakeLedger) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/resource/"), "/")
		doctype := parts[0]
		id := ""
		if len(parts) > 1 {
			id = parts[1]
		}

		switch {
		case r.Method == http.MethodGet && id != "":
			for _, inv := range f.invoices {
				if inv["name"] == id {
					json.NewEncoder(w).Encode(map[string]any{"data": inv})
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)

		case r.Method == http.MethodGet && doctype == "Sales Invoice":
			json.NewEncoder(w).Encode(map[string]any{"data": f.invoices})

		case r.Method == http.MethodGet && doctype == "Payment Entry":
			json.NewEncoder(w).Encode(map[string]any{"data": f.payments})

		case r.Method == http.MethodPost:
			var fields map[string]any
			json.NewDecoder(r.Body).Decode(&fields)
			f.created = append(f.created, fields)
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "PE-0001"}})

		case r.Method == http.MethodPut:
			var fields map[string]any
			json.NewDecoder(r.Body).Decode(&fields)
			f.updates[id] = fields
			json.NewEncoder(w).Encode(map[string]any{"data": fields})
		}
	}
}

func newService(t *testing.T) (*Service, *fakeLedger) {
	t.Helper()
	ledger := newFakeLedger()
	srv := httptest.NewServer(ledger.handler())
	t.Cleanup(srv.Close)
	return NewService(erp.NewClient(srv.URL, "k", "s", nil), notify.NewRelay(nil)), ledger
}

func TestSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Joins invoices and payments", func(t *testing.T) {
		svc, ledger := newService(t)
		ledger.invoices = []map[string]any{
			{"name": "SINV-0001", "customer": "CUST-0001", "grand_total": 1200.0, "outstanding_amount": 1200.0, "status": "Unpaid", "currency": "EUR"},
			{"name": "SINV-0002", "customer": "CUST-0001", "grand_total": 800.0, "outstanding_amount": 0.0, "status": "Paid", "currency": "EUR"},
		}
		ledger.payments = []map[string]any{
			{"name": "PE-0900", "party": "CUST-0001", "paid_amount": 800.0, "status": "Submitted"},
		}

		summary, err := svc.Summary(ctx, "CUST-0001")

		require.NoError(t, err)
		require.Len(t, summary.Invoices, 2)
		require.Len(t, summary.Payments, 1)
		assert.Equal(t, "SINV-0001", summary.Invoices[0].Name)
		assert.Equal(t, 1200.0, summary.Invoices[0].OutstandingAmount)
		assert.Equal(t, 800.0, summary.Payments[0].PaidAmount)
	})

	t.Run("Success - Empty ledger yields empty slices, not nil", func(t *testing.T) {
		svc, _ := newService(t)

		summary, err := svc.Summary(ctx, "CUST-0404")

		require.NoError(t, err)
		assert.NotNil(t, summary.Invoices)
		assert.NotNil(t, summary.Payments)
		assert.Empty(t, summary.Invoices)
		assert.Empty(t, summary.Payments)
	})

	t.Run("Failure - Unreachable remote returns the error, no stale data", func(t *testing.T) {
		svc := NewService(erp.NewClient("", "", "", nil), notify.NewRelay(nil))

		summary, err := svc.Summary(ctx, "CUST-0001")

		assert.True(t, erp.IsUnavailable(err))
		assert.Empty(t, summary.Invoices)
		assert.Empty(t, summary.Payments)
	})
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Creates a payment entry and settles the invoice", func(t *testing.T) {
		svc, ledger := newService(t)
		ledger.invoices = []map[string]any{
			{"name": "SINV-0001", "customer": "CUST-0001", "grand_total": 1200.0, "outstanding_amount": 1200.0, "status": "Unpaid"},
		}

		payment, err := svc.MarkPaid(ctx, "SINV-0001", models.MarkPaidRequest{
			Amount:      1200,
			ReferenceNo: "TRN-4711",
		})

		require.NoError(t, err)
		assert.Equal(t, "PE-0001", payment.Name)
		assert.Equal(t, "CUST-0001", payment.Party)
		assert.Equal(t, 1200.0, payment.PaidAmount)
		assert.Equal(t, "TRN-4711", payment.ReferenceNo)

		require.Len(t, ledger.created, 1)
		entry := ledger.created[0]
		assert.Equal(t, "Receive", entry["payment_type"])
		assert.Equal(t, "Customer", entry["party_type"])
		assert.Equal(t, "CUST-0001", entry["party"])
		assert.Equal(t, 1200.0, entry["paid_amount"])

		refs, ok := entry["references"].([]any)
		require.True(t, ok)
		require.Len(t, refs, 1)
		ref := refs[0].(map[string]any)
		assert.Equal(t, "Sales Invoice", ref["reference_doctype"])
		assert.Equal(t, "SINV-0001", ref["reference_name"])
		assert.Equal(t, 1200.0, ref["allocated_amount"])

		assert.Equal(t, "Paid", ledger.updates["SINV-0001"]["status"])
	})

	t.Run("Failure - Unknown invoice", func(t *testing.T) {
		svc, ledger := newService(t)

		_, err := svc.MarkPaid(ctx, "SINV-0404", models.MarkPaidRequest{Amount: 100})

		require.ErrorIs(t, err, erp.ErrNotFound)
		assert.Empty(t, ledger.created)
	})

	t.Run("Failure - Unreachable remote never fabricates a payment", func(t *testing.T) {
		svc := NewService(erp.NewClient("", "", "", nil), notify.NewRelay(nil))

		_, err := svc.MarkPaid(ctx, "SINV-0001", models.MarkPaidRequest{Amount: 100})

		assert.True(t, erp.IsUnavailable(err))
	})
}
