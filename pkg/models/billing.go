package models

// Invoice is a read-mostly projection of a remote Sales Invoice
type Invoice struct {
	Name              string  `json:"name"`
	Customer          string  `json:"customer"`
	PostingDate       string  `json:"posting_date,omitempty"`
	DueDate           string  `json:"due_date,omitempty"`
	GrandTotal        float64 `json:"grand_total"`
	OutstandingAmount float64 `json:"outstanding_amount"`
	Currency          string  `json:"currency,omitempty"`
	Status            string  `json:"status"`
}

// Payment is a read-mostly projection of a remote Payment Entry
type Payment struct {
	Name        string  `json:"name"`
	Party       string  `json:"party"`
	PostingDate string  `json:"posting_date,omitempty"`
	PaidAmount  float64 `json:"paid_amount"`
	Status      string  `json:"status,omitempty"`
	ReferenceNo string  `json:"reference_no,omitempty"`
}

// BillingSummary is one dashboard load: invoices and payments fetched
// concurrently, populating disjoint result sets.
type BillingSummary struct {
	Invoices []Invoice `json:"invoices"`
	Payments []Payment `json:"payments"`
	Error    string    `json:"error,omitempty"`
}

// MarkPaidRequest records an invoice payment
type MarkPaidRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	ReferenceNo string  `json:"reference_no,omitempty"`
}
