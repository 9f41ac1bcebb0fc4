package models

// Deliverable statuses (application vocabulary)
const (
	DeliverableStatusPending          = "pending"
	DeliverableStatusApproved         = "approved"
	DeliverableStatusChangesRequested = "changes_requested"
)

// DeliverableStatuses is the closed set of deliverable statuses
var DeliverableStatuses = []string{
	DeliverableStatusPending,
	DeliverableStatusApproved,
	DeliverableStatusChangesRequested,
}

// Feedback is one client comment on a deliverable. The feedback list is
// append-only: existing entries are never edited, removed or reordered.
type Feedback struct {
	Date    string `json:"date"`
	Comment string `json:"comment"`
	Author  string `json:"author"`
}

// Deliverable represents a work product awaiting client sign-off
type Deliverable struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	ClientID     string     `json:"clientId,omitempty"`
	ClientName   string     `json:"clientName"`
	Type         string     `json:"type"`
	URL          string     `json:"url"`
	CarouselURLs []string   `json:"carouselUrls,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    string     `json:"createdAt"`
	Feedback     []Feedback `json:"feedback,omitempty"`
	Description  string     `json:"description,omitempty"`

	SyncPending bool `json:"sync_pending,omitempty"`
}

// CreateDeliverableRequest represents a deliverable creation request
type CreateDeliverableRequest struct {
	Title        string   `json:"title" validate:"required"`
	ClientID     string   `json:"clientId,omitempty"`
	ClientName   string   `json:"clientName" validate:"required"`
	Type         string   `json:"type" validate:"required"`
	URL          string   `json:"url" validate:"required"`
	CarouselURLs []string `json:"carouselUrls,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// UpdateDeliverableStatusRequest transitions a deliverable's status,
// optionally appending one feedback entry in the same operation.
type UpdateDeliverableStatusRequest struct {
	Status   string    `json:"status" validate:"required,oneof=pending approved changes_requested"`
	Feedback *Feedback `json:"feedback,omitempty"`
}
