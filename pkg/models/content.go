package models

// Content grid item statuses (application vocabulary)
const (
	ContentStatusDraft           = "draft"
	ContentStatusPendingApproval = "pending_approval"
	ContentStatusApproved        = "approved"
	ContentStatusPublished       = "published"
)

// ContentStatuses is the closed set of content grid statuses
var ContentStatuses = []string{
	ContentStatusDraft,
	ContentStatusPendingApproval,
	ContentStatusApproved,
	ContentStatusPublished,
}

// ContentGridItem represents one planned piece of content for a client
type ContentGridItem struct {
	ID        string   `json:"id"`
	ClientID  string   `json:"clientId"`
	Date      string   `json:"date"`
	Platforms []string `json:"platforms"`
	Type      string   `json:"type"`
	Concept   string   `json:"concept"`
	Caption   string   `json:"caption,omitempty"`
	Status    string   `json:"status"`
	Notes     string   `json:"notes,omitempty"`

	SyncPending bool `json:"sync_pending,omitempty"`
}

// CreateContentRequest represents a content grid item creation request
type CreateContentRequest struct {
	Date      string   `json:"date" validate:"required"`
	Platforms []string `json:"platforms" validate:"required,min=1"`
	Type      string   `json:"type" validate:"required"`
	Concept   string   `json:"concept" validate:"required"`
	Caption   string   `json:"caption,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// UpdateContentRequest represents a content grid item update request.
// Nil fields are left untouched.
type UpdateContentRequest struct {
	Date      *string  `json:"date,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Concept   *string  `json:"concept,omitempty"`
	Caption   *string  `json:"caption,omitempty"`
	Status    *string  `json:"status,omitempty" validate:"omitempty,oneof=draft pending_approval approved published"`
	Notes     *string  `json:"notes,omitempty"`
}

// ContentListResponse carries a client's content grid. Degraded is set
// when the remote list failed and only locally pending items are shown.
type ContentListResponse struct {
	Data     []ContentGridItem `json:"data"`
	Degraded bool              `json:"degraded,omitempty"`
	Error    string            `json:"error,omitempty"`
}
