package models

// Lead statuses (remote vocabulary, used as-is by the pipeline board)
const (
	LeadStatusLead        = "Lead"
	LeadStatusOpen        = "Open"
	LeadStatusReplied     = "Replied"
	LeadStatusOpportunity = "Opportunity"
	LeadStatusQuotation   = "Quotation"
	LeadStatusInterested  = "Interested"
	LeadStatusLost        = "Lost Lead"
)

// LeadStatuses is the closed set of valid lead statuses
var LeadStatuses = []string{
	LeadStatusLead,
	LeadStatusOpen,
	LeadStatusReplied,
	LeadStatusOpportunity,
	LeadStatusQuotation,
	LeadStatusInterested,
	LeadStatusLost,
}

// ValidLeadStatus reports whether s is in the lead status enum
func ValidLeadStatus(s string) bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Lead represents a sales prospect. Name is the remote-assigned
// identifier; Status and ColumnID jointly position the lead on the
// pipeline board.
type Lead struct {
	Name        string `json:"name"`
	LeadName    string `json:"lead_name"`
	Title       string `json:"title,omitempty"`
	MobileNo    string `json:"mobile_no,omitempty"`
	EmailID     string `json:"email_id,omitempty"`
	Status      string `json:"status"`
	Creation    string `json:"creation,omitempty"`
	PipelineID  string `json:"pipelineId,omitempty"`
	ColumnID    string `json:"columnId,omitempty"`
	SyncPending bool   `json:"sync_pending,omitempty"`
}

// CreateLeadRequest represents a lead creation request
type CreateLeadRequest struct {
	LeadName string `json:"lead_name" validate:"required,min=2"`
	Title    string `json:"title,omitempty"`
	MobileNo string `json:"mobile_no,omitempty"`
	EmailID  string `json:"email_id,omitempty" validate:"omitempty,email"`
	Status   string `json:"status,omitempty"`
}

// UpdateLeadRequest represents a lead update request
type UpdateLeadRequest struct {
	LeadName *string `json:"lead_name,omitempty"`
	Title    *string `json:"title,omitempty"`
	MobileNo *string `json:"mobile_no,omitempty"`
	EmailID  *string `json:"email_id,omitempty" validate:"omitempty,email"`
	Status   *string `json:"status,omitempty"`
	ColumnID *string `json:"columnId,omitempty"`
}

// LeadListResponse carries the pipeline board contents
type LeadListResponse struct {
	Data  []Lead `json:"data"`
	Error string `json:"error,omitempty"`
}
