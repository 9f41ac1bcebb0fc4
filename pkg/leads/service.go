// Package leads reconciles sales prospects with the remote Lead doctype.
// Status and pipeline column are two views of the same field: the board
// column is derived from the remote status vocabulary.
package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/metrics"
	"github.com/luminamkt/agencyhub/pkg/models"
	"github.com/luminamkt/agencyhub/pkg/notify"
	"github.com/luminamkt/agencyhub/pkg/phone"
	"github.com/luminamkt/agencyhub/pkg/store"
)

const (
	doctypeLead = "Lead"

	// DefaultPipelineID names the single sales pipeline board
	DefaultPipelineID = "sales"
)

var leadFields = []string{"name", "lead_name", "title", "mobile_no", "email_id", "status", "creation"}

// statusColumns maps each lead status to its board column
var statusColumns = map[string]string{
	models.LeadStatusLead:        "incoming",
	models.LeadStatusOpen:        "open",
	models.LeadStatusReplied:     "replied",
	models.LeadStatusOpportunity: "opportunity",
	models.LeadStatusQuotation:   "quotation",
	models.LeadStatusInterested:  "interested",
	models.LeadStatusLost:        "lost",
}

// columnStatuses is the reverse of statusColumns
var columnStatuses = func() map[string]string {
	out := make(map[string]string, len(statusColumns))
	for status, col := range statusColumns {
		out[col] = status
	}
	return out
}()

// ErrInvalidStatus is returned before any remote call when a status is
// outside the closed lead vocabulary
type ErrInvalidStatus struct {
	Status string
}

func (e *ErrInvalidStatus) Error() string {
	return fmt.Sprintf("leads: invalid status %q", e.Status)
}

// leadDoc is the remote Lead projection this service reads
type leadDoc struct {
	Name     string `json:"name"`
	LeadName string `json:"lead_name"`
	Title    string `json:"title"`
	MobileNo string `json:"mobile_no"`
	EmailID  string `json:"email_id"`
	Status   string `json:"status"`
	Creation string `json:"creation"`
}

// Service handles lead operations
type Service struct {
	gateway     *erp.Client
	repo        store.Repository
	relay       *notify.Relay
	metrics     *metrics.Metrics
	phoneRegion string
}

// NewService creates a new lead service. phoneRegion is the default
// country used to normalize bare national numbers.
func NewService(gateway *erp.Client, repo store.Repository, relay *notify.Relay, m *metrics.Metrics, phoneRegion string) *Service {
	return &Service{
		gateway:     gateway,
		repo:        repo,
		relay:       relay,
		metrics:     m,
		phoneRegion: phoneRegion,
	}
}

// Create registers a new lead. Falls back to a local record with a
// sentinel id when the remote store is unavailable.
func (s *Service) Create(ctx context.Context, req models.CreateLeadRequest) (*models.Lead, error) {
	leadStatus := req.Status
	if leadStatus == "" {
		leadStatus = models.LeadStatusLead
	}
	if !models.ValidLeadStatus(leadStatus) {
		return nil, &ErrInvalidStatus{Status: leadStatus}
	}

	lead := models.Lead{
		LeadName:   req.LeadName,
		Title:      req.Title,
		MobileNo:   s.normalizePhone(req.MobileNo),
		EmailID:    req.EmailID,
		Status:     leadStatus,
		Creation:   time.Now().UTC().Format("2006-01-02 15:04:05"),
		PipelineID: DefaultPipelineID,
		ColumnID:   statusColumns[leadStatus],
	}

	id, err := s.gateway.Create(ctx, doctypeLead, leadPayload(lead))
	if err != nil {
		log.Printf("⚠️  Remote lead create failed for %q, keeping local record: %v", lead.LeadName, err)
		lead.Name = models.NewLocalID()
		lead.SyncPending = true
		if s.metrics != nil {
			s.metrics.RecordLocalFallback("lead")
		}
		if err := s.repo.PutLead(ctx, lead); err != nil {
			return nil, fmt.Errorf("failed to store lead: %w", err)
		}
	} else {
		lead.Name = id
	}

	s.relay.Notify(notify.EventLeadCreated, map[string]any{
		"lead":   lead.LeadName,
		"status": lead.Status,
	})

	return &lead, nil
}

// List returns the pipeline board. Remote failure degrades to locally
// pending leads with an error flag, never fabricated data.
func (s *Service) List(ctx context.Context) (*models.LeadListResponse, error) {
	locals, err := s.repo.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list local leads: %w", err)
	}

	resp := &models.LeadListResponse{Data: []models.Lead{}}

	raws, err := s.gateway.List(ctx, doctypeLead, erp.ListOptions{
		Fields:  leadFields,
		OrderBy: "creation desc",
	})
	if err != nil {
		resp.Error = "remote store unavailable, showing locally pending leads only"
		resp.Data = locals
		return resp, nil
	}

	// A local copy of a linked lead carries an edit that has not reached
	// the remote store yet; the remote document is stale.
	localIDs := make(map[string]bool, len(locals))
	for _, l := range locals {
		localIDs[l.Name] = true
	}

	for _, raw := range raws {
		var doc leadDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			log.Printf("⚠️  Skipping lead with unexpected shape: %v", err)
			continue
		}
		if localIDs[doc.Name] {
			continue
		}
		resp.Data = append(resp.Data, decodeLead(doc))
	}

	resp.Data = append(resp.Data, locals...)
	return resp, nil
}

// Update edits a lead. A ColumnID move translates to a status change;
// both are validated against the closed vocabulary before any remote
// call.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateLeadRequest) (*models.Lead, error) {
	lead, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	prevStatus := lead.Status

	if req.ColumnID != nil {
		mapped, ok := columnStatuses[*req.ColumnID]
		if !ok {
			return nil, &ErrInvalidStatus{Status: *req.ColumnID}
		}
		lead.Status = mapped
	}
	if req.Status != nil {
		if !models.ValidLeadStatus(*req.Status) {
			return nil, &ErrInvalidStatus{Status: *req.Status}
		}
		lead.Status = *req.Status
	}
	if req.LeadName != nil {
		lead.LeadName = *req.LeadName
	}
	if req.Title != nil {
		lead.Title = *req.Title
	}
	if req.MobileNo != nil {
		lead.MobileNo = s.normalizePhone(*req.MobileNo)
	}
	if req.EmailID != nil {
		lead.EmailID = *req.EmailID
	}
	lead.ColumnID = statusColumns[lead.Status]

	if models.IsLocalID(id) {
		if err := s.repo.PutLead(ctx, *lead); err != nil {
			return nil, fmt.Errorf("failed to store lead: %w", err)
		}
	} else {
		if err := s.gateway.Update(ctx, doctypeLead, id, leadPayload(*lead)); err != nil {
			if !erp.IsUnavailable(err) {
				return nil, err
			}
			log.Printf("⚠️  Remote lead update failed for %q, keeping local copy: %v", id, err)
			lead.SyncPending = true
			if s.metrics != nil {
				s.metrics.RecordLocalFallback("lead")
			}
			if err := s.repo.PutLead(ctx, *lead); err != nil {
				return nil, fmt.Errorf("failed to store lead: %w", err)
			}
		} else if lead.SyncPending {
			lead.SyncPending = false
			if err := s.repo.DeleteLead(ctx, id); err != nil {
				log.Printf("⚠️  Failed to drop local copy of %q after update: %v", id, err)
			}
		}
	}

	if lead.Status != prevStatus {
		s.relay.Notify(notify.EventLeadStatus, map[string]any{
			"lead": lead.LeadName,
			"from": prevStatus,
			"to":   lead.Status,
		})
	}

	return lead, nil
}

// Delete removes a lead. Remote failure is logged, never blocking.
func (s *Service) Delete(ctx context.Context, id string) error {
	if models.IsLocalID(id) {
		return s.repo.DeleteLead(ctx, id)
	}

	if err := s.gateway.Delete(ctx, doctypeLead, id); err != nil {
		if !erp.IsUnavailable(err) {
			return err
		}
		log.Printf("⚠️  Remote lead delete failed for %q: %v", id, err)
	}
	// Drop any pending local edit of the deleted lead as well
	return s.repo.DeleteLead(ctx, id)
}

// get returns one lead, preferring the local copy when one is pending
func (s *Service) get(ctx context.Context, id string) (*models.Lead, error) {
	locals, err := s.repo.ListLeads(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range locals {
		if l.Name == id {
			out := l
			return &out, nil
		}
	}
	if models.IsLocalID(id) {
		return nil, store.ErrNotFound
	}

	raw, err := s.gateway.Get(ctx, doctypeLead, id)
	if err != nil {
		return nil, err
	}
	var doc leadDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &erp.DecodeError{Err: err}
	}
	lead := decodeLead(doc)
	return &lead, nil
}

func (s *Service) normalizePhone(raw string) string {
	return phone.Normalize(raw, s.phoneRegion)
}

func leadPayload(l models.Lead) map[string]any {
	return map[string]any{
		"lead_name": l.LeadName,
		"title":     l.Title,
		"mobile_no": l.MobileNo,
		"email_id":  l.EmailID,
		"status":    l.Status,
	}
}

func decodeLead(doc leadDoc) models.Lead {
	lead := models.Lead{
		Name:       doc.Name,
		LeadName:   doc.LeadName,
		Title:      doc.Title,
		MobileNo:   doc.MobileNo,
		EmailID:    doc.EmailID,
		Status:     doc.Status,
		Creation:   doc.Creation,
		PipelineID: DefaultPipelineID,
	}
	if !models.ValidLeadStatus(lead.Status) {
		lead.Status = models.LeadStatusLead
	}
	lead.ColumnID = statusColumns[lead.Status]
	return lead
}
