// Package deliverables reconciles client-facing work products with the
// remote Task doctype. The fine-grained approval status cannot be
// represented by the remote status field, so the authoritative value is
// embedded in the description as JSON metadata and the remote status is
// only derived from it on write.
package deliverables

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/luminamkt/agencyhub/pkg/codec"
	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/metrics"
	"github.com/luminamkt/agencyhub/pkg/models"
	"github.com/luminamkt/agencyhub/pkg/notify"
	"github.com/luminamkt/agencyhub/pkg/status"
	"github.com/luminamkt/agencyhub/pkg/store"
)

const doctypeTask = "Task"

var taskFields = []string{"name", "subject", "description", "status", "customer", "creation"}

// taskDoc is the remote Task projection this service reads
type taskDoc struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Customer    string `json:"customer"`
	Creation    string `json:"creation"`
}

// Service handles deliverable operations
type Service struct {
	gateway *erp.Client
	repo    store.Repository
	relay   *notify.Relay
	metrics *metrics.Metrics
}

// NewService creates a new deliverable service
func NewService(gateway *erp.Client, repo store.Repository, relay *notify.Relay, m *metrics.Metrics) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		relay:   relay,
		metrics: m,
	}
}

// Create registers a new deliverable awaiting client sign-off
func (s *Service) Create(ctx context.Context, req models.CreateDeliverableRequest) (*models.Deliverable, error) {
	d := models.Deliverable{
		Title:        req.Title,
		ClientID:     req.ClientID,
		ClientName:   req.ClientName,
		Type:         req.Type,
		URL:          req.URL,
		CarouselURLs: req.CarouselURLs,
		Description:  req.Description,
		Status:       models.DeliverableStatusPending,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	id, err := s.gateway.Create(ctx, doctypeTask, s.taskPayload(d))
	if err != nil {
		log.Printf("⚠️  Remote deliverable create failed for %q, keeping local record: %v", d.Title, err)
		d.ID = models.NewLocalID()
		d.SyncPending = true
		if s.metrics != nil {
			s.metrics.RecordLocalFallback("deliverable")
		}
		if err := s.repo.PutDeliverable(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to store deliverable: %w", err)
		}
	} else {
		d.ID = id
	}

	s.relay.Notify(notify.EventDeliverableCreated, map[string]any{
		"client": d.ClientName,
		"title":  d.Title,
		"type":   d.Type,
	})

	return &d, nil
}

// List returns deliverables, optionally scoped to one client. Remote
// failure degrades to locally pending records with an error flag.
func (s *Service) List(ctx context.Context, clientID string) ([]models.Deliverable, error) {
	locals, err := s.repo.ListDeliverables(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list local deliverables: %w", err)
	}

	opts := erp.ListOptions{Fields: taskFields, OrderBy: "creation desc"}
	if clientID != "" {
		opts.Filters = []erp.Filter{erp.Eq("customer", clientID)}
	}

	raws, err := s.gateway.List(ctx, doctypeTask, opts)
	if err != nil {
		return locals, err
	}

	// A local copy of a linked deliverable carries an edit that has not
	// reached the remote store yet; the remote document is stale.
	localIDs := make(map[string]bool, len(locals))
	for _, d := range locals {
		localIDs[d.ID] = true
	}

	out := make([]models.Deliverable, 0, len(raws))
	for _, raw := range raws {
		var doc taskDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			log.Printf("⚠️  Skipping task with unexpected shape: %v", err)
			continue
		}
		if !isDeliverableDoc(doc.Description) || localIDs[doc.Name] {
			continue
		}
		out = append(out, decodeTask(doc))
	}

	return append(out, locals...), nil
}

// Get returns one deliverable by id, preferring the local copy. The
// repo holds both never-synced records (sentinel ids) and pending edits
// of linked records (remote ids).
func (s *Service) Get(ctx context.Context, id string) (*models.Deliverable, error) {
	locals, err := s.repo.ListDeliverables(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, d := range locals {
		if d.ID == id {
			out := d
			return &out, nil
		}
	}
	if models.IsLocalID(id) {
		return nil, store.ErrNotFound
	}

	raw, err := s.gateway.Get(ctx, doctypeTask, id)
	if err != nil {
		return nil, err
	}
	var doc taskDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &erp.DecodeError{Err: err}
	}
	d := decodeTask(doc)
	return &d, nil
}

// UpdateStatus transitions a deliverable's status and optionally appends
// one feedback entry. Existing feedback is never edited, removed or
// reordered. The list only grows.
func (s *Service) UpdateStatus(ctx context.Context, id string, req models.UpdateDeliverableStatusRequest) (*models.Deliverable, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	prevStatus := d.Status
	d.Status = req.Status
	if req.Feedback != nil {
		fb := *req.Feedback
		if fb.Date == "" {
			fb.Date = time.Now().UTC().Format("2006-01-02")
		}
		d.Feedback = append(d.Feedback, fb)
	}

	if models.IsLocalID(id) {
		if err := s.repo.PutDeliverable(ctx, *d); err != nil {
			return nil, fmt.Errorf("failed to store deliverable: %w", err)
		}
	} else {
		if err := s.gateway.Update(ctx, doctypeTask, id, s.taskPayload(*d)); err != nil {
			if !erp.IsUnavailable(err) {
				return nil, err
			}
			log.Printf("⚠️  Remote deliverable update failed for %q, keeping local copy: %v", id, err)
			d.SyncPending = true
			if s.metrics != nil {
				s.metrics.RecordLocalFallback("deliverable")
			}
			if err := s.repo.PutDeliverable(ctx, *d); err != nil {
				return nil, fmt.Errorf("failed to store deliverable: %w", err)
			}
		} else if d.SyncPending {
			d.SyncPending = false
			if err := s.repo.DeleteDeliverable(ctx, id); err != nil {
				log.Printf("⚠️  Failed to drop local copy of %q after update: %v", id, err)
			}
		}
	}

	if d.Status != prevStatus {
		s.relay.Notify(notify.EventDeliverableStatus, map[string]any{
			"client": d.ClientName,
			"title":  d.Title,
			"from":   prevStatus,
			"to":     d.Status,
		})
	}

	return d, nil
}

// Delete removes a deliverable. Remote failure is logged, never blocking.
func (s *Service) Delete(ctx context.Context, id string) error {
	if models.IsLocalID(id) {
		return s.repo.DeleteDeliverable(ctx, id)
	}

	if err := s.gateway.Delete(ctx, doctypeTask, id); err != nil {
		if !erp.IsUnavailable(err) {
			return err
		}
		log.Printf("⚠️  Remote deliverable delete failed for %q: %v", id, err)
	}
	// Drop any pending local edit of the deleted deliverable as well
	return s.repo.DeleteDeliverable(ctx, id)
}

// taskPayload maps a deliverable onto the remote Task schema. The
// metadata blob carries the authoritative status; the remote status is
// derived from it.
func (s *Service) taskPayload(d models.Deliverable) map[string]any {
	meta := codec.DeliverableMeta{
		URL:          d.URL,
		CarouselURLs: d.CarouselURLs,
		AppStatus:    d.Status,
		ClientID:     d.ClientID,
		ClientName:   d.ClientName,
		Type:         d.Type,
		Feedback:     toCodecFeedback(d.Feedback),
		Description:  d.Description,
	}
	return map[string]any{
		"subject":     d.Title,
		"description": codec.EncodeDeliverableMeta(meta),
		"status":      status.DeliverableToRemote(d.Status),
		"customer":    d.ClientID,
	}
}

// decodeTask rebuilds a deliverable from its remote projection. Status
// resolution is a prioritized chain: metadata-embedded status wins if
// decodable, else derived from the remote status, else the default.
func decodeTask(doc taskDoc) models.Deliverable {
	meta := codec.DecodeDeliverableMeta(doc.Description)
	return models.Deliverable{
		ID:           doc.Name,
		Title:        doc.Subject,
		ClientID:     firstNonEmpty(meta.ClientID, doc.Customer),
		ClientName:   meta.ClientName,
		Type:         meta.Type,
		URL:          meta.URL,
		CarouselURLs: meta.CarouselURLs,
		Status:       status.Resolve(status.FromMeta(meta.AppStatus), status.FromRemote(doc.Status)),
		CreatedAt:    doc.Creation,
		Feedback:     fromCodecFeedback(meta.Feedback),
		Description:  meta.Description,
	}
}

func toCodecFeedback(in []models.Feedback) []codec.Feedback {
	out := make([]codec.Feedback, len(in))
	for i, f := range in {
		out[i] = codec.Feedback(f)
	}
	return out
}

func fromCodecFeedback(in []codec.Feedback) []models.Feedback {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Feedback, len(in))
	for i, f := range in {
		out[i] = models.Feedback(f)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isDeliverableDoc(description string) bool {
	trimmed := strings.TrimSpace(description)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(trimmed), &obj) == nil
}
