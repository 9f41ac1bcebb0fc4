// Package contentgrid reconciles planned content items with the remote
// Task doctype. The structured fields ride inside the task description
// via the tag codec; the remote store never learns the application's
// schema.
package contentgrid

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/luminamkt/agencyhub/pkg/codec"
	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/metrics"
	"github.com/luminamkt/agencyhub/pkg/models"
	"github.com/luminamkt/agencyhub/pkg/notify"
	"github.com/luminamkt/agencyhub/pkg/status"
	"github.com/luminamkt/agencyhub/pkg/store"
)

const doctypeTask = "Task"

var taskFields = []string{"name", "subject", "description", "status", "customer", "exp_start_date"}

// taskDoc is the remote Task projection this service reads. Decoded at
// the boundary; unexpected shapes are logged and skipped.
type taskDoc struct {
	Name         string `json:"name"`
	Subject      string `json:"subject"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Customer     string `json:"customer"`
	ExpStartDate string `json:"exp_start_date"`
}

// Service handles content grid operations
type Service struct {
	gateway *erp.Client
	repo    store.Repository
	relay   *notify.Relay
	metrics *metrics.Metrics
}

// NewService creates a new content grid service
func NewService(gateway *erp.Client, repo store.Repository, relay *notify.Relay, m *metrics.Metrics) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		relay:   relay,
		metrics: m,
	}
}

// Create plans a new content item for a client. On remote failure the
// item is kept locally with a sentinel id and flagged sync_pending.
func (s *Service) Create(ctx context.Context, clientID string, req models.CreateContentRequest) (*models.ContentGridItem, error) {
	item := models.ContentGridItem{
		ClientID:  clientID,
		Date:      req.Date,
		Platforms: req.Platforms,
		Type:      req.Type,
		Concept:   req.Concept,
		Caption:   req.Caption,
		Notes:     req.Notes,
		Status:    models.ContentStatusDraft,
	}

	id, err := s.gateway.Create(ctx, doctypeTask, s.taskPayload(item))
	if err != nil {
		log.Printf("⚠️  Remote task create failed for %q, keeping local record: %v", item.Concept, err)
		item.ID = models.NewLocalID()
		item.SyncPending = true
		if s.metrics != nil {
			s.metrics.RecordLocalFallback("content")
		}
		if err := s.repo.PutContentItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to store content item: %w", err)
		}
	} else {
		item.ID = id
	}

	s.relay.Notify(notify.EventContentCreated, map[string]any{
		"client":  clientID,
		"concept": item.Concept,
		"date":    item.Date,
	})

	return &item, nil
}

// List returns a client's content grid. Remote items are decoded through
// the codec and status translator; locally pending items are always
// included. A remote failure degrades to locals-only with the response
// flagged, never fabricated remote data.
func (s *Service) List(ctx context.Context, clientID string) (*models.ContentListResponse, error) {
	locals, err := s.repo.ListContentItems(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list local content items: %w", err)
	}

	resp := &models.ContentListResponse{Data: []models.ContentGridItem{}}

	raws, err := s.gateway.List(ctx, doctypeTask, erp.ListOptions{
		Filters: []erp.Filter{erp.Eq("customer", clientID)},
		Fields:  taskFields,
		OrderBy: "exp_start_date asc",
	})
	if err != nil {
		resp.Degraded = true
		resp.Error = "remote store unavailable, showing locally pending items only"
		resp.Data = locals
		return resp, nil
	}

	// A local copy of a linked item carries an edit that has not reached
	// the remote store yet; the remote document is stale and skipped.
	localIDs := make(map[string]bool, len(locals))
	for _, item := range locals {
		localIDs[item.ID] = true
	}

	for _, raw := range raws {
		var doc taskDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			log.Printf("⚠️  Skipping task with unexpected shape: %v", err)
			continue
		}
		if isDeliverableDoc(doc.Description) || localIDs[doc.Name] {
			continue
		}
		resp.Data = append(resp.Data, decodeTask(doc))
	}

	resp.Data = append(resp.Data, locals...)
	return resp, nil
}

// Update edits an item or transitions its status. Locally pending items
// are edited in place; linked items are rewritten remotely.
func (s *Service) Update(ctx context.Context, clientID, id string, req models.UpdateContentRequest) (*models.ContentGridItem, error) {
	item, err := s.get(ctx, clientID, id)
	if err != nil {
		return nil, err
	}

	prevStatus := item.Status
	applyUpdate(item, req)

	if models.IsLocalID(id) {
		if err := s.repo.PutContentItem(ctx, *item); err != nil {
			return nil, fmt.Errorf("failed to store content item: %w", err)
		}
	} else {
		if err := s.gateway.Update(ctx, doctypeTask, id, s.taskPayload(*item)); err != nil {
			if !erp.IsUnavailable(err) {
				return nil, err
			}
			log.Printf("⚠️  Remote task update failed for %q, keeping local copy: %v", id, err)
			item.SyncPending = true
			if s.metrics != nil {
				s.metrics.RecordLocalFallback("content")
			}
			if err := s.repo.PutContentItem(ctx, *item); err != nil {
				return nil, fmt.Errorf("failed to store content item: %w", err)
			}
		} else if item.SyncPending {
			item.SyncPending = false
			if err := s.repo.DeleteContentItem(ctx, id); err != nil {
				log.Printf("⚠️  Failed to drop local copy of %q after update: %v", id, err)
			}
		}
	}

	if item.Status != prevStatus {
		s.relay.Notify(notify.EventContentStatus, map[string]any{
			"client":  item.ClientID,
			"concept": item.Concept,
			"from":    prevStatus,
			"to":      item.Status,
		})
	}

	return item, nil
}

// Delete removes an item. Remote deletion failure is logged but does not
// block the user-visible removal.
func (s *Service) Delete(ctx context.Context, id string) error {
	if models.IsLocalID(id) {
		return s.repo.DeleteContentItem(ctx, id)
	}

	if err := s.gateway.Delete(ctx, doctypeTask, id); err != nil {
		if !erp.IsUnavailable(err) {
			return err
		}
		log.Printf("⚠️  Remote task delete failed for %q: %v", id, err)
	}
	// Drop any pending local edit of the deleted item as well
	return s.repo.DeleteContentItem(ctx, id)
}

// Resync pushes one locally pending item to the remote store. Explicitly
// triggered, never automatic. Never-synced items are created remotely;
// pending edits of linked items are replayed as updates.
func (s *Service) Resync(ctx context.Context, clientID, id string) (*models.ContentGridItem, error) {
	item, err := s.get(ctx, clientID, id)
	if err != nil {
		return nil, err
	}
	if !item.SyncPending {
		return item, nil
	}

	if models.IsLocalID(id) {
		remoteID, err := s.gateway.Create(ctx, doctypeTask, s.taskPayload(*item))
		if err != nil {
			if s.metrics != nil {
				s.metrics.RecordResync("content", false)
			}
			return nil, err
		}
		item.ID = remoteID
	} else {
		if err := s.gateway.Update(ctx, doctypeTask, id, s.taskPayload(*item)); err != nil {
			if s.metrics != nil {
				s.metrics.RecordResync("content", false)
			}
			return nil, err
		}
	}

	if err := s.repo.DeleteContentItem(ctx, id); err != nil {
		log.Printf("⚠️  Failed to drop local record %q after resync: %v", id, err)
	}

	item.SyncPending = false
	if s.metrics != nil {
		s.metrics.RecordResync("content", true)
	}
	return item, nil
}

// get returns one item, preferring the local copy. The repo holds both
// never-synced records (sentinel ids) and pending edits of linked
// records (remote ids); either one is fresher than the remote document.
func (s *Service) get(ctx context.Context, clientID, id string) (*models.ContentGridItem, error) {
	items, err := s.repo.ListContentItems(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			out := item
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
	item := decodeTask(doc)
	return &item, nil
}

// taskPayload maps an item onto the remote Task schema, packing the
// structured fields through the tag codec.
func (s *Service) taskPayload(item models.ContentGridItem) map[string]any {
	return map[string]any{
		"subject": item.Concept,
		"description": codec.EncodeContent(codec.ContentFields{
			Type:      item.Type,
			Platforms: item.Platforms,
			Caption:   item.Caption,
			Notes:     item.Notes,
		}),
		"status":         status.ContentToRemote(item.Status),
		"customer":       item.ClientID,
		"exp_start_date": item.Date,
	}
}

func decodeTask(doc taskDoc) models.ContentGridItem {
	fields := codec.DecodeContent(doc.Description)
	return models.ContentGridItem{
		ID:        doc.Name,
		ClientID:  doc.Customer,
		Date:      doc.ExpStartDate,
		Platforms: fields.Platforms,
		Type:      fields.Type,
		Concept:   doc.Subject,
		Caption:   fields.Caption,
		Notes:     fields.Notes,
		Status:    status.ContentToApp(doc.Status),
	}
}

func applyUpdate(item *models.ContentGridItem, req models.UpdateContentRequest) {
	if req.Date != nil {
		item.Date = *req.Date
	}
	if req.Platforms != nil {
		item.Platforms = req.Platforms
	}
	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.Concept != nil {
		item.Concept = *req.Concept
	}
	if req.Caption != nil {
		item.Caption = *req.Caption
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
}

// isDeliverableDoc reports whether a task description carries deliverable
// JSON metadata rather than tag-codec content. Both entity types share
// the Task doctype; the description shape is the discriminator.
func isDeliverableDoc(description string) bool {
	trimmed := strings.TrimSpace(description)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal([]byte(trimmed), &obj) == nil
}
