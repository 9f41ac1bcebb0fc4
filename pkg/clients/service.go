// Package clients reconciles agency customers with the remote Customer
// doctype. Local records are the source of truth for what is shown; the
// remote link is established eagerly on create and repaired later by an
// explicit resync.
package clients

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/metrics"
	"github.com/luminamkt/agencyhub/pkg/models"
	"github.com/luminamkt/agencyhub/pkg/notify"
	"github.com/luminamkt/agencyhub/pkg/store"
)

const doctypeCustomer = "Customer"

// Service handles client operations
type Service struct {
	gateway *erp.Client
	repo    store.Repository
	relay   *notify.Relay
	metrics *metrics.Metrics
}

// NewService creates a new client service
func NewService(gateway *erp.Client, repo store.Repository, relay *notify.Relay, m *metrics.Metrics) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		relay:   relay,
		metrics: m,
	}
}

// Create registers a new client. The remote Customer create is
// attempted first; when the remote is unreachable or unconfigured the
// client is kept with a sentinel ERP id and flagged sync_pending; the
// record is never dropped because the remote call failed.
func (s *Service) Create(ctx context.Context, req models.CreateClientRequest) (*models.Client, error) {
	client := models.Client{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Token:        uuid.NewString(),
		Instagram:    req.Instagram,
		Industry:     req.Industry,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		CreatedAt:    time.Now().UTC(),
	}

	erpID, err := s.gateway.Create(ctx, doctypeCustomer, customerFields(client))
	if err != nil {
		log.Printf("⚠️  Remote customer create failed for %q, keeping local record: %v", client.Name, err)
		client.ERPID = models.NewLocalID()
		client.SyncPending = true
		if s.metrics != nil {
			s.metrics.RecordLocalFallback("client")
		}
	} else {
		client.ERPID = erpID
	}

	if err := s.repo.PutClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to store client: %w", err)
	}

	s.relay.Notify(notify.EventClientCreated, map[string]any{
		"client": client.Name,
		"erp_id": client.ERPID,
	})

	return &client, nil
}

// List returns all clients from the local repository
func (s *Service) List(ctx context.Context) ([]models.Client, error) {
	return s.repo.ListClients(ctx)
}

// Get returns one client by id
func (s *Service) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.repo.GetClient(ctx, id)
}

// GetByToken returns the client owning a portal token
func (s *Service) GetByToken(ctx context.Context, token string) (*models.Client, error) {
	return s.repo.GetClientByToken(ctx, token)
}

// Update applies a partial update locally and mirrors it to the remote
// record when one is linked. A failed remote update leaves the client
// flagged sync_pending rather than failing the operation.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateClientRequest) (*models.Client, error) {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Instagram != nil {
		client.Instagram = *req.Instagram
	}
	if req.Industry != nil {
		client.Industry = *req.Industry
	}
	if req.ContactPhone != nil {
		client.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		client.ContactEmail = *req.ContactEmail
	}

	if !models.IsLocalID(client.ERPID) {
		if err := s.gateway.Update(ctx, doctypeCustomer, client.ERPID, customerFields(*client)); err != nil {
			log.Printf("⚠️  Remote customer update failed for %q: %v", client.Name, err)
			client.SyncPending = true
		}
	}

	if err := s.repo.PutClient(ctx, *client); err != nil {
		return nil, fmt.Errorf("failed to store client: %w", err)
	}

	return client, nil
}

// Delete removes a client. The remote delete is attempted only for
// linked records; a remote failure is logged but never blocks the local
// removal. Local state decides what is still shown.
func (s *Service) Delete(ctx context.Context, id string) error {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return err
	}

	if !models.IsLocalID(client.ERPID) {
		if err := s.gateway.Delete(ctx, doctypeCustomer, client.ERPID); err != nil {
			log.Printf("⚠️  Remote customer delete failed for %q: %v", client.Name, err)
		}
	}

	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.relay.Notify(notify.EventClientDeleted, map[string]any{
		"client": client.Name,
	})

	return nil
}

// Resync retries the remote link for a client still carrying a sentinel
// ERP id. Not triggered automatically; callers invoke it explicitly.
func (s *Service) Resync(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.IsLocalID(client.ERPID) {
		return client, nil
	}

	erpID, err := s.gateway.Create(ctx, doctypeCustomer, customerFields(*client))
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordResync("client", false)
		}
		return nil, err
	}

	client.ERPID = erpID
	client.SyncPending = false
	if err := s.repo.PutClient(ctx, *client); err != nil {
		return nil, fmt.Errorf("failed to store client: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordResync("client", true)
	}
	log.Printf("✅ Client %q linked to remote customer %s", client.Name, erpID)

	return client, nil
}

// customerFields maps a client onto the remote Customer schema
func customerFields(c models.Client) map[string]any {
	return map[string]any{
		"customer_name":  c.Name,
		"customer_type":  "Company",
		"customer_group": "All Customer Groups",
		"territory":      "All Territories",
		"mobile_no":      c.ContactPhone,
		"email_id":       c.ContactEmail,
		"industry":       c.Industry,
	}
}
