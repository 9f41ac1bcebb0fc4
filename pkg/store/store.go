// Package store is the local repository backing the sync layer: client
// records, portal tokens, and write-path fallback records that could not
// be created remotely yet. The remote document store stays the system of
// record for everything synchronized; this repository only holds what
// the remote does not have.
package store

import (
	"context"
	"errors"

	"github.com/luminamkt/agencyhub/pkg/models"
)

// ErrNotFound is returned when a record does not exist locally
var ErrNotFound = errors.New("store: record not found")

// Repository is the local persistence interface. Constructed once per
// process and injected, so tests can substitute the in-memory
// implementation.
type Repository interface {
	PutClient(ctx context.Context, c models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	GetClientByToken(ctx context.Context, token string) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	DeleteClient(ctx context.Context, id string) error

	PutContentItem(ctx context.Context, item models.ContentGridItem) error
	ListContentItems(ctx context.Context, clientID string) ([]models.ContentGridItem, error)
	DeleteContentItem(ctx context.Context, id string) error

	PutDeliverable(ctx context.Context, d models.Deliverable) error
	ListDeliverables(ctx context.Context, clientID string) ([]models.Deliverable, error)
	DeleteDeliverable(ctx context.Context, id string) error

	PutLead(ctx context.Context, l models.Lead) error
	ListLeads(ctx context.Context) ([]models.Lead, error)
	DeleteLead(ctx context.Context, id string) error
}
