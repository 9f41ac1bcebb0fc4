package store

import (
	"context"
	"sort"
	"sync"

	"github.com/luminamkt/agencyhub/pkg/models"
)

// Memory is the in-process Repository implementation. Used when no
// REDIS_URL is configured and in tests. Process-lifetime scoped.
type Memory struct {
	mu           sync.RWMutex
	clients      map[string]models.Client
	content      map[string]models.ContentGridItem
	deliverables map[string]models.Deliverable
	leads        map[string]models.Lead
}

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{
		clients:      make(map[string]models.Client),
		content:      make(map[string]models.ContentGridItem),
		deliverables: make(map[string]models.Deliverable),
		leads:        make(map[string]models.Lead),
	}
}

func (m *Memory) PutClient(ctx context.Context, c models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = c
	return nil
}

func (m *Memory) GetClient(ctx context.Context, id string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) GetClientByToken(ctx context.Context, token string) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if c.Token == token {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListClients(ctx context.Context) ([]models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) DeleteClient(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, id)
	return nil
}

func (m *Memory) PutContentItem(ctx context.Context, item models.ContentGridItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[item.ID] = item
	return nil
}

func (m *Memory) ListContentItems(ctx context.Context, clientID string) ([]models.ContentGridItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.ContentGridItem
	for _, item := range m.content {
		if clientID == "" || item.ClientID == clientID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *Memory) DeleteContentItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.content, id)
	return nil
}

func (m *Memory) PutDeliverable(ctx context.Context, d models.Deliverable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliverables[d.ID] = d
	return nil
}

func (m *Memory) ListDeliverables(ctx context.Context, clientID string) ([]models.Deliverable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Deliverable
	for _, d := range m.deliverables {
		if clientID == "" || d.ClientID == clientID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m *Memory) DeleteDeliverable(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.deliverables, id)
	return nil
}

func (m *Memory) PutLead(ctx context.Context, l models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[l.Name] = l
	return nil
}

func (m *Memory) ListLeads(ctx context.Context) ([]models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Lead, 0, len(m.leads))
	for _, l := range m.leads {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Creation < out[j].Creation })
	return out, nil
}

func (m *Memory) DeleteLead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leads, id)
	return nil
}
