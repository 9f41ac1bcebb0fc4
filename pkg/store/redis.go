package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luminamkt/agencyhub/pkg/models"
)

// Redis key layout: one hash per record kind, field = record id. Small
// record counts make full-hash reads acceptable; a restart no longer
// loses LOCAL- pending records.
const (
	keyClients      = "agencyhub:clients"
	keyClientTokens = "agencyhub:client_tokens"
	keyContent      = "agencyhub:content"
	keyDeliverables = "agencyhub:deliverables"
	keyLeads        = "agencyhub:leads"
)

// Redis is the Redis-backed Repository implementation
type Redis struct {
	rdb *redis.Client
}

// NewRedis connects to Redis and returns a Repository backed by it
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	log.Println("✅ Redis connected")

	return &Redis{rdb: rdb}, nil
}

// NewRedisFromClient wraps an existing client (used by tests)
func NewRedisFromClient(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) PutClient(ctx context.Context, c models.Client) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := r.rdb.HSet(ctx, keyClients, c.ID, payload).Err(); err != nil {
		return err
	}
	return r.rdb.HSet(ctx, keyClientTokens, c.Token, c.ID).Err()
}

func (r *Redis) GetClient(ctx context.Context, id string) (*models.Client, error) {
	raw, err := r.rdb.HGet(ctx, keyClients, id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var c models.Client
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Redis) GetClientByToken(ctx context.Context, token string) (*models.Client, error) {
	id, err := r.rdb.HGet(ctx, keyClientTokens, token).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetClient(ctx, id)
}

func (r *Redis) ListClients(ctx context.Context) ([]models.Client, error) {
	raw, err := r.rdb.HGetAll(ctx, keyClients).Result()
	if err != nil {
		return nil, err
	}
	out := make([]models.Client, 0, len(raw))
	for _, v := range raw {
		var c models.Client
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			log.Printf("⚠️  Skipping undecodable client record: %v", err)
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *Redis) DeleteClient(ctx context.Context, id string) error {
	c, err := r.GetClient(ctx, id)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if err := r.rdb.HDel(ctx, keyClientTokens, c.Token).Err(); err != nil {
		return err
	}
	return r.rdb.HDel(ctx, keyClients, id).Err()
}

func (r *Redis) PutContentItem(ctx context.Context, item models.ContentGridItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.rdb.HSet(ctx, keyContent, item.ID, payload).Err()
}

func (r *Redis) ListContentItems(ctx context.Context, clientID string) ([]models.ContentGridItem, error) {
	raw, err := r.rdb.HGetAll(ctx, keyContent).Result()
	if err != nil {
		return nil, err
	}
	var out []models.ContentGridItem
	for _, v := range raw {
		var item models.ContentGridItem
		if err := json.Unmarshal([]byte(v), &item); err != nil {
			log.Printf("⚠️  Skipping undecodable content record: %v", err)
			continue
		}
		if clientID == "" || item.ClientID == clientID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *Redis) DeleteContentItem(ctx context.Context, id string) error {
	return r.rdb.HDel(ctx, keyContent, id).Err()
}

func (r *Redis) PutDeliverable(ctx context.Context, d models.Deliverable) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.rdb.HSet(ctx, keyDeliverables, d.ID, payload).Err()
}

func (r *Redis) ListDeliverables(ctx context.Context, clientID string) ([]models.Deliverable, error) {
	raw, err := r.rdb.HGetAll(ctx, keyDeliverables).Result()
	if err != nil {
		return nil, err
	}
	var out []models.Deliverable
	for _, v := range raw {
		var d models.Deliverable
		if err := json.Unmarshal([]byte(v), &d); err != nil {
			log.Printf("⚠️  Skipping undecodable deliverable record: %v", err)
			continue
		}
		if clientID == "" || d.ClientID == clientID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (r *Redis) DeleteDeliverable(ctx context.Context, id string) error {
	return r.rdb.HDel(ctx, keyDeliverables, id).Err()
}

func (r *Redis) PutLead(ctx context.Context, l models.Lead) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return r.rdb.HSet(ctx, keyLeads, l.Name, payload).Err()
}

func (r *Redis) ListLeads(ctx context.Context) ([]models.Lead, error) {
	raw, err := r.rdb.HGetAll(ctx, keyLeads).Result()
	if err != nil {
		return nil, err
	}
	out := make([]models.Lead, 0, len(raw))
	for _, v := range raw {
		var l models.Lead
		if err := json.Unmarshal([]byte(v), &l); err != nil {
			log.Printf("⚠️  Skipping undecodable lead record: %v", err)
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Creation < out[j].Creation })
	return out, nil
}

func (r *Redis) DeleteLead(ctx context.Context, id string) error {
	return r.rdb.HDel(ctx, keyLeads, id).Err()
}
