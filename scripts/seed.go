package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/luminamkt/agencyhub/config"
	"github.com/luminamkt/agencyhub/pkg/billing"
	"github.com/luminamkt/agencyhub/pkg/clients"
	"github.com/luminamkt/agencyhub/pkg/contentgrid"
	"github.com/luminamkt/agencyhub/pkg/deliverables"
	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/leads"
	"github.com/luminamkt/agencyhub/pkg/models"
	"github.com/luminamkt/agencyhub/pkg/notify"
	"github.com/luminamkt/agencyhub/pkg/store"
	"github.com/luminamkt/agencyhub/pkg/testdata"
)

// Seeds demo data through the service layer so every record goes through
// the same codec and sync path the API uses. Run with:
//
//	go run ./scripts -clients 5 -leads 12
func main() {
	clientCount := flag.Int("clients", 5, "Number of clients to create")
	contentPerClient := flag.Int("content", 8, "Content grid items per client")
	deliverablesPerClient := flag.Int("deliverables", 3, "Deliverables per client")
	leadCount := flag.Int("leads", 12, "Pipeline leads to create")
	flag.Parse()

	cfg := config.Load()

	var repo store.Repository
	if cfg.RedisURL != "" {
		redisRepo, err := store.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		defer redisRepo.Close()
		repo = redisRepo
	} else {
		log.Printf("⚠️  No REDIS_URL set; seeding an in-memory repository is only useful against a configured remote store")
		repo = store.NewMemory()
	}

	gateway := erp.NewClient(cfg.ERPBaseURL, cfg.ERPAPIKey, cfg.ERPAPISecret, nil)
	relay := notify.NewRelay(nil) // no sinks: seeding should not ping anyone

	clientService := clients.NewService(gateway, repo, relay, nil)
	contentService := contentgrid.NewService(gateway, repo, relay, nil)
	deliverableService := deliverables.NewService(gateway, repo, relay, nil)
	leadService := leads.NewService(gateway, repo, relay, nil, cfg.LeadPhoneRegion)
	_ = billing.NewService(gateway, relay) // billing is read-only; nothing to seed

	genCfg := testdata.DefaultGeneratorConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for i := 0; i < *clientCount; i++ {
		client, err := clientService.Create(ctx, testdata.Client())
		if err != nil {
			log.Fatalf("❌ Failed to create client: %v", err)
		}
		log.Printf("✅ Client %s (erp: %s, portal token: %s)", client.Name, client.ERPID, client.Token)

		for d := 0; d < *contentPerClient; d++ {
			if _, err := contentService.Create(ctx, client.ID, testdata.ContentItem(d)); err != nil {
				log.Printf("⚠️  Content item for %s failed: %v", client.Name, err)
			}
		}

		for d := 0; d < *deliverablesPerClient; d++ {
			dl, err := deliverableService.Create(ctx, testdata.Deliverable(client.ID, client.Name, genCfg))
			if err != nil {
				log.Printf("⚠️  Deliverable for %s failed: %v", client.Name, err)
				continue
			}
			if rand.Float64() < genCfg.FeedbackChance {
				_, err := deliverableService.UpdateStatus(ctx, dl.ID, models.UpdateDeliverableStatusRequest{
					Status: models.DeliverableStatusChangesRequested,
					Feedback: &models.Feedback{
						Comment: testdata.FeedbackComment(),
						Author:  client.Name,
					},
				})
				if err != nil {
					log.Printf("⚠️  Feedback on %s failed: %v", dl.ID, err)
				}
			}
		}
	}

	for i := 0; i < *leadCount; i++ {
		if _, err := leadService.Create(ctx, testdata.Lead(genCfg)); err != nil {
			log.Printf("⚠️  Lead failed: %v", err)
		}
	}

	log.Printf("🌱 Seeded %d clients, %d leads", *clientCount, *leadCount)
}
