package testdata

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/luminamkt/agencyhub/pkg/models"
)

// GeneratorConfig configures fake data generation parameters
type GeneratorConfig struct {
	Clients            int
	ContentPerClient   int
	DeliverablesPerDay int
	Leads              int
	FeedbackChance     float64 // 0.0-1.0 (probability a deliverable carries feedback)
	PhoneChance        float64
	EmailChance        float64
}

// DefaultGeneratorConfig returns sensible demo-sized defaults
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Clients:            5,
		ContentPerClient:   8,
		DeliverablesPerDay: 2,
		Leads:              12,
		FeedbackChance:     0.4,
		PhoneChance:        0.8,
		EmailChance:        0.9,
	}
}

var industries = []string{
	"restaurant", "beauty", "fitness", "fashion", "real estate",
	"dental", "automotive", "education",
}

var contentTypes = []string{"post", "reel", "carousel", "story"}

var platformSets = [][]string{
	{"instagram"},
	{"instagram", "facebook"},
	{"instagram", "tiktok"},
	{"facebook"},
	{"tiktok"},
}

var deliverableTypes = []string{"video", "design", "copy", "report"}

var feedbackComments = []string{
	"Love it, ship it!",
	"Can we try a brighter color palette?",
	"The logo is too small in the closing frame.",
	"Please swap the second slide with the third.",
	"Text overlay is hard to read on mobile.",
	"Perfect, exactly what we discussed.",
}

// Client generates one fake client creation request
func Client() models.CreateClientRequest {
	company := gofakeit.Company()
	handle := strings.ToLower(strings.ReplaceAll(company, " ", ""))
	if len(handle) > 20 {
		handle = handle[:20]
	}

	return models.CreateClientRequest{
		Name:         company,
		Instagram:    "@" + handle,
		Industry:     industries[rand.Intn(len(industries))],
		ContactPhone: gofakeit.Phone(),
		ContactEmail: gofakeit.Email(),
	}
}

// ContentItem generates one fake content grid item for the given day offset
func ContentItem(dayOffset int) models.CreateContentRequest {
	date := time.Now().AddDate(0, 0, dayOffset).Format("2006-01-02")

	return models.CreateContentRequest{
		Date:      date,
		Platforms: platformSets[rand.Intn(len(platformSets))],
		Type:      contentTypes[rand.Intn(len(contentTypes))],
		Concept:   gofakeit.Sentence(4),
		Caption:   gofakeit.Sentence(8) + " " + hashtags(3),
		Notes:     gofakeit.Sentence(6),
	}
}

// Deliverable generates one fake deliverable for a client
func Deliverable(clientID, clientName string, cfg GeneratorConfig) models.CreateDeliverableRequest {
	kind := deliverableTypes[rand.Intn(len(deliverableTypes))]

	return models.CreateDeliverableRequest{
		Title:       fmt.Sprintf("%s %s", gofakeit.BuzzWord(), kind),
		ClientID:    clientID,
		ClientName:  clientName,
		Type:        kind,
		URL:         gofakeit.URL(),
		Description: gofakeit.Sentence(10),
	}
}

// FeedbackComment returns one plausible client comment
func FeedbackComment() string {
	return feedbackComments[rand.Intn(len(feedbackComments))]
}

// Lead generates one fake pipeline lead
func Lead(cfg GeneratorConfig) models.CreateLeadRequest {
	req := models.CreateLeadRequest{
		LeadName: gofakeit.Company(),
		Title:    gofakeit.JobTitle(),
		Status:   models.LeadStatuses[rand.Intn(len(models.LeadStatuses))],
	}
	if rand.Float64() < cfg.PhoneChance {
		req.MobileNo = gofakeit.Phone()
	}
	if rand.Float64() < cfg.EmailChance {
		req.EmailID = gofakeit.Email()
	}
	return req
}

func hashtags(n int) string {
	tags := make([]string, n)
	for i := range tags {
		tags[i] = "#" + strings.ToLower(gofakeit.BuzzWord())
	}
	return strings.Join(tags, " ")
}
