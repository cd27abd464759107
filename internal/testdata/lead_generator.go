// Package testdata generates realistic lead fixtures for tests, demos and the
// sample command of the CLI.
package testdata

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/xavierca1/lead-console/internal/entity"
)

var leadSources = []string{"Website", "Referral", "LinkedIn", "Trade Show", "Cold Call", "Webinar", "Partner"}

// LeadGeneratorConfig configures lead generation
type LeadGeneratorConfig struct {
	Count    int
	Seed     int64
	MinScore int
	MaxScore int
	Since    time.Time // earliest createdAt
	Until    time.Time // latest createdAt
}

func DefaultLeadGeneratorConfig(count int, seed int64) LeadGeneratorConfig {
	until := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	return LeadGeneratorConfig{
		Count:    count,
		Seed:     seed,
		MinScore: entity.MinLeadScore,
		MaxScore: entity.MaxLeadScore,
		Since:    until.AddDate(-1, 0, 0),
		Until:    until,
	}
}

// GenerateLeads returns cfg.Count valid leads. The same seed yields the same leads.
func GenerateLeads(cfg LeadGeneratorConfig) []entity.Lead {
	faker := gofakeit.New(cfg.Seed)

	statuses := make([]string, len(entity.LeadStatuses))
	for i, s := range entity.LeadStatuses {
		statuses[i] = string(s)
	}

	leads := make([]entity.Lead, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		first, last := faker.FirstName(), faker.LastName()
		company := faker.Company()

		leads = append(leads, entity.Lead{
			ID:        fmt.Sprintf("lead-%04d", i+1),
			Name:      first + " " + last,
			Company:   company,
			Email:     generateEmail(first, last, company),
			Source:    faker.RandomString(leadSources),
			Score:     faker.Number(cfg.MinScore, cfg.MaxScore),
			Status:    entity.LeadStatus(faker.RandomString(statuses)),
			CreatedAt: faker.DateRange(cfg.Since, cfg.Until).UTC().Format(time.RFC3339),
		})
	}
	return leads
}

func generateEmail(first, last, company string) string {
	domain := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, company)
	if domain == "" {
		domain = "example"
	}
	local := strings.ToLower(strings.Map(func(r rune) rune {
		if r == ' ' || r == '\'' {
			return -1
		}
		return r
	}, first+"."+last))
	return fmt.Sprintf("%s@%s.com", local, domain)
}

// WriteSampleJSON writes leads as an importable JSON array.
func WriteSampleJSON(w io.Writer, leads []entity.Lead) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(leads); err != nil {
		return fmt.Errorf("failed to encode sample leads: %w", err)
	}
	return nil
}
