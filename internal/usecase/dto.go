package usecase

import "github.com/xavierca1/lead-console/internal/entity"

type ConvertLeadInput struct {
	LeadID string   `json:"leadId"`
	Amount *float64 `json:"amount,omitempty"`
}

type ConvertLeadOutput struct {
	Opportunity entity.Opportunity `json:"opportunity"`
	Lead        entity.Lead        `json:"lead"`
}

// OpportunitySummary aggregates the opportunity list.
type OpportunitySummary struct {
	Count      int                  `json:"count"`
	TotalValue float64              `json:"totalValue"`
	ByStage    map[entity.Stage]int `json:"byStage"`
}
