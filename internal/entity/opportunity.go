package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageNew         Stage = "new"
	StageOpen        Stage = "open"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageClosedWon   Stage = "closed-won"
	StageClosedLost  Stage = "closed-lost"
)

var Stages = []Stage{
	StageNew,
	StageOpen,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

func (s Stage) IsValid() bool {
	switch s {
	case StageNew, StageOpen, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	default:
		return false
	}
}

type Opportunity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Stage       Stage    `json:"stage"`
	Amount      *float64 `json:"amount,omitempty"`
	AccountName string   `json:"accountName"`
	CreatedAt   string   `json:"createdAt"`
	LeadID      string   `json:"leadId,omitempty"`
}

// OpportunityPatch is a partial update. Nil / empty fields are left untouched.
// Name is fixed at creation and has no patch field.
type OpportunityPatch struct {
	Stage  Stage    `json:"stage,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
}

// Factory
func NewOpportunity(lead Lead, amount *float64, now time.Time) (*Opportunity, error) {
	opp := &Opportunity{
		ID:          "opp-" + uuid.New().String(),
		Name:        fmt.Sprintf("%s - %s", lead.Company, lead.Name),
		Stage:       StageNew,
		AccountName: lead.Company,
		CreatedAt:   now.UTC().Format(time.RFC3339),
		LeadID:      lead.ID,
	}
	if amount != nil {
		v := *amount
		opp.Amount = &v
	}

	if err := opp.Validate(); err != nil {
		return nil, err
	}

	return opp, nil
}

func (o *Opportunity) Validate() error {
	if o.Name == "" {
		return errors.New("name is required")
	}
	if !o.Stage.IsValid() {
		return fmt.Errorf("invalid stage %q", o.Stage)
	}
	if o.Amount != nil && *o.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	return nil
}
