package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpportunityFromLead(t *testing.T) {
	lead := Lead{ID: "1", Name: "Bob", Company: "Acme", Status: LeadStatusNew}
	amount := 5000.0
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	opp, err := NewOpportunity(lead, &amount, now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(opp.ID, "opp-"))
	assert.Equal(t, "Acme - Bob", opp.Name)
	assert.Equal(t, StageNew, opp.Stage)
	assert.Equal(t, "Acme", opp.AccountName)
	assert.Equal(t, "1", opp.LeadID)
	assert.Equal(t, "2024-03-01T15:00:00Z", opp.CreatedAt)
	require.NotNil(t, opp.Amount)
	assert.Equal(t, 5000.0, *opp.Amount)

	// the factory copies the amount
	amount = 1
	assert.Equal(t, 5000.0, *opp.Amount)
}

func TestNewOpportunityIDsAreUnique(t *testing.T) {
	lead := Lead{ID: "1", Name: "Bob", Company: "Acme"}
	a, err := NewOpportunity(lead, nil, time.Now())
	require.NoError(t, err)
	b, err := NewOpportunity(lead, nil, time.Now())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, a.Amount)
}

func TestNewOpportunityRejectsNegativeAmount(t *testing.T) {
	amount := -1.0
	_, err := NewOpportunity(Lead{Name: "Bob", Company: "Acme"}, &amount, time.Now())
	assert.Error(t, err)
}

func TestOpportunityValidate(t *testing.T) {
	assert.Error(t, (&Opportunity{Stage: StageNew}).Validate())
	assert.Error(t, (&Opportunity{Name: "x", Stage: "won"}).Validate())
	assert.NoError(t, (&Opportunity{Name: "x", Stage: StageClosedWon}).Validate())
}
