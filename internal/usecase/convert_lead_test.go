package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-console/internal/entity"
	"github.com/xavierca1/lead-console/internal/infra/remote"
)

// MockLeadService
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) Get(id string) (entity.Lead, bool) {
	args := m.Called(id)
	return args.Get(0).(entity.Lead), args.Bool(1)
}

func (m *MockLeadService) Update(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(entity.Lead), args.Error(1)
}

// MockOpportunityService
type MockOpportunityService struct {
	mock.Mock
}

func (m *MockOpportunityService) Create(ctx context.Context, lead entity.Lead, amount *float64) (entity.Opportunity, error) {
	args := m.Called(ctx, lead, amount)
	return args.Get(0).(entity.Opportunity), args.Error(1)
}

func (m *MockOpportunityService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TestConvertLeadSuccess - Bob at Acme becomes "Acme - Bob" and the lead is qualified
func TestConvertLeadSuccess(t *testing.T) {
	store, _ := newMemoryStore()
	leads := newTestLeadManager(t, store, okRemote{})
	opps := newTestOpportunityManager(store, okRemote{})
	notes := &notificationLog{}
	importLeads(t, leads, newLead("lead-1", "Bob", "Acme", 80, entity.LeadStatusContacted))

	uc := NewConvertLeadUseCase(leads, opps, notes, nil)
	out, err := uc.Execute(context.Background(), ConvertLeadInput{LeadID: "lead-1", Amount: amount(5000)})
	require.NoError(t, err)

	assert.Equal(t, "Acme - Bob", out.Opportunity.Name)
	assert.Equal(t, "Acme", out.Opportunity.AccountName)
	assert.Equal(t, entity.StageNew, out.Opportunity.Stage)
	assert.Equal(t, 5000.0, *out.Opportunity.Amount)
	assert.Equal(t, entity.LeadStatusQualified, out.Lead.Status)

	lead, _ := leads.Get("lead-1")
	assert.Equal(t, entity.LeadStatusQualified, lead.Status)
	assert.Len(t, opps.List(), 1)
	assert.Equal(t, []string{"Lead Converted"}, notes.titles())
}

func TestConvertLeadNotFound(t *testing.T) {
	leads := new(MockLeadService)
	opps := new(MockOpportunityService)
	leads.On("Get", "missing").Return(entity.Lead{}, false)

	uc := NewConvertLeadUseCase(leads, opps, nil, nil)
	_, err := uc.Execute(context.Background(), ConvertLeadInput{LeadID: "missing"})

	assert.ErrorIs(t, err, ErrLeadNotFound)
	opps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestConvertLeadRejectsNegativeAmount(t *testing.T) {
	leads := new(MockLeadService)
	opps := new(MockOpportunityService)
	leads.On("Get", "1").Return(newLead("1", "Bob", "Acme", 1, entity.LeadStatusNew), true)

	uc := NewConvertLeadUseCase(leads, opps, nil, nil)
	_, err := uc.Execute(context.Background(), ConvertLeadInput{LeadID: "1", Amount: amount(-5)})

	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	opps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

// TestConvertLeadCompensatesOpportunity - a failed qualification deletes the new opportunity
func TestConvertLeadCompensatesOpportunity(t *testing.T) {
	store, _ := newMemoryStore()
	opps := newTestOpportunityManager(store, okRemote{})
	notes := &notificationLog{}
	lead := newLead("1", "Bob", "Acme", 80, entity.LeadStatusNew)

	leads := new(MockLeadService)
	leads.On("Get", "1").Return(lead, true)
	leads.On("Update", mock.Anything, "1", entity.LeadPatch{Status: entity.LeadStatusQualified}).
		Return(entity.Lead{}, &SimulatedNetworkError{Op: remote.OpLeadUpdate, Err: remote.ErrNetwork})

	uc := NewConvertLeadUseCase(leads, opps, notes, nil)
	_, err := uc.Execute(context.Background(), ConvertLeadInput{LeadID: "1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrNetwork)
	assert.Contains(t, err.Error(), "qualify_lead")
	assert.Empty(t, opps.List())
	assert.Equal(t, []string{"Conversion Failed"}, notes.titles())
	assert.Equal(t, "Failed to convert lead. Please try again.", notes.all[0].Description)
	leads.AssertExpectations(t)
}

func TestConvertLeadCreateFailure(t *testing.T) {
	lead := newLead("1", "Bob", "Acme", 80, entity.LeadStatusNew)
	leads := new(MockLeadService)
	opps := new(MockOpportunityService)
	leads.On("Get", "1").Return(lead, true)
	opps.On("Create", mock.Anything, lead, (*float64)(nil)).Return(entity.Opportunity{}, errors.New("boom"))

	uc := NewConvertLeadUseCase(leads, opps, nil, nil)
	_, err := uc.Execute(context.Background(), ConvertLeadInput{LeadID: "1"})

	assert.Error(t, err)
	opps.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
