package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-console/internal/entity"
	"github.com/xavierca1/lead-console/internal/infra/remote"
	"github.com/xavierca1/lead-console/internal/storage"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestOpportunityManager(store *storage.Store, rt Remote, opts ...OpportunityManagerOption) *OpportunityManager {
	opts = append([]OpportunityManagerOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewOpportunityManager(context.Background(), store, rt, opts...)
}

func amount(v float64) *float64 { return &v }

type oppMetrics struct {
	nopMetrics
	created, deleted int
}

func (m *oppMetrics) OpportunityCreated() { m.created++ }
func (m *oppMetrics) OpportunityDeleted() { m.deleted++ }

func TestOpportunityManagerCreate(t *testing.T) {
	store, backend := newMemoryStore()
	metrics := &oppMetrics{}
	m := newTestOpportunityManager(store, okRemote{}, WithOpportunityMetrics(metrics))
	lead := newLead("lead-1", "Bob", "Acme", 80, entity.LeadStatusContacted)

	opp, err := m.Create(context.Background(), lead, amount(5000))
	require.NoError(t, err)

	assert.Equal(t, "Acme - Bob", opp.Name)
	assert.Equal(t, entity.StageNew, opp.Stage)
	assert.Equal(t, "Acme", opp.AccountName)
	assert.Equal(t, "lead-1", opp.LeadID)
	assert.Equal(t, "2024-03-01T12:00:00Z", opp.CreatedAt)
	require.NotNil(t, opp.Amount)
	assert.Equal(t, 5000.0, *opp.Amount)
	assert.True(t, backend.Has(storage.KeyOpportunities))
	assert.Equal(t, 1, metrics.created)

	assert.Equal(t, []entity.Opportunity{opp}, m.List())
}

func TestOpportunityManagerCreateWithoutAmount(t *testing.T) {
	store, _ := newMemoryStore()
	m := newTestOpportunityManager(store, okRemote{})

	opp, err := m.Create(context.Background(), newLead("1", "Ann", "Initech", 10, entity.LeadStatusNew), nil)
	require.NoError(t, err)
	assert.Nil(t, opp.Amount)
}

func TestOpportunityManagerCreateRejectsBadAmount(t *testing.T) {
	store, _ := newMemoryStore()
	rt := new(MockRemote)
	m := newTestOpportunityManager(store, rt)

	_, err := m.Create(context.Background(), newLead("1", "Ann", "Initech", 10, entity.LeadStatusNew), amount(-1))

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "amount", verrs[0].Field)
	assert.Empty(t, m.List())
	rt.AssertNotCalled(t, "RoundTrip", mock.Anything, mock.Anything)
}

// TestOpportunityManagerCreateRemoteFailure - nothing is stored until the remote confirms
func TestOpportunityManagerCreateRemoteFailure(t *testing.T) {
	store, backend := newMemoryStore()
	rt := new(MockRemote)
	rt.On("RoundTrip", mock.Anything, remote.OpOpportunityCreate).Return(remote.ErrNetwork)
	m := newTestOpportunityManager(store, rt)

	_, err := m.Create(context.Background(), newLead("1", "Ann", "Initech", 10, entity.LeadStatusNew), nil)

	var sne *SimulatedNetworkError
	require.ErrorAs(t, err, &sne)
	assert.Equal(t, "Failed to create opportunity", err.Error())
	assert.Empty(t, m.List())
	assert.False(t, backend.Has(storage.KeyOpportunities))
	rt.AssertExpectations(t)
}

func TestOpportunityManagerUpdate(t *testing.T) {
	store, _ := newMemoryStore()
	m := newTestOpportunityManager(store, okRemote{})
	opp, err := m.Create(context.Background(), newLead("1", "Bob", "Acme", 10, entity.LeadStatusNew), amount(100))
	require.NoError(t, err)

	updated, err := m.Update(context.Background(), opp.ID, entity.OpportunityPatch{Stage: entity.StageProposal})
	require.NoError(t, err)
	assert.Equal(t, entity.StageProposal, updated.Stage)
	assert.Equal(t, opp.Name, updated.Name)
	assert.Equal(t, 100.0, *updated.Amount)

	updated, err = m.Update(context.Background(), opp.ID, entity.OpportunityPatch{Amount: amount(250)})
	require.NoError(t, err)
	assert.Equal(t, "Acme - Bob", updated.Name)
	assert.Equal(t, 250.0, *updated.Amount)
	assert.Equal(t, entity.StageProposal, updated.Stage)

	reloaded := newTestOpportunityManager(store, okRemote{})
	got, ok := reloaded.Get(opp.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got)
}

func TestOpportunityManagerUpdateErrors(t *testing.T) {
	store, _ := newMemoryStore()
	rt := new(MockRemote)
	rt.On("RoundTrip", mock.Anything, remote.OpOpportunityCreate).Return(nil)
	rt.On("RoundTrip", mock.Anything, remote.OpOpportunityUpdate).Return(remote.ErrNetwork)
	m := newTestOpportunityManager(store, rt)
	opp, err := m.Create(context.Background(), newLead("1", "Bob", "Acme", 10, entity.LeadStatusNew), nil)
	require.NoError(t, err)

	_, err = m.Update(context.Background(), "opp-missing", entity.OpportunityPatch{Stage: entity.StageOpen})
	assert.ErrorIs(t, err, ErrOpportunityNotFound)

	var verrs ValidationErrors
	_, err = m.Update(context.Background(), opp.ID, entity.OpportunityPatch{})
	assert.ErrorAs(t, err, &verrs)
	_, err = m.Update(context.Background(), opp.ID, entity.OpportunityPatch{Stage: "lost"})
	assert.ErrorAs(t, err, &verrs)

	_, err = m.Update(context.Background(), opp.ID, entity.OpportunityPatch{Stage: entity.StageClosedWon})
	var sne *SimulatedNetworkError
	assert.ErrorAs(t, err, &sne)

	got, _ := m.Get(opp.ID)
	assert.Equal(t, entity.StageNew, got.Stage, "unconfirmed update is not applied")
}

func TestOpportunityManagerDelete(t *testing.T) {
	store, _ := newMemoryStore()
	metrics := &oppMetrics{}
	m := newTestOpportunityManager(store, okRemote{}, WithOpportunityMetrics(metrics))

	first, err := m.Create(context.Background(), newLead("1", "Bob", "Acme", 10, entity.LeadStatusNew), nil)
	require.NoError(t, err)
	second, err := m.Create(context.Background(), newLead("2", "Ann", "Initech", 10, entity.LeadStatusNew), nil)
	require.NoError(t, err)

	require.NoError(t, m.Delete(context.Background(), first.ID))
	assert.Equal(t, []entity.Opportunity{second}, m.List())
	assert.Equal(t, 1, metrics.deleted)

	assert.ErrorIs(t, m.Delete(context.Background(), first.ID), ErrOpportunityNotFound)

	reloaded := newTestOpportunityManager(store, okRemote{})
	assert.Equal(t, []entity.Opportunity{second}, reloaded.List())
}

func TestOpportunityManagerDeleteRemoteFailure(t *testing.T) {
	store, _ := newMemoryStore()
	rt := new(MockRemote)
	rt.On("RoundTrip", mock.Anything, remote.OpOpportunityCreate).Return(nil)
	rt.On("RoundTrip", mock.Anything, remote.OpOpportunityDelete).Return(remote.ErrNetwork)
	m := newTestOpportunityManager(store, rt)
	opp, err := m.Create(context.Background(), newLead("1", "Bob", "Acme", 10, entity.LeadStatusNew), nil)
	require.NoError(t, err)

	err = m.Delete(context.Background(), opp.ID)
	assert.EqualError(t, err, "Failed to delete opportunity")
	assert.Len(t, m.List(), 1)
}

func TestOpportunityManagerClearAndSummary(t *testing.T) {
	store, backend := newMemoryStore()
	m := newTestOpportunityManager(store, okRemote{})

	empty := m.Summary()
	assert.Zero(t, empty.Count)
	assert.Len(t, empty.ByStage, len(entity.Stages))

	a, err := m.Create(context.Background(), newLead("1", "Bob", "Acme", 10, entity.LeadStatusNew), amount(5000))
	require.NoError(t, err)
	_, err = m.Create(context.Background(), newLead("2", "Ann", "Initech", 10, entity.LeadStatusNew), amount(1500.5))
	require.NoError(t, err)
	_, err = m.Create(context.Background(), newLead("3", "Cid", "Hooli", 10, entity.LeadStatusNew), nil)
	require.NoError(t, err)
	_, err = m.Update(context.Background(), a.ID, entity.OpportunityPatch{Stage: entity.StageClosedWon})
	require.NoError(t, err)

	s := m.Summary()
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 6500.5, s.TotalValue)
	assert.Equal(t, 2, s.ByStage[entity.StageNew])
	assert.Equal(t, 1, s.ByStage[entity.StageClosedWon])
	assert.Equal(t, 0, s.ByStage[entity.StageProposal])

	m.Clear(context.Background())
	assert.Empty(t, m.List())
	assert.False(t, backend.Has(storage.KeyOpportunities))
}

// TestOpportunityManagerReturnsCopies - callers cannot reach stored amounts
func TestOpportunityManagerReturnsCopies(t *testing.T) {
	store, _ := newMemoryStore()
	m := newTestOpportunityManager(store, okRemote{})
	opp, err := m.Create(context.Background(), newLead("1", "Bob", "Acme", 10, entity.LeadStatusNew), amount(10))
	require.NoError(t, err)

	*opp.Amount = 99
	listed := m.List()
	*listed[0].Amount = 55

	got, _ := m.Get(opp.ID)
	assert.Equal(t, 10.0, *got.Amount)
}
