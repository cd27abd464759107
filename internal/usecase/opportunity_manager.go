package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/entity"
	"github.com/xavierca1/lead-console/internal/infra/remote"
	"github.com/xavierca1/lead-console/internal/storage"
)

type OpportunityManagerOption func(*OpportunityManager)

func WithOpportunityMetrics(mt Metrics) OpportunityManagerOption {
	return func(m *OpportunityManager) {
		if mt != nil {
			m.metrics = mt
		}
	}
}

func WithOpportunityLogger(l *zap.Logger) OpportunityManagerOption {
	return func(m *OpportunityManager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithClock(now func() time.Time) OpportunityManagerOption {
	return func(m *OpportunityManager) { m.now = now }
}

// OpportunityManager owns the opportunities created from converted leads.
// Mutations wait for the remote round trip before they are committed.
type OpportunityManager struct {
	mu sync.Mutex

	store   *storage.Store
	remote  Remote
	metrics Metrics
	logger  *zap.Logger
	now     func() time.Time

	opportunities []entity.Opportunity
}

func NewOpportunityManager(ctx context.Context, store *storage.Store, rt Remote, opts ...OpportunityManagerOption) *OpportunityManager {
	m := &OpportunityManager{
		store:   store,
		remote:  rt,
		metrics: nopMetrics{},
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	var opps []entity.Opportunity
	if store.Load(ctx, storage.KeyOpportunities, &opps) {
		m.opportunities = opps
	}
	return m
}

func cloneOpportunity(o entity.Opportunity) entity.Opportunity {
	var out entity.Opportunity
	if err := copier.CopyWithOption(&out, &o, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, never for identical structs
		return o
	}
	return out
}

func (m *OpportunityManager) persistLocked(ctx context.Context) {
	m.store.Save(ctx, storage.KeyOpportunities, m.opportunities)
}

func (m *OpportunityManager) indexLocked(id string) int {
	return slices.IndexFunc(m.opportunities, func(o entity.Opportunity) bool { return o.ID == id })
}

// List returns all opportunities in creation order.
func (m *OpportunityManager) List() []entity.Opportunity {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entity.Opportunity, 0, len(m.opportunities))
	for _, o := range m.opportunities {
		out = append(out, cloneOpportunity(o))
	}
	return out
}

func (m *OpportunityManager) Get(id string) (entity.Opportunity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(id)
	if idx < 0 {
		return entity.Opportunity{}, false
	}
	return cloneOpportunity(m.opportunities[idx]), true
}

// Create builds an opportunity from lead and stores it once the remote confirms.
func (m *OpportunityManager) Create(ctx context.Context, lead entity.Lead, amount *float64) (entity.Opportunity, error) {
	if amount != nil && !isValidAmount(*amount) {
		return entity.Opportunity{}, ValidationErrors{{"amount", "must be a non-negative number"}}
	}

	opp, err := entity.NewOpportunity(lead, amount, m.now())
	if err != nil {
		return entity.Opportunity{}, &DomainError{Code: "INVALID_OPPORTUNITY", Message: err.Error()}
	}

	if err := m.remote.RoundTrip(ctx, remote.OpOpportunityCreate); err != nil {
		return entity.Opportunity{}, &SimulatedNetworkError{Op: remote.OpOpportunityCreate, Err: err}
	}

	m.mu.Lock()
	m.opportunities = append(m.opportunities, *opp)
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.metrics.OpportunityCreated()
	m.logger.Info("Opportunity created", zap.String("opportunityId", opp.ID), zap.String("leadId", lead.ID))
	return cloneOpportunity(*opp), nil
}

func (m *OpportunityManager) Update(ctx context.Context, id string, patch entity.OpportunityPatch) (entity.Opportunity, error) {
	if errs := ValidateOpportunityPatch(patch); len(errs) > 0 {
		return entity.Opportunity{}, errs
	}
	if _, ok := m.Get(id); !ok {
		return entity.Opportunity{}, ErrOpportunityNotFound
	}

	if err := m.remote.RoundTrip(ctx, remote.OpOpportunityUpdate); err != nil {
		return entity.Opportunity{}, &SimulatedNetworkError{Op: remote.OpOpportunityUpdate, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// deleted while the round trip was in flight
	idx := m.indexLocked(id)
	if idx < 0 {
		return entity.Opportunity{}, ErrOpportunityNotFound
	}

	updated := m.opportunities[idx]
	if err := copier.CopyWithOption(&updated, &patch, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		return entity.Opportunity{}, &TechnicalError{Code: "PATCH_FAILED", Message: "failed applying opportunity patch", Err: err}
	}
	m.opportunities[idx] = updated
	m.persistLocked(ctx)

	return cloneOpportunity(updated), nil
}

func (m *OpportunityManager) Delete(ctx context.Context, id string) error {
	if _, ok := m.Get(id); !ok {
		return ErrOpportunityNotFound
	}

	if err := m.remote.RoundTrip(ctx, remote.OpOpportunityDelete); err != nil {
		return &SimulatedNetworkError{Op: remote.OpOpportunityDelete, Err: err}
	}

	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx >= 0 {
		m.opportunities = slices.Delete(m.opportunities, idx, idx+1)
		m.persistLocked(ctx)
	}
	m.mu.Unlock()

	m.metrics.OpportunityDeleted()
	m.logger.Info("Opportunity deleted", zap.String("opportunityId", id))
	return nil
}

// Clear removes every opportunity and the persisted key.
func (m *OpportunityManager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.opportunities = nil
	m.store.Remove(ctx, storage.KeyOpportunities)
}

func (m *OpportunityManager) Summary() OpportunitySummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := OpportunitySummary{
		Count:   len(m.opportunities),
		ByStage: make(map[entity.Stage]int, len(entity.Stages)),
	}
	for _, st := range entity.Stages {
		s.ByStage[st] = 0
	}
	for _, o := range m.opportunities {
		s.ByStage[o.Stage]++
		if o.Amount != nil {
			s.TotalValue += *o.Amount
		}
	}
	return s
}
