package usecase

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/debounce"
	"github.com/xavierca1/lead-console/internal/entity"
	"github.com/xavierca1/lead-console/internal/infra/remote"
	"github.com/xavierca1/lead-console/internal/storage"
)

type LeadState string

const (
	LeadStateEmpty   LeadState = "empty"
	LeadStateLoading LeadState = "loading"
	LeadStateReady   LeadState = "ready"
	LeadStateError   LeadState = "error"
)

const DefaultSearchDebounce = 300 * time.Millisecond

type LeadManagerOption func(*LeadManager)

// WithLeadNotifier, WithLeadMetrics and WithLeadLogger ignore nil values.
func WithLeadNotifier(n Notifier) LeadManagerOption {
	return func(m *LeadManager) {
		if n != nil {
			m.notifier = n
		}
	}
}

func WithLeadMetrics(mt Metrics) LeadManagerOption {
	return func(m *LeadManager) {
		if mt != nil {
			m.metrics = mt
		}
	}
}

func WithLeadLogger(l *zap.Logger) LeadManagerOption {
	return func(m *LeadManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSearchDebounce sets how long the search term must be stable before the view
// follows it. Zero applies search changes immediately.
func WithSearchDebounce(d time.Duration) LeadManagerOption {
	return func(m *LeadManager) { m.debounceInterval = d }
}

// WithImportDelay adds a fixed wait before an import file is parsed.
func WithImportDelay(d time.Duration) LeadManagerOption {
	return func(m *LeadManager) { m.importDelay = d }
}

type subscriber struct {
	id int
	fn func(ViewResult)
}

// LeadManager owns the lead collection and its filter configuration. All access
// goes through its methods; callers only ever receive copies.
type LeadManager struct {
	mu sync.Mutex

	store    *storage.Store
	remote   Remote
	notifier Notifier
	metrics  Metrics
	logger   *zap.Logger

	debounceInterval time.Duration
	importDelay      time.Duration
	search           *debounce.Debouncer[string]

	leads         []entity.Lead
	filters       entity.LeadFilters
	appliedSearch string
	state         LeadState
	lastErr       string
	view          ViewResult

	subscribers []subscriber
	nextSubID   int
}

// NewLeadManager restores the collection and filters from store.
func NewLeadManager(ctx context.Context, store *storage.Store, rt Remote, opts ...LeadManagerOption) *LeadManager {
	m := &LeadManager{
		store:            store,
		remote:           rt,
		notifier:         nopNotifier{},
		metrics:          nopMetrics{},
		logger:           zap.NewNop(),
		debounceInterval: DefaultSearchDebounce,
		filters:          entity.DefaultLeadFilters(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.search = debounce.New(m.debounceInterval, m.commitSearch)

	var leads []entity.Lead
	if store.Load(ctx, storage.KeyLeads, &leads) {
		m.leads = leads
	}
	var filters entity.LeadFilters
	if store.Load(ctx, storage.KeyLeadFilters, &filters) {
		m.filters = filters.Normalize()
	}
	m.appliedSearch = m.filters.SearchTerm

	m.state = LeadStateEmpty
	if len(m.leads) > 0 {
		m.state = LeadStateReady
	}

	m.mu.Lock()
	m.recomputeLocked(ctx)
	m.mu.Unlock()

	return m
}

// Close stops the search debouncer. Pending search input is dropped.
func (m *LeadManager) Close() {
	m.search.Stop()
}

// Subscribe registers fn to receive every recomputed view. The returned function
// removes the subscription.
func (m *LeadManager) Subscribe(fn func(ViewResult)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSubID++
	id := m.nextSubID
	m.subscribers = append(m.subscribers, subscriber{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.subscribers = slices.DeleteFunc(m.subscribers, func(s subscriber) bool { return s.id == id })
	}
}

// recomputeLocked refreshes the cached view and returns the function that
// publishes it. Call the returned function after releasing mu.
func (m *LeadManager) recomputeLocked(ctx context.Context) func() {
	f := m.filters
	f.SearchTerm = m.appliedSearch
	m.view = DeriveView(m.leads, f)
	m.metrics.ViewRecomputed()

	if m.view.Page != m.filters.Page {
		m.filters.Page = m.view.Page
		m.persistFiltersLocked(ctx)
	}

	v := cloneView(m.view)
	subs := slices.Clone(m.subscribers)
	return func() {
		for _, s := range subs {
			s.fn(v)
		}
	}
}

func (m *LeadManager) persistLeadsLocked(ctx context.Context) {
	m.store.Save(ctx, storage.KeyLeads, m.leads)
}

func (m *LeadManager) persistFiltersLocked(ctx context.Context) {
	m.store.Save(ctx, storage.KeyLeadFilters, m.filters)
}

func cloneView(v ViewResult) ViewResult {
	v.Leads = slices.Clone(v.Leads)
	v.All = slices.Clone(v.All)
	v.StatusCounts = maps.Clone(v.StatusCounts)
	v.Pages = slices.Clone(v.Pages)
	return v
}

// View returns the current page and its aggregates.
func (m *LeadManager) View() ViewResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneView(m.view)
}

func (m *LeadManager) Filters() entity.LeadFilters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters
}

func (m *LeadManager) State() LeadState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError is the message of the last failed import, empty otherwise.
func (m *LeadManager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *LeadManager) HasData() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leads) > 0
}

// Leads returns the whole unfiltered collection.
func (m *LeadManager) Leads() []entity.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.leads)
}

func (m *LeadManager) Get(id string) (entity.Lead, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(id)
	if idx < 0 {
		return entity.Lead{}, false
	}
	return m.leads[idx], true
}

func (m *LeadManager) indexLocked(id string) int {
	return slices.IndexFunc(m.leads, func(l entity.Lead) bool { return l.ID == id })
}

// Import replaces the collection with the validated content of f. On any failure
// the collection is left as it was and the manager moves to the error state.
func (m *LeadManager) Import(ctx context.Context, f ImportFile) (int, error) {
	m.mu.Lock()
	m.state = LeadStateLoading
	m.lastErr = ""
	m.mu.Unlock()

	if m.importDelay > 0 {
		t := time.NewTimer(m.importDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			err := fmt.Errorf("import cancelled: %w", ctx.Err())
			m.failImport(ctx, err)
			return 0, err
		case <-t.C:
		}
	}

	leads, err := DecodeImportFile(f)
	if err != nil {
		m.failImport(ctx, err)
		return 0, err
	}

	m.mu.Lock()
	m.leads = leads
	m.filters.Page = 1
	m.state = LeadStateReady
	if len(leads) == 0 {
		m.state = LeadStateEmpty
	}
	m.persistLeadsLocked(ctx)
	m.persistFiltersLocked(ctx)
	publish := m.recomputeLocked(ctx)
	m.mu.Unlock()
	publish()

	m.metrics.LeadsImported(len(leads))
	m.logger.Info("Leads imported", zap.String("file", f.Name), zap.Int("count", len(leads)))
	m.notifier.Notify(ctx, Notification{
		Title:       "Leads Loaded Successfully",
		Description: fmt.Sprintf("%d leads have been loaded from the file.", len(leads)),
		Variant:     VariantDefault,
	})

	return len(leads), nil
}

// RejectImport records an upload that failed before its content could reach
// Import, such as a request body over the size limit. The manager passes through
// loading into the error state exactly as Import would.
func (m *LeadManager) RejectImport(ctx context.Context, err error) {
	m.mu.Lock()
	m.state = LeadStateLoading
	m.lastErr = ""
	m.mu.Unlock()

	m.failImport(ctx, err)
}

func (m *LeadManager) failImport(ctx context.Context, err error) {
	m.mu.Lock()
	m.state = LeadStateError
	m.lastErr = err.Error()
	m.mu.Unlock()

	m.metrics.ImportFailed(importFailureReason(err))
	m.logger.Warn("Lead import failed", zap.Error(err))
	m.notifier.Notify(ctx, Notification{
		Title:       "Upload Failed",
		Description: err.Error(),
		Variant:     VariantDestructive,
	})
}

func importFailureReason(err error) string {
	var (
		fte *FileTypeError
		fse *FileSizeError
		pe  *ParseError
		fe  *FormatError
		mfe *MissingFieldError
		ise *InvalidScoreError
		ste *InvalidStatusError
	)
	switch {
	case errors.As(err, &fte):
		return "file_type"
	case errors.As(err, &fse):
		return "file_size"
	case errors.As(err, &pe):
		return "parse"
	case errors.As(err, &fe):
		return "format"
	case errors.As(err, &mfe):
		return "missing_field"
	case errors.As(err, &ise):
		return "invalid_score"
	case errors.As(err, &ste):
		return "invalid_status"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "unknown"
}

// Update merges patch into the lead optimistically, then confirms with the remote.
// When the confirmation fails the patched fields get their previous values back
// (unless a later update already replaced them) and a SimulatedNetworkError is
// returned.
func (m *LeadManager) Update(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error) {
	if errs := ValidateLeadPatch(patch); len(errs) > 0 {
		return entity.Lead{}, errs
	}

	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return entity.Lead{}, ErrLeadNotFound
	}
	prev := m.leads[idx]
	updated := prev
	if err := copier.CopyWithOption(&updated, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		m.mu.Unlock()
		return entity.Lead{}, &TechnicalError{Code: "PATCH_FAILED", Message: "failed applying lead patch", Err: err}
	}
	m.leads[idx] = updated
	m.persistLeadsLocked(ctx)
	publish := m.recomputeLocked(ctx)
	m.mu.Unlock()
	publish()

	if err := m.remote.RoundTrip(ctx, remote.OpLeadUpdate); err != nil {
		m.rollback(context.WithoutCancel(ctx), prev, updated, patch)
		m.metrics.LeadUpdateFailed()
		m.logger.Warn("Lead update not confirmed, rolled back", zap.String("leadId", id), zap.Error(err))
		return entity.Lead{}, &SimulatedNetworkError{Op: remote.OpLeadUpdate, Err: err}
	}

	return updated, nil
}

func (m *LeadManager) rollback(ctx context.Context, prev, applied entity.Lead, patch entity.LeadPatch) {
	m.mu.Lock()
	idx := m.indexLocked(prev.ID)
	if idx < 0 {
		// the collection was cleared or replaced meanwhile
		m.mu.Unlock()
		return
	}

	cur := &m.leads[idx]
	if patch.Email != "" && cur.Email == applied.Email {
		cur.Email = prev.Email
	}
	if patch.Status != "" && cur.Status == applied.Status {
		cur.Status = prev.Status
	}
	m.persistLeadsLocked(ctx)
	publish := m.recomputeLocked(ctx)
	m.mu.Unlock()
	publish()
}

// Clear empties the collection, removes it from storage and resets the filters.
func (m *LeadManager) Clear(ctx context.Context) {
	m.search.Cancel()

	m.mu.Lock()
	m.leads = nil
	m.lastErr = ""
	m.state = LeadStateEmpty
	m.store.Remove(ctx, storage.KeyLeads)
	m.filters = entity.DefaultLeadFilters()
	m.appliedSearch = ""
	m.persistFiltersLocked(ctx)
	publish := m.recomputeLocked(ctx)
	m.mu.Unlock()
	publish()

	m.logger.Info("Leads cleared")
	m.notifier.Notify(ctx, Notification{
		Title:       "Leads Cleared",
		Description: "All leads have been removed.",
		Variant:     VariantDefault,
	})
}

// SetSearchTerm stores the raw search input. The view follows once the term has
// been stable for the debounce interval.
func (m *LeadManager) SetSearchTerm(term string) {
	m.mu.Lock()
	m.filters.SearchTerm = term
	m.persistFiltersLocked(context.Background())
	m.mu.Unlock()

	m.search.Push(term)
}

// FlushSearch applies a pending search term without waiting.
func (m *LeadManager) FlushSearch() {
	m.search.Flush()
}

func (m *LeadManager) commitSearch(term string) {
	ctx := context.Background()

	m.mu.Lock()
	// superseded by a later input, Clear or ClearFilters
	if term == m.appliedSearch || term != m.filters.SearchTerm {
		m.mu.Unlock()
		return
	}
	m.appliedSearch = term
	m.filters.Page = 1
	m.persistFiltersLocked(ctx)
	publish := m.recomputeLocked(ctx)
	m.mu.Unlock()
	publish()
}

// AppliedSearchTerm is the search term the current view is filtered by.
func (m *LeadManager) AppliedSearchTerm() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appliedSearch
}

// mutateFilters applies fn to the filters, persists them and recomputes the view.
func (m *LeadManager) mutateFilters(fn func(f *entity.LeadFilters)) {
	ctx := context.Background()

	m.mu.Lock()
	fn(&m.filters)
	m.persistFiltersLocked(ctx)
	publish := m.recomputeLocked(ctx)
	m.mu.Unlock()
	publish()
}

func (m *LeadManager) SetStatusFilter(status entity.StatusFilter) error {
	if !status.IsValid() {
		return ValidationError{"statusFilter", "must be all, new, contacted, qualified or unqualified"}
	}
	m.mutateFilters(func(f *entity.LeadFilters) {
		f.StatusFilter = status
		f.Page = 1
	})
	return nil
}

func (m *LeadManager) SetSortBy(key entity.SortKey) error {
	if !key.IsValid() {
		return ValidationError{"sortBy", "must be score, name, company or createdAt"}
	}
	m.mutateFilters(func(f *entity.LeadFilters) { f.SortBy = key })
	return nil
}

func (m *LeadManager) SetSortOrder(order entity.SortOrder) error {
	if !order.IsValid() {
		return ValidationError{"sortOrder", "must be asc or desc"}
	}
	m.mutateFilters(func(f *entity.LeadFilters) { f.SortOrder = order })
	return nil
}

func (m *LeadManager) ToggleSortOrder() {
	m.mutateFilters(func(f *entity.LeadFilters) {
		if f.SortOrder == entity.SortAsc {
			f.SortOrder = entity.SortDesc
		} else {
			f.SortOrder = entity.SortAsc
		}
	})
}

func (m *LeadManager) SetPageSize(size int) error {
	if !entity.IsAllowedPageSize(size) {
		return ValidationError{"pageSize", fmt.Sprintf("must be one of %v", entity.PageSizes)}
	}
	m.mutateFilters(func(f *entity.LeadFilters) {
		f.PageSize = size
		f.Page = 1
	})
	return nil
}

// SetPage moves to page, clamped to the available pages.
func (m *LeadManager) SetPage(page int) {
	m.mutateFilters(func(f *entity.LeadFilters) {
		f.Page = ClampPage(page, m.view.TotalPages)
	})
}

func (m *LeadManager) NextPage() {
	m.mutateFilters(func(f *entity.LeadFilters) {
		if m.view.HasNextPage {
			f.Page = m.view.Page + 1
		}
	})
}

func (m *LeadManager) PrevPage() {
	m.mutateFilters(func(f *entity.LeadFilters) {
		if m.view.HasPrevPage {
			f.Page = m.view.Page - 1
		}
	})
}

func (m *LeadManager) FirstPage() {
	m.mutateFilters(func(f *entity.LeadFilters) { f.Page = 1 })
}

func (m *LeadManager) LastPage() {
	m.mutateFilters(func(f *entity.LeadFilters) { f.Page = m.view.TotalPages })
}

// ClearFilters restores the default configuration and drops pending search input.
func (m *LeadManager) ClearFilters() {
	m.search.Cancel()

	m.mu.Lock()
	m.filters = entity.DefaultLeadFilters()
	m.appliedSearch = ""
	m.persistFiltersLocked(context.Background())
	publish := m.recomputeLocked(context.Background())
	m.mu.Unlock()
	publish()
}
