package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-console/internal/entity"
	"github.com/xavierca1/lead-console/internal/storage"
)

func newLead(id, name, company string, score int, status entity.LeadStatus) entity.Lead {
	return entity.Lead{
		ID:        id,
		Name:      name,
		Company:   company,
		Email:     strings.ToLower(name) + "@example.com",
		Source:    "Website",
		Score:     score,
		Status:    status,
		CreatedAt: "2024-01-15T10:00:00Z",
	}
}

// jsonFile encodes v as an import file named leads.json.
func jsonFile(t *testing.T, v any) ImportFile {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return ImportFile{Name: "leads.json", Size: int64(len(body)), Content: strings.NewReader(string(body))}
}

func leadsFile(t *testing.T, leads ...entity.Lead) ImportFile {
	return jsonFile(t, leads)
}

func newMemoryStore() (*storage.Store, *storage.MemoryBackend) {
	backend := storage.NewMemoryBackend()
	return storage.New(backend, nil), backend
}

// MockRemote
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) RoundTrip(ctx context.Context, op string) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

// okRemote confirms every operation immediately.
type okRemote struct{}

func (okRemote) RoundTrip(context.Context, string) error { return nil }

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n Notification) {
	m.Called(ctx, n)
}

// notificationLog records notifications for assertions.
type notificationLog struct {
	mu  sync.Mutex
	all []Notification
}

func (l *notificationLog) Notify(_ context.Context, n Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = append(l.all, n)
}

func (l *notificationLog) titles() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.all))
	for i, n := range l.all {
		out[i] = n.Title
	}
	return out
}

// countingMetrics counts view recomputations.
type countingMetrics struct {
	nopMetrics
	mu         sync.Mutex
	recomputes int
	failures   []string
}

func (c *countingMetrics) ViewRecomputed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recomputes++
}

func (c *countingMetrics) ImportFailed(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, reason)
}

func (c *countingMetrics) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recomputes
}

func manyLeads(n int) []entity.Lead {
	leads := make([]entity.Lead, n)
	for i := range leads {
		leads[i] = newLead(fmt.Sprintf("%d", i+1), fmt.Sprintf("Lead %03d", i+1), "Company", i%101, entity.LeadStatusNew)
	}
	return leads
}

// funcRemote adapts a function to Remote.
type funcRemote func(ctx context.Context, op string) error

func (f funcRemote) RoundTrip(ctx context.Context, op string) error { return f(ctx, op) }
