package usecase

import (
	"context"

	"github.com/xavierca1/lead-console/internal/entity"
)

// Remote confirms a mutation with the (simulated) backend.
type Remote interface {
	RoundTrip(ctx context.Context, op string) error
}

type NotificationVariant string

const (
	VariantDefault     NotificationVariant = "default"
	VariantDestructive NotificationVariant = "destructive"
)

// Notification is a user-facing message about the outcome of an operation.
type Notification struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Variant     NotificationVariant `json:"variant"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Metrics records domain events. The prometheus implementation lives in the http
// middleware package.
type Metrics interface {
	LeadsImported(count int)
	ImportFailed(reason string)
	LeadUpdateFailed()
	ViewRecomputed()
	OpportunityCreated()
	OpportunityDeleted()
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}

type nopMetrics struct{}

func (nopMetrics) LeadsImported(int)   {}
func (nopMetrics) ImportFailed(string) {}
func (nopMetrics) LeadUpdateFailed()   {}
func (nopMetrics) ViewRecomputed()     {}
func (nopMetrics) OpportunityCreated() {}
func (nopMetrics) OpportunityDeleted() {}

// LeadService is the part of LeadManager the conversion flow needs.
type LeadService interface {
	Get(id string) (entity.Lead, bool)
	Update(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error)
}

// OpportunityService is the part of OpportunityManager the conversion flow needs.
type OpportunityService interface {
	Create(ctx context.Context, lead entity.Lead, amount *float64) (entity.Opportunity, error)
	Delete(ctx context.Context, id string) error
}
