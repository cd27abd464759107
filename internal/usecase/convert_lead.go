package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/entity"
)

// ConvertLeadUseCase turns a lead into an opportunity and marks the lead qualified.
// Neither manager knows about the other; the coupling lives here.
type ConvertLeadUseCase struct {
	Leads         LeadService
	Opportunities OpportunityService
	Notifier      Notifier
	Logger        *zap.Logger
}

func NewConvertLeadUseCase(leads LeadService, opps OpportunityService, notifier Notifier, logger *zap.Logger) *ConvertLeadUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConvertLeadUseCase{
		Leads:         leads,
		Opportunities: opps,
		Notifier:      notifier,
		Logger:        logger,
	}
}

func (uc *ConvertLeadUseCase) Execute(ctx context.Context, input ConvertLeadInput) (*ConvertLeadOutput, error) {
	lead, ok := uc.Leads.Get(input.LeadID)
	if !ok {
		return nil, ErrLeadNotFound
	}
	if input.Amount != nil && !isValidAmount(*input.Amount) {
		return nil, ValidationErrors{{"amount", "must be a non-negative number"}}
	}

	var (
		opp       entity.Opportunity
		qualified entity.Lead
	)

	tx := NewTransaction(uc.Logger)
	tx.AddStep("create_opportunity",
		func(ctx context.Context) error {
			var err error
			opp, err = uc.Opportunities.Create(ctx, lead, input.Amount)
			return err
		},
		func(ctx context.Context) error {
			return uc.Opportunities.Delete(ctx, opp.ID)
		},
	)
	tx.AddStep("qualify_lead",
		func(ctx context.Context) error {
			var err error
			qualified, err = uc.Leads.Update(ctx, lead.ID, entity.LeadPatch{Status: entity.LeadStatusQualified})
			return err
		},
		nil,
	)

	if err := tx.Execute(ctx); err != nil {
		uc.Logger.Warn("Lead conversion failed", zap.String("leadId", lead.ID), zap.Error(err))
		uc.Notifier.Notify(ctx, Notification{
			Title:       "Conversion Failed",
			Description: "Failed to convert lead. Please try again.",
			Variant:     VariantDestructive,
		})
		return nil, err
	}

	uc.Logger.Info("Lead converted", zap.String("leadId", lead.ID), zap.String("opportunityId", opp.ID))
	uc.Notifier.Notify(ctx, Notification{
		Title:       "Lead Converted",
		Description: "Lead has been successfully converted to an opportunity.",
		Variant:     VariantDefault,
	})

	return &ConvertLeadOutput{Opportunity: opp, Lead: qualified}, nil
}
