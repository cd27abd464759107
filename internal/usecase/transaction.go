package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Transaction runs steps in order. When a step fails the compensations of the
// steps that already ran are executed in reverse order.
type Transaction struct {
	steps  []Step
	logger *zap.Logger
}

type Step struct {
	Name       string
	Run        func(context.Context) error
	Compensate func(context.Context) error // optional
}

func NewTransaction(logger *zap.Logger) *Transaction {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transaction{logger: logger}
}

func (t *Transaction) AddStep(name string, run, compensate func(context.Context) error) {
	t.steps = append(t.steps, Step{Name: name, Run: run, Compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, step := range t.steps {
		if err := step.Run(ctx); err != nil {
			t.rollback(context.WithoutCancel(ctx), i)
			return fmt.Errorf("step '%s' failed: %w (rolled back %d steps)", step.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		step := t.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			t.logger.Error("Compensation failed, state may be inconsistent",
				zap.String("step", step.Name), zap.Error(err))
		}
	}
}
