package strategy

import (
	"context"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"
)

// RunStrategy defines the interface for the pipelines a bias run can execute.
type RunStrategy interface {
	Execute(ctx context.Context, req dto.RunRequest) (dto.RunOutcome, error)
	GetType() entity.RunMode
}

// Recalculator triggers a full hourly recompute after high-impact releases.
type Recalculator interface {
	Recalculate(ctx context.Context, trigger string) error
}

// RecalculateFunc adapts a function to Recalculator.
type RecalculateFunc func(ctx context.Context, trigger string) error

func (f RecalculateFunc) Recalculate(ctx context.Context, trigger string) error {
	return f(ctx, trigger)
}
