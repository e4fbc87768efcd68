package strategy

import (
	"context"
	"fmt"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/scoring"
	"golang-fundamental-bias/internal/entity"
)

// DriversStrategy reclassifies the market drivers from persisted scores.
type DriversStrategy struct {
	classifier scoring.MarketDriverClassifier
}

// NewDriversStrategy creates a DriversStrategy.
func NewDriversStrategy(classifier scoring.MarketDriverClassifier) RunStrategy {
	return &DriversStrategy{classifier: classifier}
}

// GetType returns the run mode this strategy handles.
func (s *DriversStrategy) GetType() entity.RunMode {
	return entity.ModeDrivers
}

func (s *DriversStrategy) Execute(ctx context.Context, _ dto.RunRequest) (dto.RunOutcome, error) {
	result, err := s.classifier.Classify(ctx)
	if err != nil {
		return dto.RunOutcome{Output: result}, fmt.Errorf("failed to classify market drivers: %w", err)
	}
	return dto.RunOutcome{Output: result}, nil
}
