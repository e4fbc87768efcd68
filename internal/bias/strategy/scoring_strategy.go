package strategy

import (
	"context"
	"fmt"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/scoring"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/logger"
)

// ScoringStrategy runs a scoring pass for one mode.
type ScoringStrategy struct {
	mode    entity.RunMode
	scoring scoring.ScoringService
	drivers scoring.MarketDriverClassifier
	logger  *logger.Logger
}

// NewWeeklyScoringStrategy creates the weekly strategy.
func NewWeeklyScoringStrategy(log *logger.Logger, scoringService scoring.ScoringService) RunStrategy {
	return &ScoringStrategy{mode: entity.ModeWeekly, scoring: scoringService, logger: log}
}

// NewHourlyScoringStrategy creates the hourly strategy. Market drivers are
// reclassified after every hourly pass.
func NewHourlyScoringStrategy(log *logger.Logger, scoringService scoring.ScoringService, drivers scoring.MarketDriverClassifier) RunStrategy {
	return &ScoringStrategy{mode: entity.ModeHourly, scoring: scoringService, drivers: drivers, logger: log}
}

// GetType returns the run mode this strategy handles.
func (s *ScoringStrategy) GetType() entity.RunMode {
	return s.mode
}

// Execute scores every currency, then derives pair and index bias.
func (s *ScoringStrategy) Execute(ctx context.Context, req dto.RunRequest) (dto.RunOutcome, error) {
	result, err := s.scoring.Run(ctx, req.RunID, string(s.mode))
	if err != nil {
		return dto.RunOutcome{}, fmt.Errorf("failed to run %s scoring: %w", s.mode, err)
	}

	output := dto.ScoringOutput{ScoringResult: result}
	if s.drivers != nil {
		drivers, err := s.drivers.Classify(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "Market driver update failed after scoring", logger.ErrorField(err))
		} else {
			output.Drivers = &drivers
		}
	}
	return dto.RunOutcome{Output: output}, nil
}
