package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/repository"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/utils"

	"gorm.io/datatypes"
)

// ScoringService runs one full scoring pass: currency scores, then pair and
// index bias.
type ScoringService interface {
	Run(ctx context.Context, runID, mode string) (dto.ScoringResult, error)
}

// ScoringDeps groups the collaborators of a scoring pass.
type ScoringDeps struct {
	Calendar     CalendarService
	Markets      MarketDataService
	Macro        MacroService
	EconomicRepo repository.EconomicScoreRepository
	ScoreRepo    repository.CurrencyScoreRepository
	BiasRepo     repository.BiasRepository
}

type scoringService struct {
	ScoringDeps
	scorer       *CurrencyScorer
	pairDeriver  *PairBiasDeriver
	indexDeriver *IndexBiasDeriver
	logger       *logger.Logger
	now          func() time.Time
}

// NewScoringService creates a scoring pipeline over one immutable rule set.
func NewScoringService(engine config.Engine, deps ScoringDeps, log *logger.Logger) ScoringService {
	return &scoringService{
		ScoringDeps:  deps,
		scorer:       NewCurrencyScorer(engine),
		pairDeriver:  NewPairBiasDeriver(engine),
		indexDeriver: NewIndexBiasDeriver(engine),
		logger:       log,
		now:          utils.TimeNowUTC,
	}
}

// Window returns the scoring window ending at midnight UTC of now.
func Window(now time.Time, lookbackDays int) dto.ScoreWindow {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dto.ScoreWindow{Start: end.AddDate(0, 0, -lookbackDays), End: end}
}

func (s *scoringService) Run(ctx context.Context, runID, modeName string) (dto.ScoringResult, error) {
	engine := s.scorer.Engine()
	mode, ok := engine.Mode(modeName)
	if !ok {
		return dto.ScoringResult{}, fmt.Errorf("%w: %s", dto.ErrUnknownMode, modeName)
	}

	now := s.now()
	window := Window(now, mode.LookbackDays)
	input := ScoreInput{Mode: mode, Window: window}

	var calendarSource string
	switch mode.CalendarSource {
	case config.CalendarSourceLedger:
		ledger, err := s.EconomicRepo.FindAll(ctx)
		if err != nil {
			return dto.ScoringResult{}, fmt.Errorf("failed to read economic scores: %w", err)
		}
		input.Ledger = make(map[string]float64, len(ledger))
		for ccy, row := range ledger {
			input.Ledger[ccy] = row.TotalScore
		}
		calendarSource = config.CalendarSourceLedger
	default:
		input.Events, calendarSource = s.Calendar.FetchEvents(ctx, window.Start, window.End)
	}

	input.Markets = s.Markets.Snapshot(ctx, engine.Markets, now.AddDate(0, 0, -mode.LookbackDays), now)
	if mode.Macro && s.Macro != nil {
		input.Macro = s.Macro.Readings(ctx, engine.MacroTickers)
	}

	scores := s.scorer.Score(input)
	for i := range scores {
		scores[i].RunID = runID
		details, err := json.Marshal(map[string]interface{}{
			"notes":           scores[i].Notes,
			"calendar_source": calendarSource,
			"markets":         input.Markets,
		})
		if err != nil {
			return dto.ScoringResult{}, fmt.Errorf("failed to encode score details for %s: %w", scores[i].Currency, err)
		}
		scores[i].Details = datatypes.JSON(details)
	}
	if err := s.ScoreRepo.CreateBatch(ctx, scores); err != nil {
		return dto.ScoringResult{}, fmt.Errorf("failed to store currency scores: %w", err)
	}

	pairs := s.pairDeriver.Derive(mode, scores)
	if err := s.BiasRepo.UpsertPairs(ctx, pairs); err != nil {
		return dto.ScoringResult{}, fmt.Errorf("failed to store pair bias: %w", err)
	}

	indices := s.indexDeriver.Derive(mode, scores, input.Markets)
	if err := s.BiasRepo.UpsertIndices(ctx, indices); err != nil {
		return dto.ScoringResult{}, fmt.Errorf("failed to store index bias: %w", err)
	}

	result := dto.ScoringResult{
		RunID:      runID,
		Mode:       mode.Name,
		Window:     window,
		Currencies: make(map[string]float64, len(scores)),
		Pairs:      len(pairs),
		Indices:    len(indices),
		Markets:    make(map[string]dto.Provenance, len(input.Markets)),
	}
	for _, score := range scores {
		result.Currencies[score.Currency] = score.TotalScore
	}
	for market, quote := range input.Markets {
		result.Markets[market] = quote.Provenance
	}

	s.logger.InfoContext(ctx, "Scoring pass completed",
		logger.StringField("mode", mode.Name),
		logger.StringField("calendar_source", calendarSource),
		logger.IntField("currencies", len(scores)),
		logger.IntField("pairs", len(pairs)),
		logger.IntField("indices", len(indices)),
	)
	return result, nil
}
