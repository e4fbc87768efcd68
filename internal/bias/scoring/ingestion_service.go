package scoring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/repository"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/metrics"
)

// LedgerCalendarSource is the only feed whose releases enter the ledger. Feeds
// title and date the same release differently, so mixing them would score it twice.
const LedgerCalendarSource = dto.CalendarSourceForexFactoryXML

// EventIngestionService persists newly released calendar events exactly once
// and keeps the per-currency ledger totals current.
type EventIngestionService interface {
	Ingest(ctx context.Context, events []dto.CalendarEvent, opts dto.IngestOptions) (dto.IngestResult, error)
}

type eventIngestionService struct {
	scorer       *CurrencyScorer
	eventRepo    repository.ProcessedEventRepository
	economicRepo repository.EconomicScoreRepository
	logger       *logger.Logger
	metrics      *metrics.Recorder
	now          func() time.Time
}

// NewEventIngestionService creates an ingestion service.
func NewEventIngestionService(
	scorer *CurrencyScorer,
	eventRepo repository.ProcessedEventRepository,
	economicRepo repository.EconomicScoreRepository,
	log *logger.Logger,
	recorder *metrics.Recorder,
) EventIngestionService {
	return &eventIngestionService{
		scorer:       scorer,
		eventRepo:    eventRepo,
		economicRepo: economicRepo,
		logger:       log,
		metrics:      recorder,
		now:          time.Now,
	}
}

func (s *eventIngestionService) Ingest(ctx context.Context, events []dto.CalendarEvent, opts dto.IngestOptions) (dto.IngestResult, error) {
	result := dto.IngestResult{Signal: dto.SignalNone}

	candidates := make([]dto.CalendarEvent, 0, len(events))
	foreign := 0
	for _, ev := range events {
		if ev.Source != LedgerCalendarSource {
			foreign++
			continue
		}
		if opts.HighImpactOnly && dto.NormalizeImpact(ev.Impact) != entity.ImpactHigh {
			continue
		}
		candidates = append(candidates, ev)
	}
	result.Parsed = len(candidates)
	if foreign > 0 {
		s.logger.WarnContext(ctx, "Ignoring events from a non-ledger calendar feed",
			logger.IntField("count", foreign),
			logger.StringField("ledger_source", LedgerCalendarSource),
		)
	}

	seen, err := s.eventRepo.ListEventIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list processed events: %w", err)
	}
	if seen == nil {
		seen = make(map[string]struct{})
	}

	touched := make(map[string]struct{})
	for _, ev := range candidates {
		id := ev.EventID()
		if _, ok := seen[id]; ok || !ev.HasActual() {
			continue
		}

		score, ok := s.scorer.ScoreEvent(ev)
		if !ok {
			s.logger.DebugContext(ctx, "Event values are not numeric, storing with zero score", logger.StringField("event_id", id))
		}
		impact := dto.NormalizeImpact(ev.Impact)
		row := &entity.ProcessedEvent{
			EventID:     id,
			Country:     ev.Country,
			Currency:    ev.Currency,
			Title:       ev.Title,
			Impact:      impact,
			Actual:      ev.Actual,
			Forecast:    ev.Forecast,
			Previous:    ev.Previous,
			ReleaseDate: ev.ReleasedAt(),
			Score:       score,
		}

		inserted, err := s.eventRepo.CreateIgnoreConflict(ctx, row)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to store processed event",
				logger.StringField("event_id", id),
				logger.ErrorField(err),
			)
			continue
		}
		// Mark it seen either way so a repeated row in the same feed is skipped.
		seen[id] = struct{}{}
		if !inserted {
			s.logger.DebugContext(ctx, "Event already processed by another run", logger.StringField("event_id", id))
			continue
		}

		result.New++
		s.metrics.RecordEventIngested(impact)
		touched[ev.Currency] = struct{}{}
		if impact == entity.ImpactHigh {
			result.HighImpactNew++
			result.HighImpact = append(result.HighImpact, ev)
		}
	}

	result.Currencies = make([]string, 0, len(touched))
	for ccy := range touched {
		result.Currencies = append(result.Currencies, ccy)
	}
	sort.Strings(result.Currencies)

	// Every currency is refreshed so totals age out of the window even
	// without new releases. Scores reports only the touched ones.
	since := Window(s.now(), s.scorer.Engine().LedgerLookbackDays()).Start
	result.Scores = make(map[string]float64, len(result.Currencies))
	for _, ccy := range s.ledgerCurrencies(result.Currencies) {
		total, count, err := s.eventRepo.SumScoreByCurrency(ctx, ccy, since)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to sum event scores", logger.StringField("currency", ccy), logger.ErrorField(err))
			continue
		}
		if err := s.economicRepo.Upsert(ctx, &entity.EconomicScore{Currency: ccy, TotalScore: total, EventCount: count}); err != nil {
			s.logger.ErrorContext(ctx, "Failed to update economic score", logger.StringField("currency", ccy), logger.ErrorField(err))
			continue
		}
		s.logger.DebugContext(ctx, "Economic ledger updated", logger.StringField("currency", ccy), logger.FloatField("total_score", total))
		if _, ok := touched[ccy]; ok {
			result.Scores[ccy] = total
		}
	}

	switch {
	case result.HighImpactNew > 0:
		result.Signal = dto.SignalHighImpact
	case result.New > 0:
		result.Signal = dto.SignalNewEvents
	}

	s.logger.InfoContext(ctx, "Calendar ingestion finished",
		logger.IntField("parsed", result.Parsed),
		logger.IntField("new", result.New),
		logger.IntField("high_impact_new", result.HighImpactNew),
		logger.StringField("signal", string(result.Signal)),
	)
	return result, nil
}

func (s *eventIngestionService) ledgerCurrencies(touched []string) []string {
	set := make(map[string]struct{}, len(touched))
	for _, ccy := range touched {
		set[ccy] = struct{}{}
	}
	for _, ccy := range s.scorer.Engine().Currencies {
		set[ccy] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for ccy := range set {
		out = append(out, ccy)
	}
	sort.Strings(out)
	return out
}
