package strategy

import (
	"context"
	"fmt"
	"time"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/scoring"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/common"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/telegram"
	"golang-fundamental-bias/pkg/utils"
)

const eventLookbackDays = 7

// EventsStrategy ingests newly released calendar events and, on high-impact
// releases, alerts and requests a recompute.
type EventsStrategy struct {
	mode         entity.RunMode
	opts         dto.IngestOptions
	calendar     scoring.CalendarService
	ingestion    scoring.EventIngestionService
	recalculator Recalculator
	notifier     telegram.Notifier
	logger       *logger.Logger
	now          func() time.Time
}

// EventsDeps groups the collaborators of the ingestion strategies.
type EventsDeps struct {
	Calendar     scoring.CalendarService
	Ingestion    scoring.EventIngestionService
	Recalculator Recalculator
	Notifier     telegram.Notifier
}

// NewEventsStrategy ingests every released event.
func NewEventsStrategy(log *logger.Logger, deps EventsDeps) RunStrategy {
	return newEventsStrategy(entity.ModeEvents, dto.IngestOptions{}, log, deps)
}

// NewHighImpactStrategy ingests high-impact events only.
func NewHighImpactStrategy(log *logger.Logger, deps EventsDeps) RunStrategy {
	return newEventsStrategy(entity.ModeHighImpact, dto.IngestOptions{HighImpactOnly: true}, log, deps)
}

func newEventsStrategy(mode entity.RunMode, opts dto.IngestOptions, log *logger.Logger, deps EventsDeps) *EventsStrategy {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = telegram.NopNotifier{}
	}
	return &EventsStrategy{
		mode:         mode,
		opts:         opts,
		calendar:     deps.Calendar,
		ingestion:    deps.Ingestion,
		recalculator: deps.Recalculator,
		notifier:     notifier,
		logger:       log,
		now:          utils.TimeNowUTC,
	}
}

// GetType returns the run mode this strategy handles.
func (s *EventsStrategy) GetType() entity.RunMode {
	return s.mode
}

// Execute fetches the calendar and ingests it. A failed alert or recompute
// request does not fail the ingestion.
func (s *EventsStrategy) Execute(ctx context.Context, req dto.RunRequest) (dto.RunOutcome, error) {
	now := s.now()
	window := scoring.Window(now, eventLookbackDays)
	events, source := s.calendar.FetchEvents(ctx, window.Start, window.End.AddDate(0, 0, 1))

	result, err := s.ingestion.Ingest(ctx, events, s.opts)
	if err != nil {
		return dto.RunOutcome{}, fmt.Errorf("failed to ingest calendar events: %w", err)
	}
	result.Source = source

	output := dto.EventsOutput{IngestResult: result}
	if result.Signal == dto.SignalHighImpact {
		for _, msg := range telegram.FormatHighImpactAlert(result, now) {
			if err := s.notifier.SendMessage(msg); err != nil {
				s.logger.WarnContext(ctx, "Failed to send high-impact alert", logger.ErrorField(err))
				continue
			}
			output.Notified = true
		}

		if s.recalculator != nil {
			if err := s.recalculator.Recalculate(ctx, common.TriggerHighImpact); err != nil {
				s.logger.ErrorContext(ctx, "Failed to request recompute", logger.ErrorField(err))
				output.RecalcError = err.Error()
			} else {
				output.Recalculated = true
			}
		}
	}

	return dto.RunOutcome{Signal: result.Signal, Output: output}, nil
}
