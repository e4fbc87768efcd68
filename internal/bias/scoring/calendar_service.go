package scoring

import (
	"context"
	"errors"
	"time"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/repository"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/metrics"
)

// CalendarService reads economic releases from the first calendar feed that
// has any.
type CalendarService interface {
	// FetchEvents returns the events and the name of the feed that served
	// them. An empty list with an empty source means every feed failed.
	FetchEvents(ctx context.Context, from, to time.Time) ([]dto.CalendarEvent, string)
}

type calendarService struct {
	feeds   []repository.CalendarRepository
	logger  *logger.Logger
	metrics *metrics.Recorder
}

// NewCalendarService creates the calendar chain. Feeds are tried in order.
func NewCalendarService(log *logger.Logger, recorder *metrics.Recorder, feeds ...repository.CalendarRepository) CalendarService {
	return &calendarService{feeds: feeds, logger: log, metrics: recorder}
}

func (s *calendarService) FetchEvents(ctx context.Context, from, to time.Time) ([]dto.CalendarEvent, string) {
	for _, feed := range s.feeds {
		events, err := feed.FetchEvents(ctx, from, to)
		if err != nil {
			if errors.Is(err, dto.ErrMissingCredential) {
				s.logger.DebugContext(ctx, "Calendar feed skipped, no credential", logger.StringField("provider", feed.Name()))
				continue
			}
			s.metrics.RecordProviderError(feed.Name())
			s.logger.WarnContext(ctx, "Calendar feed failed",
				logger.StringField("provider", feed.Name()),
				logger.ErrorField(err),
			)
			continue
		}
		if len(events) == 0 {
			s.logger.DebugContext(ctx, "Calendar feed returned no events", logger.StringField("provider", feed.Name()))
			continue
		}

		s.logger.InfoContext(ctx, "Calendar events fetched",
			logger.StringField("provider", feed.Name()),
			logger.IntField("events", len(events)),
		)
		return events, feed.Name()
	}

	s.logger.WarnContext(ctx, "No calendar feed returned events")
	return []dto.CalendarEvent{}, ""
}
