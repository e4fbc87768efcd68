package scoring

import (
	"context"
	"errors"
	"testing"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestCalendarService_FallsThroughChain(t *testing.T) {
	te := &fakeCalendarFeed{name: dto.CalendarSourceTradingEconomics, err: dto.ErrMissingCredential}
	xml := &fakeCalendarFeed{name: dto.CalendarSourceForexFactoryXML, err: errors.New("status 503")}
	rss := &fakeCalendarFeed{name: dto.CalendarSourceForexFactoryRSS, events: []dto.CalendarEvent{{Currency: "USD", Title: "CPI m/m"}}}

	events, source := NewCalendarService(logger.NewNop(), nil, te, xml, rss).FetchEvents(context.Background(), testFrom, testTo)

	assert.Len(t, events, 1)
	assert.Equal(t, dto.CalendarSourceForexFactoryRSS, source)
}

func TestCalendarService_StopsAtFirstNonEmpty(t *testing.T) {
	empty := &fakeCalendarFeed{name: dto.CalendarSourceTradingEconomics}
	xml := &fakeCalendarFeed{name: dto.CalendarSourceForexFactoryXML, events: []dto.CalendarEvent{{Currency: "EUR", Title: "ZEW"}}}
	rss := &fakeCalendarFeed{name: dto.CalendarSourceForexFactoryRSS, events: []dto.CalendarEvent{{Currency: "USD", Title: "CPI"}}}

	events, source := NewCalendarService(logger.NewNop(), nil, empty, xml, rss).FetchEvents(context.Background(), testFrom, testTo)

	assert.Equal(t, "ZEW", events[0].Title)
	assert.Equal(t, dto.CalendarSourceForexFactoryXML, source)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 0, rss.calls)
}

func TestCalendarService_TotalFailure(t *testing.T) {
	feed := &fakeCalendarFeed{name: dto.CalendarSourceForexFactoryXML, err: errors.New("malformed document")}

	events, source := NewCalendarService(logger.NewNop(), nil, feed).FetchEvents(context.Background(), testFrom, testTo)

	assert.NotNil(t, events)
	assert.Empty(t, events)
	assert.Empty(t, source)
}
