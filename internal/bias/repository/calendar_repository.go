package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/pkg/logger"

	"golang.org/x/net/html/charset"
)

// CalendarRepository is one economic calendar feed.
type CalendarRepository interface {
	Name() string
	FetchEvents(ctx context.Context, from, to time.Time) ([]dto.CalendarEvent, error)
}

type tradingEconomicsRepository struct {
	httpProvider
}

// NewTradingEconomicsRepository creates the keyed TradingEconomics calendar client.
func NewTradingEconomicsRepository(cfg config.Provider, log *logger.Logger) CalendarRepository {
	return &tradingEconomicsRepository{httpProvider: newHTTPProvider(dto.CalendarSourceTradingEconomics, cfg, log)}
}

func (r *tradingEconomicsRepository) FetchEvents(ctx context.Context, from, to time.Time) ([]dto.CalendarEvent, error) {
	if r.cfg.APIKey == "" {
		return nil, dto.ErrMissingCredential
	}

	endpoint := fmt.Sprintf("%s/calendar?d1=%s&d2=%s&c=all&format=json&token=%s",
		r.cfg.BaseURL,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		url.QueryEscape(r.cfg.APIKey),
	)
	body, err := r.sendRequest(ctx, "GET", endpoint, "application/json")
	if err != nil {
		return nil, err
	}

	var rows []dto.TradingEconomicsEvent
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("tradingeconomics: decode calendar: %w", err)
	}

	events := make([]dto.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		currency := strings.ToUpper(strings.TrimSpace(row.Currency))
		title := strings.TrimSpace(row.Event)
		if currency == "" || title == "" {
			continue
		}
		events = append(events, dto.CalendarEvent{
			Country:     currency,
			Currency:    currency,
			Title:       title,
			Impact:      dto.NormalizeImpact(row.Importance.String()),
			Actual:      strings.TrimSpace(row.Actual.String()),
			Forecast:    strings.TrimSpace(row.Forecast.String()),
			Previous:    strings.TrimSpace(row.Previous.String()),
			ReleaseDate: strings.TrimSpace(row.Date),
			Source:      dto.CalendarSourceTradingEconomics,
		})
	}
	return events, nil
}

type forexFactoryXMLRepository struct {
	httpProvider
}

// NewForexFactoryXMLRepository creates the public weekly XML calendar client.
func NewForexFactoryXMLRepository(cfg config.Provider, log *logger.Logger) CalendarRepository {
	return &forexFactoryXMLRepository{httpProvider: newHTTPProvider(dto.CalendarSourceForexFactoryXML, cfg, log)}
}

// FetchEvents returns the events of the current week. The feed has no window
// parameters so from and to are ignored.
func (r *forexFactoryXMLRepository) FetchEvents(ctx context.Context, _, _ time.Time) ([]dto.CalendarEvent, error) {
	body, err := r.sendRequest(ctx, "GET", r.cfg.BaseURL, "application/xml, text/xml")
	if err != nil {
		return nil, err
	}
	return parseForexFactoryXML(body)
}

func parseForexFactoryXML(body []byte) ([]dto.CalendarEvent, error) {
	// The feed is published as windows-1252.
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel

	var calendar dto.ForexFactoryCalendar
	if err := decoder.Decode(&calendar); err != nil {
		return nil, fmt.Errorf("forexfactory: decode xml: %w", err)
	}

	events := make([]dto.CalendarEvent, 0, len(calendar.Events))
	for _, ev := range calendar.Events {
		country := strings.TrimSpace(ev.Country)
		title := strings.TrimSpace(ev.Title)
		if country == "" || title == "" {
			continue
		}
		events = append(events, dto.CalendarEvent{
			Country:     country,
			Currency:    strings.ToUpper(country),
			Title:       title,
			Impact:      dto.NormalizeImpact(ev.Impact),
			Actual:      strings.TrimSpace(ev.Actual),
			Forecast:    strings.TrimSpace(ev.Forecast),
			Previous:    strings.TrimSpace(ev.Previous),
			ReleaseDate: strings.TrimSpace(ev.Date),
			Source:      dto.CalendarSourceForexFactoryXML,
		})
	}
	return events, nil
}
