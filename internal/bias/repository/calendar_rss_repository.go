package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
)

const forexFactoryDateLayout = "01-02-2006"

type forexFactoryRSSRepository struct {
	httpProvider
}

// NewForexFactoryRSSRepository creates the RSS variant of the weekly calendar.
// Each item carries its fields as bold labels in an HTML description.
func NewForexFactoryRSSRepository(cfg config.Provider, log *logger.Logger) CalendarRepository {
	return &forexFactoryRSSRepository{httpProvider: newHTTPProvider(dto.CalendarSourceForexFactoryRSS, cfg, log)}
}

func (r *forexFactoryRSSRepository) FetchEvents(ctx context.Context, _, _ time.Time) ([]dto.CalendarEvent, error) {
	body, err := r.sendRequest(ctx, "GET", r.cfg.BaseURL, "application/rss+xml, application/xml")
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("forexfactory: parse rss: %w", err)
	}

	events := make([]dto.CalendarEvent, 0, len(feed.Items))
	for _, item := range feed.Items {
		ev, ok := parseRSSItem(item)
		if !ok {
			r.log.DebugContext(ctx, "Skipping calendar item without country or title", logger.StringField("title", item.Title))
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseRSSItem(item *gofeed.Item) (dto.CalendarEvent, bool) {
	fields := descriptionFields(item.Description)

	ev := dto.CalendarEvent{
		Country:  fields["country"],
		Currency: strings.ToUpper(fields["country"]),
		Title:    strings.TrimSpace(item.Title),
		Impact:   dto.NormalizeImpact(fields["impact"]),
		Actual:   fields["actual"],
		Forecast: fields["forecast"],
		Previous: fields["previous"],
		Source:   dto.CalendarSourceForexFactoryRSS,
	}
	if item.PublishedParsed != nil {
		ev.ReleaseDate = item.PublishedParsed.UTC().Format(forexFactoryDateLayout)
	} else {
		ev.ReleaseDate = strings.TrimSpace(item.Published)
	}

	if ev.Country == "" || ev.Title == "" {
		return dto.CalendarEvent{}, false
	}
	return ev, true
}

// descriptionFields reads "<b>Label:</b> value<br/>" pairs into a map keyed
// by the lowercased label.
func descriptionFields(description string) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(description) == "" {
		return fields
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return fields
	}

	doc.Find("b").Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s.Text()), ":"))
		if label == "" || len(s.Nodes) == 0 {
			return
		}

		var value strings.Builder
		for n := s.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
			if n.Type == html.ElementNode && (n.Data == "br" || n.Data == "b") {
				break
			}
			if n.Type == html.TextNode {
				value.WriteString(n.Data)
			}
		}
		fields[label] = strings.TrimSpace(value.String())
	})
	return fields
}
