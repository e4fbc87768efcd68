package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/pkg/logger"
)

// MarketDataRepository is one link of the market data chain.
type MarketDataRepository interface {
	Name() string
	// Symbol returns the provider ticker of market, empty when unmapped.
	Symbol(market string) string
	// DailyCloses returns the daily closes of market between from and to, oldest first.
	DailyCloses(ctx context.Context, market string, from, to time.Time) ([]float64, error)
}

const (
	ProviderPolygon = "polygon"
	ProviderYahoo   = "yahoo"
)

type polygonRepository struct {
	httpProvider
}

// NewPolygonRepository creates the Polygon aggregates client.
func NewPolygonRepository(cfg config.Provider, log *logger.Logger) MarketDataRepository {
	return &polygonRepository{httpProvider: newHTTPProvider(ProviderPolygon, cfg, log)}
}

func (r *polygonRepository) DailyCloses(ctx context.Context, market string, from, to time.Time) ([]float64, error) {
	if r.cfg.APIKey == "" {
		return nil, dto.ErrMissingCredential
	}
	ticker, ok := r.cfg.Symbols[market]
	if !ok {
		return nil, fmt.Errorf("polygon: no symbol for %s: %w", market, dto.ErrNoUsableSeries)
	}

	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&apiKey=%s",
		r.cfg.BaseURL,
		url.PathEscape(ticker),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		url.QueryEscape(r.cfg.APIKey),
	)
	body, err := r.sendRequest(ctx, "GET", endpoint, "application/json")
	if err != nil {
		return nil, err
	}

	var response dto.PolygonAggregatesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("polygon: decode %s: %w", ticker, err)
	}

	closes := make([]float64, 0, len(response.Results))
	for _, bar := range response.Results {
		if bar.Close > 0 {
			closes = append(closes, bar.Close)
		}
	}
	if len(closes) < 2 {
		return nil, fmt.Errorf("polygon %s: %w", ticker, dto.ErrNoUsableSeries)
	}
	return closes, nil
}

type yahooRepository struct {
	httpProvider
}

// NewYahooRepository creates the Yahoo chart client.
func NewYahooRepository(cfg config.Provider, log *logger.Logger) MarketDataRepository {
	return &yahooRepository{httpProvider: newHTTPProvider(ProviderYahoo, cfg, log)}
}

func (r *yahooRepository) DailyCloses(ctx context.Context, market string, from, to time.Time) ([]float64, error) {
	ticker, ok := r.cfg.Symbols[market]
	if !ok {
		return nil, fmt.Errorf("yahoo: no symbol for %s: %w", market, dto.ErrNoUsableSeries)
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		r.cfg.BaseURL,
		url.PathEscape(ticker),
		from.Unix(),
		to.Unix(),
	)
	body, err := r.sendRequest(ctx, "GET", endpoint, "application/json")
	if err != nil {
		return nil, err
	}

	var response dto.YahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("yahoo: decode %s: %w", ticker, err)
	}
	if response.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s", ticker, response.Chart.Error.Description)
	}
	if len(response.Chart.Result) == 0 || len(response.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, dto.ErrNoUsableSeries)
	}

	raw := response.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	for _, c := range raw {
		if c != nil && *c > 0 {
			closes = append(closes, *c)
		}
	}
	if len(closes) < 2 {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, dto.ErrNoUsableSeries)
	}
	return closes, nil
}
