package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/pkg/logger"
)

const ProviderEconDB = "econdb"

// MacroIndicatorRepository fetches macro indicator series.
type MacroIndicatorRepository interface {
	Name() string
	// Series returns the values of ticker, oldest first.
	Series(ctx context.Context, ticker string) ([]float64, error)
}

type econDBRepository struct {
	httpProvider
}

// NewEconDBRepository creates the EconDB series client.
func NewEconDBRepository(cfg config.Provider, log *logger.Logger) MacroIndicatorRepository {
	return &econDBRepository{httpProvider: newHTTPProvider(ProviderEconDB, cfg, log)}
}

func (r *econDBRepository) Series(ctx context.Context, ticker string) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/api/series/%s/?format=json", r.cfg.BaseURL, url.PathEscape(ticker))
	if r.cfg.APIKey != "" {
		endpoint += "&token=" + url.QueryEscape(r.cfg.APIKey)
	}

	body, err := r.sendRequest(ctx, "GET", endpoint, "application/json")
	if err != nil {
		return nil, err
	}

	var response dto.EconDBSeriesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("econdb: decode %s: %w", ticker, err)
	}
	return response.Points(), nil
}
