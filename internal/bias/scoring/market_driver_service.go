package scoring

import (
	"context"
	"errors"
	"fmt"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/repository"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/utils"
)

var errNoDriverData = errors.New("no driver input rows")

// MarketDriverClassifier reduces the persisted scores to a qualitative
// status per macro theme.
type MarketDriverClassifier interface {
	Classify(ctx context.Context) (dto.DriversResult, error)
}

type marketDriverClassifier struct {
	cfg        config.Drivers
	scoreRepo  repository.CurrencyScoreRepository
	biasRepo   repository.BiasRepository
	driverRepo repository.MarketDriverRepository
	logger     *logger.Logger
}

// NewMarketDriverClassifier creates a classifier.
func NewMarketDriverClassifier(
	cfg config.Drivers,
	scoreRepo repository.CurrencyScoreRepository,
	biasRepo repository.BiasRepository,
	driverRepo repository.MarketDriverRepository,
	log *logger.Logger,
) MarketDriverClassifier {
	return &marketDriverClassifier{
		cfg:        cfg,
		scoreRepo:  scoreRepo,
		biasRepo:   biasRepo,
		driverRepo: driverRepo,
		logger:     log,
	}
}

type driverInputs struct {
	scores    map[string]entity.CurrencyScore
	scoresErr error
	indices   map[string]entity.IndexBias
	indexErr  error
}

type driverRule struct {
	name     string
	fallback string
	classify func(in driverInputs) (string, string, error)
}

// Classify evaluates every driver. A driver that cannot be evaluated is
// stored with its default status and the others still run.
func (s *marketDriverClassifier) Classify(ctx context.Context) (dto.DriversResult, error) {
	var in driverInputs
	currencies := append([]string{s.cfg.FedCurrency, s.cfg.InflationGold, s.cfg.OilCurrency}, s.cfg.InflationCurrencies...)
	currencies = append(currencies, s.cfg.GeopoliticalCurrencies...)
	in.scores, in.scoresErr = s.scoreRepo.FindLatestByCurrencies(ctx, uniqueStrings(currencies))
	in.indices, in.indexErr = s.biasRepo.FindIndices(ctx, s.cfg.GrowthIndices)

	rules := []driverRule{
		{config.DriverFedRatePolicy, s.cfg.FedDefault, s.fedRatePolicy},
		{config.DriverGlobalGrowth, s.cfg.GrowthDefault, s.globalGrowth},
		{config.DriverInflationTrends, s.cfg.InflationDefault, s.inflationTrends},
		{config.DriverGeopoliticalRisk, s.cfg.GeopoliticalDefault, s.geopoliticalRisk},
		{config.DriverOilPrices, s.cfg.OilDefault, s.oilPrices},
	}

	result := dto.DriversResult{Drivers: make(map[string]string, len(rules))}
	now := utils.TimeNowUTC()
	var failed int
	for _, rule := range rules {
		status, description, err := rule.classify(in)
		if err != nil {
			s.logger.WarnContext(ctx, "Market driver analysis unavailable",
				logger.StringField("driver", rule.name),
				logger.ErrorField(err),
			)
			status, description = rule.fallback, s.cfg.UnavailableDescription
			result.Unavailable = append(result.Unavailable, rule.name)
		}

		state := &entity.MarketDriverState{Driver: rule.name, Status: status, Description: description, LastUpdated: now}
		if err := s.driverRepo.Upsert(ctx, state); err != nil {
			failed++
			s.logger.ErrorContext(ctx, "Failed to store market driver", logger.StringField("driver", rule.name), logger.ErrorField(err))
			continue
		}
		result.Drivers[rule.name] = status
	}

	if failed == len(rules) {
		return result, fmt.Errorf("failed to store any market driver")
	}
	return result, nil
}

func (s *marketDriverClassifier) fedRatePolicy(in driverInputs) (string, string, error) {
	if in.scoresErr != nil {
		return "", "", in.scoresErr
	}
	usd, ok := in.scores[s.cfg.FedCurrency]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", errNoDriverData, s.cfg.FedCurrency)
	}
	cb, total := usd.CBToneScore, usd.TotalScore

	status := "Neutral"
	switch {
	case cb > 0 && total >= s.cfg.FedStrongTotal:
		status = "Hawkish"
	case cb < 0 && total <= -s.cfg.FedStrongTotal:
		status = "Dovish"
	case total >= s.cfg.FedPauseTotal:
		status = "Hawkish Pause"
	case total <= -s.cfg.FedPauseTotal:
		status = "Dovish Pause"
	}
	return status, fmt.Sprintf("USD Score: %g, CB Tone: %g", total, cb), nil
}

func (s *marketDriverClassifier) globalGrowth(in driverInputs) (string, string, error) {
	if in.indexErr != nil {
		return "", "", in.indexErr
	}
	var values []float64
	for _, instrument := range s.cfg.GrowthIndices {
		if idx, ok := in.indices[instrument]; ok {
			values = append(values, idx.Score)
		}
	}
	if len(values) == 0 {
		return "", "", fmt.Errorf("%w: growth indices", errNoDriverData)
	}
	avg := mean(values)

	status := "Neutral"
	switch {
	case avg > s.cfg.GrowthStrong:
		status = "Expanding"
	case avg > s.cfg.GrowthMild:
		status = "Moderate"
	case avg < -s.cfg.GrowthStrong:
		status = "Contracting"
	case avg < -s.cfg.GrowthMild:
		status = "Slowing"
	}
	return status, fmt.Sprintf("Avg Index Score: %.1f", avg), nil
}

func (s *marketDriverClassifier) inflationTrends(in driverInputs) (string, string, error) {
	if in.scoresErr != nil {
		return "", "", in.scoresErr
	}
	var values []float64
	for _, ccy := range s.cfg.InflationCurrencies {
		if row, ok := in.scores[ccy]; ok {
			values = append(values, row.DataScore)
		}
	}
	if len(values) == 0 {
		return "", "", fmt.Errorf("%w: inflation currencies", errNoDriverData)
	}
	econ := mean(values)
	gold := in.scores[s.cfg.InflationGold].TotalScore

	status := "Stable"
	switch {
	case gold >= s.cfg.InflationGoldStrong && econ >= s.cfg.InflationEconStrong:
		status = "Rising"
	case gold >= s.cfg.InflationGoldMild:
		status = "Elevated"
	case gold <= -s.cfg.InflationGoldStrong && econ <= -s.cfg.InflationEconStrong:
		status = "Deflating"
	case econ <= -s.cfg.InflationEconStrong:
		status = "Cooling"
	}
	return status, fmt.Sprintf("Econ Score: %.1f, Gold: %g", econ, gold), nil
}

func (s *marketDriverClassifier) geopoliticalRisk(in driverInputs) (string, string, error) {
	if in.scoresErr != nil {
		return "", "", in.scoresErr
	}
	if len(s.cfg.GeopoliticalCurrencies) == 0 {
		return "", "", fmt.Errorf("%w: safe havens", errNoDriverData)
	}
	// A safe haven without a score row counts as 0.
	values := make([]float64, len(s.cfg.GeopoliticalCurrencies))
	for i, ccy := range s.cfg.GeopoliticalCurrencies {
		values[i] = in.scores[ccy].TotalScore
	}
	avg := mean(values)

	status := "Moderate"
	switch {
	case avg > s.cfg.GeopoliticalCritical:
		status = "Critical"
	case avg > s.cfg.GeopoliticalElevated:
		status = "Elevated"
	case avg < -s.cfg.GeopoliticalElevated:
		status = "Low"
	}
	return status, fmt.Sprintf("Safe Haven Avg: %.1f", avg), nil
}

func (s *marketDriverClassifier) oilPrices(in driverInputs) (string, string, error) {
	if in.scoresErr != nil {
		return "", "", in.scoresErr
	}
	cad, ok := in.scores[s.cfg.OilCurrency]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", errNoDriverData, s.cfg.OilCurrency)
	}
	commodity := cad.CommodityScore

	status := "Stable"
	switch {
	case commodity >= s.cfg.OilStrong:
		status = "Rising"
	case commodity >= s.cfg.OilMild:
		status = "Elevated"
	case commodity <= -s.cfg.OilStrong:
		status = "Falling"
	case commodity <= -s.cfg.OilMild:
		status = "Declining"
	}
	return status, fmt.Sprintf("CAD Commodity Score: %g", commodity), nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
