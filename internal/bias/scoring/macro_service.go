package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/repository"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/metrics"
	"golang-fundamental-bias/pkg/utils"

	"github.com/shopspring/decimal"
)

// MacroService reads the latest change of each configured macro indicator.
type MacroService interface {
	Readings(ctx context.Context, tickers map[string]map[string]string) []dto.MacroReading
}

type macroService struct {
	repo    repository.MacroIndicatorRepository
	logger  *logger.Logger
	metrics *metrics.Recorder
}

// NewMacroService creates a macro indicator service.
func NewMacroService(repo repository.MacroIndicatorRepository, log *logger.Logger, recorder *metrics.Recorder) MacroService {
	return &macroService{repo: repo, logger: log, metrics: recorder}
}

// Readings fetches every ticker of every currency. Indicators without two
// usable points are left out.
func (s *macroService) Readings(ctx context.Context, tickers map[string]map[string]string) []dto.MacroReading {
	currencies := make([]string, 0, len(tickers))
	for ccy := range tickers {
		currencies = append(currencies, ccy)
	}
	sort.Strings(currencies)

	var readings []dto.MacroReading
	for _, ccy := range currencies {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		indicators := make([]string, 0, len(tickers[ccy]))
		for ind := range tickers[ccy] {
			indicators = append(indicators, ind)
		}
		sort.Strings(indicators)

		for _, ind := range indicators {
			ticker := tickers[ccy][ind]
			points, err := s.repo.Series(ctx, ticker)
			if err != nil {
				s.metrics.RecordProviderError(s.repo.Name())
				s.logger.WarnContext(ctx, "Macro series fetch failed",
					logger.StringField("currency", ccy),
					logger.StringField("ticker", ticker),
					logger.ErrorField(err),
				)
				continue
			}

			reading, err := latestChange(points)
			if err != nil {
				s.logger.DebugContext(ctx, "Macro series has no usable change", logger.StringField("ticker", ticker), logger.ErrorField(err))
				continue
			}
			reading.Currency = ccy
			reading.Indicator = ind
			reading.Ticker = ticker
			readings = append(readings, reading)
		}
	}
	return readings
}

// latestChange returns (latest - previous) / |previous| * 100 of the two
// newest points.
func latestChange(points []float64) (dto.MacroReading, error) {
	if len(points) < 2 {
		return dto.MacroReading{}, fmt.Errorf("%w: %d points", dto.ErrNoSignal, len(points))
	}
	latest := points[len(points)-1]
	previous := points[len(points)-2]
	if previous == 0 {
		return dto.MacroReading{}, fmt.Errorf("%w: previous value is zero", dto.ErrNoSignal)
	}
	change, _ := decimal.NewFromFloat((latest - previous) / math.Abs(previous) * 100).Round(4).Float64()
	return dto.MacroReading{Latest: latest, Previous: previous, Change: change}, nil
}
