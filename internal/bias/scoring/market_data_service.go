package scoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/repository"
	"golang-fundamental-bias/pkg/logger"
	"golang-fundamental-bias/pkg/metrics"
	"golang-fundamental-bias/pkg/utils"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// MarketDataService resolves the percent change of every market proxy by
// walking a chain of providers.
type MarketDataService interface {
	Snapshot(ctx context.Context, markets []string, from, to time.Time) dto.MarketSnapshot
	Quote(ctx context.Context, market string, from, to time.Time) dto.MarketQuote
}

// NewMarketDataService creates the chain. The first provider is the primary
// link, the second the secondary one.
func NewMarketDataService(
	log *logger.Logger,
	recorder *metrics.Recorder,
	cacheTTL time.Duration,
	maxConcurrency int,
	providers ...repository.MarketDataRepository,
) MarketDataService {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	var memCache *cache.Cache
	if cacheTTL > 0 {
		memCache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return &marketDataService{
		providers:      providers,
		logger:         log,
		metrics:        recorder,
		inmemoryCache:  memCache,
		maxConcurrency: maxConcurrency,
	}
}

type marketDataService struct {
	providers      []repository.MarketDataRepository
	logger         *logger.Logger
	metrics        *metrics.Recorder
	inmemoryCache  *cache.Cache
	maxConcurrency int
}

// Snapshot fetches every market concurrently. Each market fails alone.
func (s *marketDataService) Snapshot(ctx context.Context, markets []string, from, to time.Time) dto.MarketSnapshot {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, s.maxConcurrency)
		snapshot  = make(dto.MarketSnapshot, len(markets))
	)

	for _, market := range markets {
		market := market
		wg.Add(1)
		utils.GoSafe(s.logger, func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			quote := s.Quote(ctx, market, from, to)
			mu.Lock()
			snapshot[market] = quote
			mu.Unlock()
		})
	}
	wg.Wait()

	// GoSafe swallows panics, so make sure every market has an entry.
	for _, market := range markets {
		if _, ok := snapshot[market]; !ok {
			snapshot[market] = dto.MarketQuote{Market: market, Provenance: dto.ProvenanceNone}
		}
	}
	return snapshot
}

// Quote returns the first successful link's percent change, or 0 with
// provenance none when every link fails.
func (s *marketDataService) Quote(ctx context.Context, market string, from, to time.Time) dto.MarketQuote {
	cacheKey := fmt.Sprintf("%s:%s:%s", market, from.Format("20060102"), to.Format("20060102"))
	if s.inmemoryCache != nil {
		if cached, ok := s.inmemoryCache.Get(cacheKey); ok {
			return cached.(dto.MarketQuote)
		}
	}

	quote := dto.MarketQuote{Market: market, Provenance: dto.ProvenanceNone}
	for i, provider := range s.providers {
		closes, err := provider.DailyCloses(ctx, market, from, to)
		if err != nil {
			if !errors.Is(err, dto.ErrMissingCredential) {
				s.metrics.RecordProviderError(provider.Name())
			}
			s.logger.WarnContext(ctx, "Market data link failed",
				logger.StringField("provider", provider.Name()),
				logger.StringField("market", market),
				logger.ErrorField(err),
			)
			continue
		}

		change, err := seriesChange(closes)
		if err != nil {
			s.logger.WarnContext(ctx, "Market data link returned an unusable series",
				logger.StringField("provider", provider.Name()),
				logger.StringField("market", market),
				logger.ErrorField(err),
			)
			continue
		}

		quote.Change = change
		quote.Provider = provider.Name()
		quote.Symbol = provider.Symbol(market)
		quote.Provenance = provenanceFor(i)
		break
	}

	s.metrics.RecordProvenance(string(quote.Provenance))
	// A failed lookup is not cached so the next run retries it.
	if s.inmemoryCache != nil && quote.Provenance != dto.ProvenanceNone {
		s.inmemoryCache.SetDefault(cacheKey, quote)
	}
	return quote
}

func provenanceFor(i int) dto.Provenance {
	if i == 0 {
		return dto.ProvenancePrimary
	}
	return dto.ProvenanceSecondary
}

func seriesChange(closes []float64) (float64, error) {
	if len(closes) < 2 {
		return 0, dto.ErrNoUsableSeries
	}
	return PercentChange(closes[0], closes[len(closes)-1])
}

// PercentChange returns (latest - oldest) / oldest * 100 rounded to 2 decimals.
func PercentChange(oldest, latest float64) (float64, error) {
	if oldest == 0 {
		return 0, dto.ErrNoUsableSeries
	}
	o := decimal.NewFromFloat(oldest)
	l := decimal.NewFromFloat(latest)
	change, _ := l.Sub(o).Div(o).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return change, nil
}
