package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/repository"
	"golang-fundamental-bias/internal/entity"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// BiasQueryService serves the persisted bias snapshots.
type BiasQueryService interface {
	ListPairs(ctx context.Context) ([]entity.PairBias, error)
	GetPair(ctx context.Context, base, quote string) (*entity.PairBias, error)
	ListIndices(ctx context.Context) ([]entity.IndexBias, error)
	CurrencyHistory(ctx context.Context, code string, limit int) ([]entity.CurrencyScore, error)
	ListDrivers(ctx context.Context) ([]entity.MarketDriverState, error)
	RecentEvents(ctx context.Context, limit int) ([]entity.ProcessedEvent, error)
}

type biasQueryService struct {
	biasRepo   repository.BiasRepository
	scoreRepo  repository.CurrencyScoreRepository
	driverRepo repository.MarketDriverRepository
	eventRepo  repository.ProcessedEventRepository
	currencies map[string]struct{}
}

// NewBiasQueryService creates a query service. Only the given currencies
// can be looked up.
func NewBiasQueryService(
	biasRepo repository.BiasRepository,
	scoreRepo repository.CurrencyScoreRepository,
	driverRepo repository.MarketDriverRepository,
	eventRepo repository.ProcessedEventRepository,
	currencies []string,
) BiasQueryService {
	known := make(map[string]struct{}, len(currencies))
	for _, c := range currencies {
		known[c] = struct{}{}
	}
	return &biasQueryService{biasRepo: biasRepo, scoreRepo: scoreRepo, driverRepo: driverRepo, eventRepo: eventRepo, currencies: known}
}

func (s *biasQueryService) ListPairs(ctx context.Context) ([]entity.PairBias, error) {
	pairs, err := s.biasRepo.FindAllPairs(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Pair < pairs[j].Pair })
	return pairs, nil
}

func (s *biasQueryService) GetPair(ctx context.Context, base, quote string) (*entity.PairBias, error) {
	pair := strings.ToUpper(base) + "/" + strings.ToUpper(quote)
	return s.biasRepo.FindPair(ctx, pair)
}

func (s *biasQueryService) ListIndices(ctx context.Context) ([]entity.IndexBias, error) {
	indices, err := s.biasRepo.FindAllIndices(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i].Instrument < indices[j].Instrument })
	return indices, nil
}

// CurrencyHistory returns the newest score rows of one currency. A limit
// outside 1..500 falls back to 20.
func (s *biasQueryService) CurrencyHistory(ctx context.Context, code string, limit int) ([]entity.CurrencyScore, error) {
	code = strings.ToUpper(code)
	if _, ok := s.currencies[code]; !ok {
		return nil, fmt.Errorf("%w: currency %s", dto.ErrNotFound, code)
	}
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.scoreRepo.FindHistory(ctx, code, limit)
}

func (s *biasQueryService) ListDrivers(ctx context.Context) ([]entity.MarketDriverState, error) {
	return s.driverRepo.FindAll(ctx)
}

// RecentEvents returns the newest ledger events. Limits are clamped like
// CurrencyHistory.
func (s *biasQueryService) RecentEvents(ctx context.Context, limit int) ([]entity.ProcessedEvent, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.eventRepo.FindRecent(ctx, limit)
}
