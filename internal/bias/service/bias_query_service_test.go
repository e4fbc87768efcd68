package service

import (
	"context"
	"testing"
	"time"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBiasRepo struct {
	pairs   []entity.PairBias
	indices []entity.IndexBias
}

func (s *stubBiasRepo) UpsertPairs(context.Context, []entity.PairBias) error   { return nil }
func (s *stubBiasRepo) UpsertIndices(context.Context, []entity.IndexBias) error { return nil }

func (s *stubBiasRepo) FindAllPairs(context.Context) ([]entity.PairBias, error) {
	return append([]entity.PairBias(nil), s.pairs...), nil
}

func (s *stubBiasRepo) FindPair(_ context.Context, pair string) (*entity.PairBias, error) {
	for _, p := range s.pairs {
		if p.Pair == pair {
			return &p, nil
		}
	}
	return nil, dto.ErrNotFound
}

func (s *stubBiasRepo) FindAllIndices(context.Context) ([]entity.IndexBias, error) {
	return append([]entity.IndexBias(nil), s.indices...), nil
}

func (s *stubBiasRepo) FindIndices(context.Context, []string) (map[string]entity.IndexBias, error) {
	return nil, nil
}

type stubScoreRepo struct {
	currency string
	limit    int
}

func (s *stubScoreRepo) CreateBatch(context.Context, []entity.CurrencyScore) error { return nil }

func (s *stubScoreRepo) FindLatestByCurrencies(context.Context, []string) (map[string]entity.CurrencyScore, error) {
	return nil, nil
}

func (s *stubScoreRepo) FindHistory(_ context.Context, currency string, limit int) ([]entity.CurrencyScore, error) {
	s.currency, s.limit = currency, limit
	return []entity.CurrencyScore{{Currency: currency}}, nil
}

type stubDriverRepo struct{}

func (stubDriverRepo) Upsert(context.Context, *entity.MarketDriverState) error { return nil }

func (stubDriverRepo) FindAll(context.Context) ([]entity.MarketDriverState, error) {
	return []entity.MarketDriverState{{Driver: "Oil Prices", Status: "Stable"}}, nil
}

type stubEventRepo struct {
	limit int
}

func (s *stubEventRepo) ListEventIDs(context.Context) (map[string]struct{}, error) { return nil, nil }

func (s *stubEventRepo) CreateIgnoreConflict(context.Context, *entity.ProcessedEvent) (bool, error) {
	return false, nil
}

func (s *stubEventRepo) SumScoreByCurrency(context.Context, string, time.Time) (float64, int, error) {
	return 0, 0, nil
}

func (s *stubEventRepo) FindRecent(_ context.Context, limit int) ([]entity.ProcessedEvent, error) {
	s.limit = limit
	return []entity.ProcessedEvent{{EventID: "USD_CPI m/m_01-15-2025", Currency: "USD", Score: 3}}, nil
}

func TestBiasQueryService(t *testing.T) {
	biasRepo := &stubBiasRepo{
		pairs:   []entity.PairBias{{Pair: "USD/JPY"}, {Pair: "EUR/USD"}},
		indices: []entity.IndexBias{{Instrument: "US500"}, {Instrument: "GER40"}},
	}
	scoreRepo := &stubScoreRepo{}
	eventRepo := &stubEventRepo{}
	svc := NewBiasQueryService(biasRepo, scoreRepo, stubDriverRepo{}, eventRepo, []string{"USD", "EUR", "JPY"})
	ctx := context.Background()

	pairs, err := svc.ListPairs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR/USD", pairs[0].Pair)

	pair, err := svc.GetPair(ctx, "usd", "jpy")
	require.NoError(t, err)
	assert.Equal(t, "USD/JPY", pair.Pair)

	_, err = svc.GetPair(ctx, "GBP", "USD")
	assert.ErrorIs(t, err, dto.ErrNotFound)

	indices, err := svc.ListIndices(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GER40", indices[0].Instrument)

	history, err := svc.CurrencyHistory(ctx, "eur", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, "EUR", scoreRepo.currency)
	assert.Equal(t, 20, scoreRepo.limit)

	_, err = svc.CurrencyHistory(ctx, "USD", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, scoreRepo.limit)

	_, err = svc.CurrencyHistory(ctx, "XYZ", 5)
	assert.ErrorIs(t, err, dto.ErrNotFound)

	drivers, err := svc.ListDrivers(ctx)
	require.NoError(t, err)
	assert.Len(t, drivers, 1)

	events, err := svc.RecentEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "USD", events[0].Currency)
	assert.Equal(t, 20, eventRepo.limit)

	_, err = svc.RecentEvents(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, eventRepo.limit)
}
