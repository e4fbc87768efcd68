package scoring

import (
	"context"
	"sync"
	"time"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"
)

type fakeMarketProvider struct {
	mu     sync.Mutex
	name   string
	closes map[string][]float64
	err    error
	calls  int
}

func (f *fakeMarketProvider) Name() string { return f.name }

func (f *fakeMarketProvider) Symbol(market string) string { return f.name + ":" + market }

func (f *fakeMarketProvider) DailyCloses(_ context.Context, market string, _, _ time.Time) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	closes, ok := f.closes[market]
	if !ok {
		return nil, dto.ErrNoUsableSeries
	}
	return closes, nil
}

func (f *fakeMarketProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCalendarFeed struct {
	name   string
	events []dto.CalendarEvent
	err    error
	calls  int
}

func (f *fakeCalendarFeed) Name() string { return f.name }

func (f *fakeCalendarFeed) FetchEvents(context.Context, time.Time, time.Time) ([]dto.CalendarEvent, error) {
	f.calls++
	return f.events, f.err
}

type fakeMacroRepo struct {
	series map[string][]float64
	errs   map[string]error
}

func (f *fakeMacroRepo) Name() string { return "econdb" }

func (f *fakeMacroRepo) Series(_ context.Context, ticker string) ([]float64, error) {
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	return f.series[ticker], nil
}

// fakeEventRepo behaves like the forex_events table with a unique event_id.
type fakeEventRepo struct {
	rows     map[string]entity.ProcessedEvent
	listErr  error
	conflict map[string]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{rows: map[string]entity.ProcessedEvent{}, conflict: map[string]bool{}}
}

func (f *fakeEventRepo) ListEventIDs(context.Context) (map[string]struct{}, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make(map[string]struct{}, len(f.rows))
	for id := range f.rows {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (f *fakeEventRepo) CreateIgnoreConflict(_ context.Context, event *entity.ProcessedEvent) (bool, error) {
	if _, ok := f.rows[event.EventID]; ok || f.conflict[event.EventID] {
		return false, nil
	}
	f.rows[event.EventID] = *event
	return true, nil
}

func (f *fakeEventRepo) SumScoreByCurrency(_ context.Context, currency string, since time.Time) (float64, int, error) {
	var (
		total float64
		count int
	)
	for _, row := range f.rows {
		released := row.ProcessedAt
		if row.ReleaseDate != nil {
			released = *row.ReleaseDate
		}
		if row.Currency == currency && !released.Before(since) {
			total += row.Score
			count++
		}
	}
	return total, count, nil
}

func (f *fakeEventRepo) FindRecent(context.Context, int) ([]entity.ProcessedEvent, error) {
	out := make([]entity.ProcessedEvent, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row)
	}
	return out, nil
}

type fakeEconomicRepo struct {
	rows map[string]entity.EconomicScore
	err  error
}

func newFakeEconomicRepo() *fakeEconomicRepo {
	return &fakeEconomicRepo{rows: map[string]entity.EconomicScore{}}
}

func (f *fakeEconomicRepo) Upsert(_ context.Context, score *entity.EconomicScore) error {
	f.rows[score.Currency] = *score
	return nil
}

func (f *fakeEconomicRepo) FindAll(context.Context) (map[string]entity.EconomicScore, error) {
	return f.rows, f.err
}

type fakeScoreRepo struct {
	created []entity.CurrencyScore
	latest  map[string]entity.CurrencyScore
	err     error
}

func (f *fakeScoreRepo) CreateBatch(_ context.Context, scores []entity.CurrencyScore) error {
	f.created = append(f.created, scores...)
	return nil
}

func (f *fakeScoreRepo) FindLatestByCurrencies(_ context.Context, currencies []string) (map[string]entity.CurrencyScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]entity.CurrencyScore)
	for _, ccy := range currencies {
		if row, ok := f.latest[ccy]; ok {
			out[ccy] = row
		}
	}
	return out, nil
}

func (f *fakeScoreRepo) FindHistory(context.Context, string, int) ([]entity.CurrencyScore, error) {
	return f.created, nil
}

type fakeBiasRepo struct {
	pairs   map[string]entity.PairBias
	indices map[string]entity.IndexBias
	err     error
}

func newFakeBiasRepo() *fakeBiasRepo {
	return &fakeBiasRepo{pairs: map[string]entity.PairBias{}, indices: map[string]entity.IndexBias{}}
}

func (f *fakeBiasRepo) UpsertPairs(_ context.Context, pairs []entity.PairBias) error {
	for _, p := range pairs {
		f.pairs[p.Pair] = p
	}
	return nil
}

func (f *fakeBiasRepo) FindAllPairs(context.Context) ([]entity.PairBias, error) {
	out := make([]entity.PairBias, 0, len(f.pairs))
	for _, p := range f.pairs {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeBiasRepo) FindPair(_ context.Context, pair string) (*entity.PairBias, error) {
	p, ok := f.pairs[pair]
	if !ok {
		return nil, dto.ErrNotFound
	}
	return &p, nil
}

func (f *fakeBiasRepo) UpsertIndices(_ context.Context, indices []entity.IndexBias) error {
	for _, idx := range indices {
		f.indices[idx.Instrument] = idx
	}
	return nil
}

func (f *fakeBiasRepo) FindAllIndices(context.Context) ([]entity.IndexBias, error) {
	out := make([]entity.IndexBias, 0, len(f.indices))
	for _, idx := range f.indices {
		out = append(out, idx)
	}
	return out, nil
}

func (f *fakeBiasRepo) FindIndices(_ context.Context, instruments []string) (map[string]entity.IndexBias, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]entity.IndexBias)
	for _, instrument := range instruments {
		if idx, ok := f.indices[instrument]; ok {
			out[instrument] = idx
		}
	}
	return out, nil
}

type fakeDriverRepo struct {
	states map[string]entity.MarketDriverState
	err    error
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{states: map[string]entity.MarketDriverState{}}
}

func (f *fakeDriverRepo) Upsert(_ context.Context, state *entity.MarketDriverState) error {
	if f.err != nil {
		return f.err
	}
	f.states[state.Driver] = *state
	return nil
}

func (f *fakeDriverRepo) FindAll(context.Context) ([]entity.MarketDriverState, error) {
	out := make([]entity.MarketDriverState, 0, len(f.states))
	for _, s := range f.states {
		out = append(out, s)
	}
	return out, nil
}
