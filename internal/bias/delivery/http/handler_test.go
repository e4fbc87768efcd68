package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQueryService struct {
	pairs    []entity.PairBias
	indices  []entity.IndexBias
	history  []entity.CurrencyScore
	drivers  []entity.MarketDriverState
	events   []entity.ProcessedEvent
	err      error
	gotCode  string
	gotLimit int
	gotBase  string
	gotQuote string
}

func (s *stubQueryService) ListPairs(context.Context) ([]entity.PairBias, error) {
	return s.pairs, s.err
}

func (s *stubQueryService) GetPair(_ context.Context, base, quote string) (*entity.PairBias, error) {
	s.gotBase, s.gotQuote = base, quote
	if s.err != nil {
		return nil, s.err
	}
	if len(s.pairs) == 0 {
		return nil, dto.ErrNotFound
	}
	return &s.pairs[0], nil
}

func (s *stubQueryService) ListIndices(context.Context) ([]entity.IndexBias, error) {
	return s.indices, s.err
}

func (s *stubQueryService) CurrencyHistory(_ context.Context, code string, limit int) ([]entity.CurrencyScore, error) {
	s.gotCode, s.gotLimit = code, limit
	return s.history, s.err
}

func (s *stubQueryService) ListDrivers(context.Context) ([]entity.MarketDriverState, error) {
	return s.drivers, s.err
}

func (s *stubQueryService) RecentEvents(_ context.Context, limit int) ([]entity.ProcessedEvent, error) {
	s.gotLimit = limit
	return s.events, s.err
}

type stubRunService struct {
	runs       []dto.RunResponse
	enqueueErr error
	findErr    error
	enqueued   []entity.RunMode
	triggers   []string
}

func (s *stubRunService) Execute(context.Context, dto.RunRequest) (*entity.BiasRun, error) {
	return nil, errors.New("not used")
}

func (s *stubRunService) Enqueue(_ context.Context, mode entity.RunMode, trigger string) (string, error) {
	if s.enqueueErr != nil {
		return "", s.enqueueErr
	}
	s.enqueued = append(s.enqueued, mode)
	s.triggers = append(s.triggers, trigger)
	return "run-42", nil
}

func (s *stubRunService) Recalculate(context.Context, string) error { return nil }

func (s *stubRunService) Modes() []entity.RunMode { return nil }

func (s *stubRunService) FindRecent(context.Context, int) ([]dto.RunResponse, error) {
	return s.runs, s.findErr
}

func (s *stubRunService) FindByRunID(_ context.Context, id string) (*dto.RunResponse, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for i := range s.runs {
		if s.runs[i].RunID == id {
			return &s.runs[i], nil
		}
	}
	return nil, dto.ErrNotFound
}

func newTestServer(q *stubQueryService, r *stubRunService) *echo.Echo {
	e := echo.New()
	log := logger.NewNop()
	api := e.Group("/api/v1")
	bias := NewBiasHandler(q, log)
	bias.RegisterRoutes(api.Group("/bias"))
	bias.RegisterDriverRoutes(api.Group("/drivers"))
	NewRunHandler(r, log).RegisterRoutes(api.Group("/runs"))
	return e
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBiasHandler_ListPairs(t *testing.T) {
	q := &stubQueryService{pairs: []entity.PairBias{{Pair: "EUR/USD", TotalBias: 8, Label: entity.LabelStrong}}}
	rec := do(newTestServer(q, &stubRunService{}), http.MethodGet, "/api/v1/bias/pairs")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []entity.PairBias
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "EUR/USD", got[0].Pair)
	assert.Equal(t, 8.0, got[0].TotalBias)
}

func TestBiasHandler_GetPair(t *testing.T) {
	q := &stubQueryService{pairs: []entity.PairBias{{Pair: "EUR/USD"}}}
	e := newTestServer(q, &stubRunService{})

	rec := do(e, http.MethodGet, "/api/v1/bias/pairs/eur/usd")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "eur", q.gotBase)
	assert.Equal(t, "usd", q.gotQuote)

	q.pairs = nil
	rec = do(e, http.MethodGet, "/api/v1/bias/pairs/GBP/JPY")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBiasHandler_CurrencyHistory(t *testing.T) {
	q := &stubQueryService{history: []entity.CurrencyScore{{Currency: "USD", TotalScore: 3}}}
	e := newTestServer(q, &stubRunService{})

	rec := do(e, http.MethodGet, "/api/v1/bias/currencies/usd?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usd", q.gotCode)
	assert.Equal(t, 5, q.gotLimit)

	rec = do(e, http.MethodGet, "/api/v1/bias/currencies/usd?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	q.err = fmt.Errorf("%w: currency XXX", dto.ErrNotFound)
	rec = do(e, http.MethodGet, "/api/v1/bias/currencies/xxx")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBiasHandler_Errors(t *testing.T) {
	q := &stubQueryService{err: errors.New("db down")}
	e := newTestServer(q, &stubRunService{})

	for _, target := range []string{"/api/v1/bias/pairs", "/api/v1/bias/indices", "/api/v1/bias/events", "/api/v1/drivers"} {
		rec := do(e, http.MethodGet, target)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "db down", body.Error)
	}
}

func TestBiasHandler_ListEvents(t *testing.T) {
	q := &stubQueryService{events: []entity.ProcessedEvent{{EventID: "USD_Non-Farm Employment Change_01-10-2025", Currency: "USD", Score: 3}}}
	e := newTestServer(q, &stubRunService{})

	rec := do(e, http.MethodGet, "/api/v1/bias/events?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, q.gotLimit)
	var got []entity.ProcessedEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got[0].Score)

	rec = do(e, http.MethodGet, "/api/v1/bias/events?limit=ten")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBiasHandler_ListDrivers(t *testing.T) {
	q := &stubQueryService{drivers: []entity.MarketDriverState{{Driver: "Oil Prices", Status: "Neutral"}}}
	rec := do(newTestServer(q, &stubRunService{}), http.MethodGet, "/api/v1/drivers")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"driver":"Oil Prices"`)
}

func TestRunHandler_EnqueueRun(t *testing.T) {
	r := &stubRunService{}
	rec := do(newTestServer(&stubQueryService{}, r), http.MethodPost, "/api/v1/runs/hourly")

	require.Equal(t, http.StatusAccepted, rec.Code)
	var got dto.RunRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, dto.RunRequest{RunID: "run-42", Mode: entity.ModeHourly, Trigger: "api"}, got)
	assert.Equal(t, []entity.RunMode{entity.ModeHourly}, r.enqueued)
	assert.Equal(t, []string{"api"}, r.triggers)
}

func TestRunHandler_EnqueueUnknownMode(t *testing.T) {
	r := &stubRunService{enqueueErr: fmt.Errorf("%w: monthly", dto.ErrUnknownMode)}
	rec := do(newTestServer(&stubQueryService{}, r), http.MethodPost, "/api/v1/runs/monthly")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunHandler_GetRun(t *testing.T) {
	r := &stubRunService{runs: []dto.RunResponse{{RunID: "abc", Mode: "weekly", Status: "completed"}}}
	e := newTestServer(&stubQueryService{}, r)

	rec := do(e, http.MethodGet, "/api/v1/runs/abc")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)

	rec = do(e, http.MethodGet, "/api/v1/runs/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []dto.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 1)
}
