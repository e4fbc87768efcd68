package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB connects to the database named by BIAS_TEST_DATABASE_DSN. The
// tables are recreated for every test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("BIAS_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("Integration test - requires PostgreSQL (set BIAS_TEST_DATABASE_DSN)")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	models := []interface{}{
		&entity.ProcessedEvent{},
		&entity.EconomicScore{},
		&entity.CurrencyScore{},
		&entity.PairBias{},
		&entity.IndexBias{},
		&entity.MarketDriverState{},
		&entity.BiasRun{},
	}
	require.NoError(t, db.Migrator().DropTable(models...))
	require.NoError(t, db.AutoMigrate(models...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestProcessedEventRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewProcessedEventRepository(db)
	ctx := context.Background()
	released := func(y int, m time.Month, d int) *time.Time {
		ts := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}

	first := &entity.ProcessedEvent{EventID: "USD_NFP_01-10-2025", Country: "USD", Currency: "USD", Title: "NFP", Impact: entity.ImpactHigh, Actual: "256K", Forecast: "160K", ReleaseDate: released(2025, 1, 10), Score: 3}
	inserted, err := repo.CreateIgnoreConflict(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	dup := &entity.ProcessedEvent{EventID: "USD_NFP_01-10-2025", Country: "USD", Currency: "USD", Title: "NFP", Impact: entity.ImpactHigh, Score: 99}
	inserted, err = repo.CreateIgnoreConflict(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	_, err = repo.CreateIgnoreConflict(ctx, &entity.ProcessedEvent{EventID: "USD_CPI_01-15-2025", Country: "USD", Currency: "USD", Title: "CPI", Impact: entity.ImpactMedium, ReleaseDate: released(2025, 1, 15), Score: -2})
	require.NoError(t, err)
	_, err = repo.CreateIgnoreConflict(ctx, &entity.ProcessedEvent{EventID: "USD_GDP_11-27-2024", Country: "USD", Currency: "USD", Title: "GDP", Impact: entity.ImpactHigh, ReleaseDate: released(2024, 11, 27), Score: 5})
	require.NoError(t, err)

	ids, err := repo.ListEventIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, "USD_NFP_01-10-2025")

	since := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	total, count, err := repo.SumScoreByCurrency(ctx, "USD", since)
	require.NoError(t, err)
	assert.Equal(t, 1.0, total)
	assert.Equal(t, 2, count)

	total, count, err = repo.SumScoreByCurrency(ctx, "USD", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 6.0, total)
	assert.Equal(t, 3, count)

	total, count, err = repo.SumScoreByCurrency(ctx, "EUR", since)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
	assert.Equal(t, 0, count)
}

func TestEconomicScoreRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewEconomicScoreRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entity.EconomicScore{Currency: "USD", TotalScore: 3, EventCount: 1}))
	require.NoError(t, repo.Upsert(ctx, &entity.EconomicScore{Currency: "USD", TotalScore: 5, EventCount: 2}))

	scores, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 5.0, scores["USD"].TotalScore)
	assert.Equal(t, 2, scores["USD"].EventCount)
}

func TestCurrencyScoreRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewCurrencyScoreRepository(db)
	ctx := context.Background()

	older := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.CreateBatch(ctx, []entity.CurrencyScore{
		{RunID: uuid.NewString(), Mode: "weekly", Currency: "USD", TotalScore: 2, Notes: []string{"CB: hawkish"}, CreatedAt: older},
		{RunID: uuid.NewString(), Mode: "weekly", Currency: "JPY", TotalScore: -3, CreatedAt: older},
	}))
	require.NoError(t, repo.CreateBatch(ctx, []entity.CurrencyScore{
		{RunID: uuid.NewString(), Mode: "hourly", Currency: "USD", TotalScore: 7, Notes: []string{"CB: hawkish", "DXY↑ → USD+"}},
	}))

	latest, err := repo.FindLatestByCurrencies(ctx, []string{"USD", "JPY", "EUR"})
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, 7.0, latest["USD"].TotalScore)
	assert.Equal(t, "hourly", latest["USD"].Mode)
	assert.Equal(t, []string{"CB: hawkish", "DXY↑ → USD+"}, []string(latest["USD"].Notes))
	assert.Equal(t, -3.0, latest["JPY"].TotalScore)

	history, err := repo.FindHistory(ctx, "USD", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 7.0, history[0].TotalScore)
}

func TestBiasRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewBiasRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.UpsertPairs(ctx, []entity.PairBias{{Pair: "EUR/USD", Base: "EUR", Quote: "USD", TotalBias: 4, Label: entity.LabelNeutral, Confidence: 66, UpdatedAt: now}}))
	require.NoError(t, repo.UpsertPairs(ctx, []entity.PairBias{{Pair: "EUR/USD", Base: "EUR", Quote: "USD", TotalBias: 8, Label: entity.LabelStrong, Confidence: 83, UpdatedAt: now}}))

	pair, err := repo.FindPair(ctx, "EUR/USD")
	require.NoError(t, err)
	assert.Equal(t, entity.LabelStrong, pair.Label)
	assert.Equal(t, 8.0, pair.TotalBias)

	_, err = repo.FindPair(ctx, "GBP/USD")
	assert.ErrorIs(t, err, dto.ErrNotFound)

	require.NoError(t, repo.UpsertIndices(ctx, []entity.IndexBias{
		{Instrument: "US500", Name: "S&P 500", HomeCurrency: "USD", Score: 2, Label: entity.LabelNeutral, UpdatedAt: now},
		{Instrument: "EU50", Name: "EuroStoxx 50", HomeCurrency: "EUR", Score: 4, Label: entity.LabelStrong, UpdatedAt: now},
	}))
	indices, err := repo.FindIndices(ctx, []string{"US500", "EU50", "UK100"})
	require.NoError(t, err)
	assert.Len(t, indices, 2)
	assert.Equal(t, 4.0, indices["EU50"].Score)
}

func TestBiasRunRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewBiasRunRepository(db)
	ctx := context.Background()

	run := &entity.BiasRun{RunID: uuid.NewString(), Mode: entity.ModeWeekly, Trigger: "cli", Status: entity.StatusRunning, StartedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, run))

	run.Status = entity.StatusCompleted
	run.CompletedAt.Time = time.Now().UTC()
	run.CompletedAt.Valid = true
	require.NoError(t, repo.Update(ctx, run))

	found, err := repo.FindByRunID(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, found.Status)
	assert.True(t, found.CompletedAt.Valid)

	_, err = repo.FindByRunID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, dto.ErrNotFound)
}
