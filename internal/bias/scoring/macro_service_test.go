package scoring

import (
	"context"
	"errors"
	"testing"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacroService_Readings(t *testing.T) {
	repo := &fakeMacroRepo{
		series: map[string][]float64{
			"CPIUSD": {1, 2, 2.5},
			"GDPUSD": {5},
			"FFRUSD": {0, 5.25},
			"CPIEUR": {2.4, 2.4},
			"GDPEUR": {-2, -1},
		},
		errs: map[string]error{"CPIJPY": errors.New("status 502")},
	}
	tickers := map[string]map[string]string{
		"USD": {"cpi": "CPIUSD", "gdp": "GDPUSD", "rate": "FFRUSD"},
		"EUR": {"cpi": "CPIEUR", "gdp": "GDPEUR"},
		"JPY": {"cpi": "CPIJPY"},
	}

	readings := NewMacroService(repo, logger.NewNop(), nil).Readings(context.Background(), tickers)
	require.Len(t, readings, 3)

	assert.Equal(t, "EUR", readings[0].Currency)
	assert.Equal(t, "cpi", readings[0].Indicator)
	assert.Equal(t, 0.0, readings[0].Change)

	assert.Equal(t, "gdp", readings[1].Indicator)
	assert.Equal(t, 50.0, readings[1].Change)

	assert.Equal(t, "USD", readings[2].Currency)
	assert.Equal(t, "CPIUSD", readings[2].Ticker)
	assert.Equal(t, 2.5, readings[2].Latest)
	assert.Equal(t, 2.0, readings[2].Previous)
	assert.Equal(t, 25.0, readings[2].Change)
}

func TestLatestChange_NoSignal(t *testing.T) {
	_, err := latestChange([]float64{3})
	assert.ErrorIs(t, err, dto.ErrNoSignal)

	_, err = latestChange([]float64{1, 0, 4})
	assert.ErrorIs(t, err, dto.ErrNoSignal)

	reading, err := latestChange([]float64{1, -4, -2})
	require.NoError(t, err)
	assert.Equal(t, 50.0, reading.Change)
}
