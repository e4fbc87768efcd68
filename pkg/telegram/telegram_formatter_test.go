package telegram

import (
	"strings"
	"testing"
	"time"

	"golang-fundamental-bias/internal/bias/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHighImpactAlert(t *testing.T) {
	at := time.Date(2025, 1, 10, 13, 31, 0, 0, time.UTC)
	result := dto.IngestResult{
		HighImpact: []dto.CalendarEvent{
			{Currency: "USD", Title: "Non-Farm Employment Change", Actual: "256K", Forecast: "164K", Previous: "212K"},
			{Currency: "CAD", Title: "Unemployment_Rate", Actual: "6.7%", Forecast: "6.9%"},
		},
		Scores: map[string]float64{"USD": 3, "CAD": -3},
	}

	messages := FormatHighImpactAlert(result, at)
	require.Len(t, messages, 1)
	msg := messages[0]
	assert.True(t, strings.HasPrefix(msg, "🚨 *High-impact releases* (2025-01-10 13:31 UTC)"))
	assert.Contains(t, msg, "*USD* Non-Farm Employment Change\nActual: 256K | Forecast: 164K | Previous: 212K")
	assert.Contains(t, msg, "Unemployment\\_Rate")
	assert.Contains(t, msg, "Previous: -")
	assert.Contains(t, msg, "CAD: -3\nUSD: +3")
}

func TestFormatHighImpactAlert_Splits(t *testing.T) {
	var events []dto.CalendarEvent
	for i := 0; i < 80; i++ {
		events = append(events, dto.CalendarEvent{Currency: "EUR", Title: strings.Repeat("x", 60), Actual: "1", Forecast: "2"})
	}

	messages := FormatHighImpactAlert(dto.IngestResult{HighImpact: events}, time.Now())
	require.Greater(t, len(messages), 1)
	for _, m := range messages {
		assert.LessOrEqual(t, len(m), maxMessageLen)
	}
	assert.Contains(t, messages[1], "part 2")
}

func TestFormatHighImpactAlert_Empty(t *testing.T) {
	assert.Nil(t, FormatHighImpactAlert(dto.IngestResult{}, time.Now()))
}

func TestNewNotifier_NoToken(t *testing.T) {
	n, err := NewNotifier("", 0)
	require.NoError(t, err)
	assert.IsType(t, NopNotifier{}, n)
	assert.NoError(t, n.SendMessage("ignored"))
}
