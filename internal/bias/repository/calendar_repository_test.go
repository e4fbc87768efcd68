package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forexFactoryXML = `<?xml version="1.0" encoding="windows-1252"?>
<weeklyevents>
	<event>
		<title>Non-Farm Employment Change</title>
		<country>USD</country>
		<date><![CDATA[01-10-2025]]></date>
		<time><![CDATA[1:30pm]]></time>
		<impact><![CDATA[High]]></impact>
		<forecast><![CDATA[160K]]></forecast>
		<previous><![CDATA[227K]]></previous>
		<actual><![CDATA[256K]]></actual>
	</event>
	<event>
		<title>Bank Holiday</title>
		<country></country>
		<date><![CDATA[01-10-2025]]></date>
		<impact><![CDATA[Holiday]]></impact>
	</event>
	<event>
		<title>CPI y/y</title>
		<country>CAD</country>
		<date><![CDATA[01-11-2025]]></date>
		<impact><![CDATA[Medium]]></impact>
		<forecast><![CDATA[1.9%]]></forecast>
	</event>
</weeklyevents>`

func TestForexFactoryXMLRepository_FetchEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(forexFactoryXML))
	}))
	defer server.Close()

	repo := NewForexFactoryXMLRepository(testProvider(server.URL, "", nil), logger.NewNop())
	events, err := repo.FetchEvents(context.Background(), testWindow.from, testWindow.to)

	require.NoError(t, err)
	require.Len(t, events, 2)

	nfp := events[0]
	assert.Equal(t, "USD", nfp.Country)
	assert.Equal(t, "USD", nfp.Currency)
	assert.Equal(t, "high", nfp.Impact)
	assert.Equal(t, "256K", nfp.Actual)
	assert.Equal(t, "160K", nfp.Forecast)
	assert.Equal(t, "227K", nfp.Previous)
	assert.Equal(t, "USD_Non-Farm Employment Change_01-10-2025", nfp.EventID())

	assert.Equal(t, "medium", events[1].Impact)
	assert.False(t, events[1].HasActual())
}

func TestForexFactoryXMLRepository_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := NewForexFactoryXMLRepository(testProvider(server.URL, "", nil), logger.NewNop())
	events, err := repo.FetchEvents(context.Background(), testWindow.from, testWindow.to)
	assert.Error(t, err)
	assert.Empty(t, events)
}

func TestParseForexFactoryXML_Malformed(t *testing.T) {
	_, err := parseForexFactoryXML([]byte(`<weeklyevents><event><title>broken`))
	assert.Error(t, err)
}

func TestTradingEconomicsRepository_FetchEvents(t *testing.T) {
	var gotToken, gotFrom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		gotFrom = r.URL.Query().Get("d1")
		_, _ = w.Write([]byte(`[
			{"Country":"United States","Currency":"USD","Event":"CPI","Date":"2025-01-10T13:30:00","Actual":"3.1%","Forecast":"3.0%","Importance":3},
			{"Country":"Euro Area","Currency":"EUR","Event":"","Actual":"0.1%","Forecast":"0.2%","Importance":"low"},
			{"Country":"Japan","Currency":"JPY","Event":"Tankan","Actual":null,"Forecast":12,"Importance":"Medium"}
		]`))
	}))
	defer server.Close()

	repo := NewTradingEconomicsRepository(testProvider(server.URL, "guest:guest", nil), logger.NewNop())
	events, err := repo.FetchEvents(context.Background(), testWindow.from, testWindow.to)

	require.NoError(t, err)
	assert.Equal(t, "guest:guest", gotToken)
	assert.Equal(t, "2025-01-06", gotFrom)
	require.Len(t, events, 2)
	assert.Equal(t, "USD", events[0].Currency)
	assert.Equal(t, "high", events[0].Impact)
	assert.Equal(t, "3.1%", events[0].Actual)
	assert.Equal(t, "medium", events[1].Impact)
	assert.Equal(t, "12", events[1].Forecast)
	assert.Equal(t, "", events[1].Actual)
}

func TestTradingEconomicsRepository_MissingKey(t *testing.T) {
	repo := NewTradingEconomicsRepository(testProvider("http://127.0.0.1:1", "", nil), logger.NewNop())
	_, err := repo.FetchEvents(context.Background(), testWindow.from, testWindow.to)
	assert.ErrorIs(t, err, dto.ErrMissingCredential)
}

const forexFactoryRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Forex Factory Calendar</title>
	<item>
		<title>Unemployment Rate</title>
		<pubDate>Fri, 10 Jan 2025 13:30:00 GMT</pubDate>
		<description><![CDATA[<b>Country:</b> USD<br/><b>Impact:</b> High<br/><b>Actual:</b> 4.1%<br/><b>Forecast:</b> 4.2%<br/><b>Previous:</b> 4.2%<br/>]]></description>
	</item>
	<item>
		<title>Speech</title>
		<description><![CDATA[<b>Impact:</b> Low<br/>]]></description>
	</item>
</channel>
</rss>`

func TestForexFactoryRSSRepository_FetchEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(forexFactoryRSS))
	}))
	defer server.Close()

	repo := NewForexFactoryRSSRepository(testProvider(server.URL, "", nil), logger.NewNop())
	events, err := repo.FetchEvents(context.Background(), testWindow.from, testWindow.to)

	require.NoError(t, err)
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "Unemployment Rate", ev.Title)
	assert.Equal(t, "USD", ev.Country)
	assert.Equal(t, "high", ev.Impact)
	assert.Equal(t, "4.1%", ev.Actual)
	assert.Equal(t, "4.2%", ev.Forecast)
	assert.Equal(t, "4.2%", ev.Previous)
	assert.Equal(t, "01-10-2025", ev.ReleaseDate)
}

func TestDescriptionFields(t *testing.T) {
	fields := descriptionFields(`<b>Country:</b> GBP<br><b>Actual:</b><br><b>Forecast:</b> 0.3%`)
	assert.Equal(t, "GBP", fields["country"])
	assert.Equal(t, "", fields["actual"])
	assert.Equal(t, "0.3%", fields["forecast"])

	assert.Empty(t, descriptionFields(""))
}
