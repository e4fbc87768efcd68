package dto

// Provenance tells which link of the market chain served a quote.
type Provenance string

const (
	ProvenancePrimary   Provenance = "primary"
	ProvenanceSecondary Provenance = "secondary"
	ProvenanceNone      Provenance = "none"
)

// MarketQuote is the percent change of one market proxy over the lookback.
type MarketQuote struct {
	Market     string     `json:"market"`
	Change     float64    `json:"change"`
	Provenance Provenance `json:"provenance"`
	Provider   string     `json:"provider,omitempty"`
	Symbol     string     `json:"symbol,omitempty"`
}

// MarketSnapshot holds one quote per market proxy.
type MarketSnapshot map[string]MarketQuote

// Change returns the percent change of market, 0 when unknown.
func (s MarketSnapshot) Change(market string) float64 {
	if s == nil {
		return 0
	}
	return s[market].Change
}

// PolygonAggregatesResponse is the body of /v2/aggs/ticker/{t}/range/1/day/{from}/{to}.
type PolygonAggregatesResponse struct {
	Ticker       string          `json:"ticker"`
	Status       string          `json:"status"`
	ResultsCount int             `json:"resultsCount"`
	Results      []PolygonBarDTO `json:"results"`
}

// PolygonBarDTO is one daily bar.
type PolygonBarDTO struct {
	Close     float64 `json:"c"`
	Timestamp int64   `json:"t"`
}

// YahooChartResponse is the body of /v8/finance/chart/{t}.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}
