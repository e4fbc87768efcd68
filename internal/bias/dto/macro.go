package dto

import "encoding/json"

// MacroReading is the latest change of one macro indicator of a currency.
type MacroReading struct {
	Currency  string  `json:"currency"`
	Indicator string  `json:"indicator"`
	Ticker    string  `json:"ticker"`
	Latest    float64 `json:"latest"`
	Previous  float64 `json:"previous"`
	Change    float64 `json:"change"`
}

// EconDBSeriesResponse is the body of /api/series/{ticker}/.
type EconDBSeriesResponse struct {
	Ticker      string `json:"ticker"`
	Description string `json:"description"`
	Data        struct {
		Dates  []string          `json:"dates"`
		Values []json.RawMessage `json:"values"`
	} `json:"data"`
}

// Points returns the numeric values of the series in order. Each value may
// be a bare number or a [date, number] pair; nulls are skipped.
func (r EconDBSeriesResponse) Points() []float64 {
	points := make([]float64, 0, len(r.Data.Values))
	for _, raw := range r.Data.Values {
		var n *float64
		if err := json.Unmarshal(raw, &n); err == nil {
			if n != nil {
				points = append(points, *n)
			}
			continue
		}
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) < 2 {
			continue
		}
		if err := json.Unmarshal(pair[1], &n); err == nil && n != nil {
			points = append(points, *n)
		}
	}
	return points
}
