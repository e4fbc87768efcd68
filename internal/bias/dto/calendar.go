package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Calendar feed names.
const (
	CalendarSourceTradingEconomics = "tradingeconomics"
	CalendarSourceForexFactoryXML  = "forexfactory_xml"
	CalendarSourceForexFactoryRSS  = "forexfactory_rss"
)

const forexFactoryDateLayout = "01-02-2006"

// CalendarEvent is one economic release normalized from any calendar feed.
type CalendarEvent struct {
	Country     string `json:"country"`
	Currency    string `json:"currency"`
	Title       string `json:"title"`
	Impact      string `json:"impact"`
	Actual      string `json:"actual"`
	Forecast    string `json:"forecast"`
	Previous    string `json:"previous"`
	ReleaseDate string `json:"release_date"`
	Source      string `json:"source"`
}

// EventID is the natural key of a release: "<country>_<title>_<release-date>".
func (e CalendarEvent) EventID() string {
	return e.Country + "_" + e.Title + "_" + e.ReleaseDate
}

// HasActual reports whether the release has been published.
func (e CalendarEvent) HasActual() bool {
	return strings.TrimSpace(e.Actual) != ""
}

// ReleasedAt parses ReleaseDate. Both the ForexFactory (MM-DD-YYYY) and
// ISO layouts are accepted.
func (e CalendarEvent) ReleasedAt() *time.Time {
	for _, layout := range []string{forexFactoryDateLayout, "2006-01-02T15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(e.ReleaseDate)); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// NormalizeImpact maps any impact spelling to low, medium or high.
func NormalizeImpact(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(v, "high"), v == "3":
		return "high"
	case strings.Contains(v, "med"), v == "2":
		return "medium"
	default:
		return "low"
	}
}

var valueCleaner = strings.NewReplacer("%", "", "K", "", "M", "", "B", "", ",", "")

// ParseValue reads a published figure such as "1.2%", "250K" or "-0.3".
func ParseValue(raw string) (float64, bool) {
	v := strings.TrimSpace(valueCleaner.Replace(raw))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FlexString decodes a JSON string, number or null into a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// TradingEconomicsEvent is one row of the TradingEconomics calendar.
type TradingEconomicsEvent struct {
	Country    string     `json:"Country"`
	Currency   string     `json:"Currency"`
	Event      string     `json:"Event"`
	Date       string     `json:"Date"`
	Actual     FlexString `json:"Actual"`
	Forecast   FlexString `json:"Forecast"`
	Previous   FlexString `json:"Previous"`
	Importance FlexString `json:"Importance"`
}

// ForexFactoryCalendar is the weekly XML document.
type ForexFactoryCalendar struct {
	Events []ForexFactoryEvent `xml:"event"`
}

// ForexFactoryEvent is one <event> of the weekly XML feed.
type ForexFactoryEvent struct {
	Title    string `xml:"title"`
	Country  string `xml:"country"`
	Date     string `xml:"date"`
	Time     string `xml:"time"`
	Impact   string `xml:"impact"`
	Forecast string `xml:"forecast"`
	Previous string `xml:"previous"`
	Actual   string `xml:"actual"`
}
