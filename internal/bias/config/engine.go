package config

// Surprise formulas for calendar releases.
const (
	SurpriseSign    = "sign"
	SurprisePercent = "percent"
)

// Calendar sources a mode can score from.
const (
	CalendarSourceWindow = "window"
	CalendarSourceLedger = "ledger"
)

// Score components a market rule can feed.
const (
	ComponentCommodity = "commodity"
	ComponentMarket    = "market"
	ComponentSentiment = "sentiment"
)

// Market proxies.
const (
	MarketDXY    = "DXY"
	MarketWTI    = "WTI"
	MarketGold   = "GOLD"
	MarketCopper = "COPPER"
	MarketSPX    = "SPX"
	MarketUST10Y = "UST10Y"
	MarketVIX    = "VIX"
)

// Pair is a BASE/QUOTE currency pair.
type Pair struct {
	Base  string `mapstructure:"base"`
	Quote string `mapstructure:"quote"`
}

// Symbol returns "BASE/QUOTE".
func (p Pair) Symbol() string {
	return p.Base + "/" + p.Quote
}

// Index is an equity index and the currency of its home market.
type Index struct {
	Instrument   string `mapstructure:"instrument"`
	Name         string `mapstructure:"name"`
	HomeCurrency string `mapstructure:"home_currency"`
}

// MarketRule scores Subject from the percent change of Market. A change at or
// above Threshold adds RiseWeight, at or below -Threshold adds FallWeight.
// A rule with an empty note on one side is one-sided.
type MarketRule struct {
	Subject    string  `mapstructure:"subject"`
	Market     string  `mapstructure:"market"`
	Component  string  `mapstructure:"component"`
	Threshold  float64 `mapstructure:"threshold"`
	RiseWeight float64 `mapstructure:"rise_weight"`
	FallWeight float64 `mapstructure:"fall_weight"`
	RiseNote   string  `mapstructure:"rise_note"`
	FallNote   string  `mapstructure:"fall_note"`
}

// Apply returns the contribution and note of the rule for a percent change.
func (r MarketRule) Apply(change float64) (float64, string, bool) {
	switch {
	case change >= r.Threshold && r.RiseNote != "":
		return r.RiseWeight, r.RiseNote, true
	case change <= -r.Threshold && r.FallNote != "":
		return r.FallWeight, r.FallNote, true
	}
	return 0, "", false
}

// HomeCurrencyRule tilts an index against the strength of its home currency.
type HomeCurrencyRule struct {
	Threshold    float64 `mapstructure:"threshold"`
	StrongWeight float64 `mapstructure:"strong_weight"`
	WeakWeight   float64 `mapstructure:"weak_weight"`
	StrongNote   string  `mapstructure:"strong_note"`
	WeakNote     string  `mapstructure:"weak_note"`
}

// Mode is the thin per-run configuration of the scoring engine.
type Mode struct {
	Name           string `mapstructure:"name"`
	LookbackDays   int    `mapstructure:"lookback_days"`
	CalendarSource string `mapstructure:"calendar_source"`
	Macro          bool   `mapstructure:"macro"`
	Placeholder    string `mapstructure:"placeholder"`
}

// Engine is the immutable rule set of the scoring engine.
type Engine struct {
	Currencies     []string                     `mapstructure:"currencies"`
	Pairs          []Pair                       `mapstructure:"pairs"`
	Indices        []Index                      `mapstructure:"indices"`
	Markets        []string                     `mapstructure:"markets"`
	CBTones        map[string]string            `mapstructure:"cb_tones"`
	CBToneWeight   float64                      `mapstructure:"cb_tone_weight"`
	ImpactWeights  map[string]float64           `mapstructure:"impact_weights"`
	SurpriseMode   string                       `mapstructure:"surprise_mode"`
	MarketRules    []MarketRule                 `mapstructure:"market_rules"`
	IndexRules     []MarketRule                 `mapstructure:"index_rules"`
	IndexTilts     []MarketRule                 `mapstructure:"index_tilts"`
	HomeCurrency   HomeCurrencyRule             `mapstructure:"home_currency"`
	MacroThreshold float64                      `mapstructure:"macro_threshold"`
	MacroWeight    float64                      `mapstructure:"macro_weight"`
	MacroTickers   map[string]map[string]string `mapstructure:"macro_tickers"`

	PairLabelThreshold  float64 `mapstructure:"pair_label_threshold"`
	PairConfidenceSpan  float64 `mapstructure:"pair_confidence_span"`
	IndexLabelThreshold float64 `mapstructure:"index_label_threshold"`
	IndexConfidenceSpan float64 `mapstructure:"index_confidence_span"`
	SummaryMaxRunes     int     `mapstructure:"summary_max_runes"`
	PairQuoteNotes      int     `mapstructure:"pair_quote_notes"`
	PairBaseNotes       int     `mapstructure:"pair_base_notes"`
	IndexSummaryNotes   int     `mapstructure:"index_summary_notes"`

	Modes []Mode `mapstructure:"modes"`
}

// Mode returns the mode configuration by name.
func (e Engine) Mode(name string) (Mode, bool) {
	for _, m := range e.Modes {
		if m.Name == name {
			return m, true
		}
	}
	return Mode{}, false
}

// LedgerLookbackDays returns the lookback of the first ledger-backed mode, 7
// when no mode reads the ledger.
func (e Engine) LedgerLookbackDays() int {
	for _, m := range e.Modes {
		if m.CalendarSource == CalendarSourceLedger && m.LookbackDays > 0 {
			return m.LookbackDays
		}
	}
	return 7
}

// ImpactWeight returns the weight for a normalized impact level, defaulting to 1.
func (e Engine) ImpactWeight(impact string) float64 {
	if w, ok := e.ImpactWeights[impact]; ok {
		return w
	}
	return 1
}

// HasCurrency reports whether code is one of the scored currencies.
func (e Engine) HasCurrency(code string) bool {
	for _, c := range e.Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// DefaultEngine returns the production rule set.
func DefaultEngine() Engine {
	return Engine{
		Currencies: []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "NZD", "CHF", "XAU", "XAG"},
		Pairs: []Pair{
			{"EUR", "USD"}, {"GBP", "USD"}, {"USD", "JPY"}, {"USD", "CHF"},
			{"USD", "CAD"}, {"AUD", "USD"}, {"NZD", "USD"},

			{"EUR", "GBP"}, {"EUR", "JPY"}, {"EUR", "CHF"},
			{"EUR", "AUD"}, {"EUR", "CAD"}, {"EUR", "NZD"},

			{"GBP", "JPY"}, {"GBP", "CHF"}, {"GBP", "AUD"},
			{"GBP", "CAD"}, {"GBP", "NZD"},

			{"AUD", "JPY"}, {"AUD", "CHF"}, {"AUD", "NZD"}, {"AUD", "CAD"},

			{"NZD", "JPY"}, {"NZD", "CHF"}, {"NZD", "CAD"},

			{"CAD", "JPY"}, {"CAD", "CHF"}, {"CHF", "JPY"},

			{"XAU", "USD"}, {"XAG", "USD"},
		},
		Indices: []Index{
			{"US500", "S&P 500", "USD"},
			{"US100", "Nasdaq 100", "USD"},
			{"US30", "Dow Jones", "USD"},
			{"UK100", "FTSE 100", "GBP"},
			{"GER40", "DAX 40", "EUR"},
			{"FRA40", "CAC 40", "EUR"},
			{"EU50", "EuroStoxx 50", "EUR"},
			{"JP225", "Nikkei 225", "JPY"},
			{"HK50", "Hang Seng", "HKD"},
			{"AUS200", "ASX 200", "AUD"},
		},
		Markets: []string{MarketDXY, MarketWTI, MarketGold, MarketCopper, MarketSPX, MarketUST10Y, MarketVIX},
		CBTones: map[string]string{
			"USD": "hawkish",
			"EUR": "neutral",
			"GBP": "neutral",
			"JPY": "dovish",
			"CAD": "dovish",
			"AUD": "neutral",
			"NZD": "neutral",
			"CHF": "neutral",
		},
		CBToneWeight:  3,
		ImpactWeights: map[string]float64{"low": 1, "medium": 2, "high": 3},
		SurpriseMode:  SurpriseSign,
		MarketRules: []MarketRule{
			{Subject: "CAD", Market: MarketWTI, Component: ComponentCommodity, Threshold: 1.0, RiseWeight: 2, FallWeight: -2, RiseNote: "Oil↑ → CAD+", FallNote: "Oil↓ → CAD-"},
			{Subject: "AUD", Market: MarketCopper, Component: ComponentCommodity, Threshold: 1.0, RiseWeight: 1, FallWeight: -1, RiseNote: "Copper↑ → AUD+", FallNote: "Copper↓ → AUD-"},
			{Subject: "AUD", Market: MarketGold, Component: ComponentCommodity, Threshold: 1.0, RiseWeight: 1, FallWeight: -1, RiseNote: "Gold↑ → AUD+", FallNote: "Gold↓ → AUD-"},
			{Subject: "NZD", Market: MarketSPX, Component: ComponentCommodity, Threshold: 1.0, RiseWeight: 1, FallWeight: -1, RiseNote: "Risk-on → NZD+", FallNote: "Risk-off → NZD-"},
			{Subject: "XAU", Market: MarketUST10Y, Component: ComponentCommodity, Threshold: 0.05, RiseWeight: -2, FallWeight: 2, RiseNote: "Yields↑ → Gold-", FallNote: "Yields↓ → Gold+"},
			{Subject: "XAU", Market: MarketDXY, Component: ComponentCommodity, Threshold: 1.0, RiseWeight: -2, FallWeight: 2, RiseNote: "DXY↑ → Gold-", FallNote: "DXY↓ → Gold+"},
			{Subject: "XAG", Market: MarketDXY, Component: ComponentCommodity, Threshold: 1.0, RiseWeight: -1, FallWeight: 1, RiseNote: "DXY↑ → Silver-", FallNote: "DXY↓ → Silver+"},
			{Subject: "XAG", Market: MarketCopper, Component: ComponentCommodity, Threshold: 1.0, RiseWeight: 1, FallWeight: -1, RiseNote: "Copper↑ → Silver+ (industrial)", FallNote: "Copper↓ → Silver-"},

			{Subject: "USD", Market: MarketDXY, Component: ComponentMarket, Threshold: 1.0, RiseWeight: 2, RiseNote: "DXY↑ → USD+"},
			{Subject: "USD", Market: MarketUST10Y, Component: ComponentMarket, Threshold: 0.05, RiseWeight: 2, RiseNote: "Yields↑ → USD+"},

			{Subject: "JPY", Market: MarketSPX, Component: ComponentSentiment, Threshold: 1.0, RiseWeight: -2, FallWeight: 2, RiseNote: "Risk-on → JPY/CHF-", FallNote: "Risk-off → JPY/CHF+"},
			{Subject: "CHF", Market: MarketSPX, Component: ComponentSentiment, Threshold: 1.0, RiseWeight: -2, FallWeight: 2, RiseNote: "Risk-on → JPY/CHF-", FallNote: "Risk-off → JPY/CHF+"},
		},
		IndexRules: []MarketRule{
			{Market: MarketSPX, Threshold: 1.0, RiseWeight: 2, FallWeight: -2, RiseNote: "Risk-on (SPX↑)", FallNote: "Risk-off (SPX↓)"},
			{Market: MarketVIX, Threshold: 10, RiseWeight: -1, FallWeight: 1, RiseNote: "Vol↑", FallNote: "Vol↓"},
			{Market: MarketUST10Y, Threshold: 0.05, RiseWeight: -2, FallWeight: 2, RiseNote: "Yields↑ headwind", FallNote: "Yields↓ tailwind"},
		},
		IndexTilts: []MarketRule{
			{Subject: "UK100", Market: MarketWTI, Threshold: 1.0, RiseWeight: 1, FallWeight: -1, RiseNote: "Oil↑ energy boost", FallNote: "Oil↓ drag"},
			{Subject: "AUS200", Market: MarketCopper, Threshold: 1.0, RiseWeight: 1, FallWeight: -1, RiseNote: "Copper↑ materials boost", FallNote: "Copper↓ drag"},
			{Subject: "AUS200", Market: MarketGold, Threshold: 1.0, RiseWeight: 1, FallWeight: -1, RiseNote: "Gold↑ miners help", FallNote: "Gold↓ drag"},
		},
		HomeCurrency: HomeCurrencyRule{
			Threshold:    5,
			StrongWeight: -1,
			WeakWeight:   1,
			StrongNote:   "%s strong (export headwind)",
			WeakNote:     "%s weak (export tailwind)",
		},
		MacroThreshold: 0.5,
		MacroWeight:    2,
		MacroTickers: map[string]map[string]string{
			"USD": {"cpi": "CPIUSD", "gdp": "GDPUSD", "rate": "FFRUSD"},
			"EUR": {"cpi": "CPIEUR", "gdp": "GDPEUR", "rate": "RRTBEUR"},
			"GBP": {"cpi": "CPIGBP", "gdp": "GDPGBP", "rate": "IRBRGBP"},
			"JPY": {"cpi": "CPIJPY", "gdp": "GDPJPY", "rate": "IRJPJPY"},
			"AUD": {"cpi": "CPIAUD", "gdp": "GDPAUD", "rate": "IRAUAUD"},
			"NZD": {"cpi": "CPINZD", "gdp": "GDPNZD", "rate": "IRNZNZD"},
			"CAD": {"cpi": "CPICAD", "gdp": "GDPCAD", "rate": "IRCACAD"},
			"CHF": {"cpi": "CPICHF", "gdp": "GDPCHF", "rate": "IRCHCHF"},
		},

		PairLabelThreshold:  7,
		PairConfidenceSpan:  12,
		IndexLabelThreshold: 3,
		IndexConfidenceSpan: 6,
		SummaryMaxRunes:     220,
		PairQuoteNotes:      2,
		PairBaseNotes:       1,
		IndexSummaryNotes:   3,

		Modes: []Mode{
			{Name: "weekly", LookbackDays: 7, CalendarSource: CalendarSourceWindow, Macro: true, Placeholder: "Weekly macro blend"},
			{Name: "hourly", LookbackDays: 7, CalendarSource: CalendarSourceLedger, Macro: false, Placeholder: "Real-time macro blend"},
		},
	}
}
