package config

// Market driver names.
const (
	DriverFedRatePolicy    = "Fed Rate Policy"
	DriverGlobalGrowth     = "Global Growth"
	DriverInflationTrends  = "Inflation Trends"
	DriverGeopoliticalRisk = "Geopolitical Risk"
	DriverOilPrices        = "Oil Prices"
)

// Drivers holds the thresholds of the market driver classifier.
type Drivers struct {
	FedCurrency    string  `mapstructure:"fed_currency"`
	FedStrongTotal float64 `mapstructure:"fed_strong_total"`
	FedPauseTotal  float64 `mapstructure:"fed_pause_total"`
	FedDefault     string  `mapstructure:"fed_default"`

	GrowthIndices []string `mapstructure:"growth_indices"`
	GrowthStrong  float64  `mapstructure:"growth_strong"`
	GrowthMild    float64  `mapstructure:"growth_mild"`
	GrowthDefault string   `mapstructure:"growth_default"`

	InflationCurrencies []string `mapstructure:"inflation_currencies"`
	InflationGold       string   `mapstructure:"inflation_gold"`
	InflationGoldStrong float64  `mapstructure:"inflation_gold_strong"`
	InflationGoldMild   float64  `mapstructure:"inflation_gold_mild"`
	InflationEconStrong float64  `mapstructure:"inflation_econ_strong"`
	InflationDefault    string   `mapstructure:"inflation_default"`

	GeopoliticalCurrencies []string `mapstructure:"geopolitical_currencies"`
	GeopoliticalCritical   float64  `mapstructure:"geopolitical_critical"`
	GeopoliticalElevated   float64  `mapstructure:"geopolitical_elevated"`
	GeopoliticalDefault    string   `mapstructure:"geopolitical_default"`

	OilCurrency string  `mapstructure:"oil_currency"`
	OilStrong   float64 `mapstructure:"oil_strong"`
	OilMild     float64 `mapstructure:"oil_mild"`
	OilDefault  string  `mapstructure:"oil_default"`

	UnavailableDescription string `mapstructure:"unavailable_description"`
}

// DefaultDrivers returns the production driver thresholds.
func DefaultDrivers() Drivers {
	return Drivers{
		FedCurrency:    "USD",
		FedStrongTotal: 7,
		FedPauseTotal:  3,
		FedDefault:     "Neutral",

		GrowthIndices: []string{"US500", "EU50", "UK100", "JP225"},
		GrowthStrong:  3,
		GrowthMild:    1,
		GrowthDefault: "Neutral",

		InflationCurrencies: []string{"USD", "EUR", "GBP"},
		InflationGold:       "XAU",
		InflationGoldStrong: 4,
		InflationGoldMild:   2,
		InflationEconStrong: 3,
		InflationDefault:    "Stable",

		GeopoliticalCurrencies: []string{"JPY", "CHF", "XAU"},
		GeopoliticalCritical:   6,
		GeopoliticalElevated:   3,
		GeopoliticalDefault:    "Moderate",

		OilCurrency: "CAD",
		OilStrong:   2,
		OilMild:     1,
		OilDefault:  "Stable",

		UnavailableDescription: "Analysis unavailable",
	}
}
