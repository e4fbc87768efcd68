package config

import (
	"fmt"
	"strings"
	"time"

	"golang-fundamental-bias/pkg/config"

	"github.com/go-playground/validator/v10"
)

// Scheduler holds cron specs for every pipeline run by the serve command.
type Scheduler struct {
	WeeklyCron        string        `mapstructure:"weekly_cron"`
	HourlyCron        string        `mapstructure:"hourly_cron"`
	EventsCron        string        `mapstructure:"events_cron"`
	HighImpactCron    string        `mapstructure:"high_impact_cron"`
	DriversCron       string        `mapstructure:"drivers_cron"`
	PollingInterval   time.Duration `mapstructure:"polling_interval"`
	RunTimeout        time.Duration `mapstructure:"run_timeout"`
	StreamReadTimeout time.Duration `mapstructure:"stream_read_timeout"`
}

// Provider holds the settings of one external data source.
type Provider struct {
	BaseURL             string            `mapstructure:"base_url"`
	APIKey              string            `mapstructure:"api_key"`
	Timeout             time.Duration     `mapstructure:"timeout"`
	MaxRequestPerMinute int               `mapstructure:"max_request_per_minute"`
	Symbols             map[string]string `mapstructure:"symbols"`
}

// Providers groups every external data source.
type Providers struct {
	Polygon          Provider      `mapstructure:"polygon"`
	Yahoo            Provider      `mapstructure:"yahoo"`
	EconDB           Provider      `mapstructure:"econdb"`
	TradingEconomics Provider      `mapstructure:"trading_economics"`
	ForexFactoryXML  Provider      `mapstructure:"forex_factory_xml"`
	ForexFactoryRSS  Provider      `mapstructure:"forex_factory_rss"`
	MarketCacheTTL   time.Duration `mapstructure:"market_cache_ttl"`
	MaxConcurrency   int           `mapstructure:"max_concurrency"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Metrics holds prometheus settings.
type Metrics struct {
	Enabled        bool   `mapstructure:"enabled"`
	PushGatewayURL string `mapstructure:"push_gateway_url"`
	JobName        string `mapstructure:"job_name"`
}

// Config holds the full configuration for the bias engine.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
	Providers Providers       `mapstructure:"providers"`
	Engine    Engine          `mapstructure:"engine"`
	Drivers   Drivers         `mapstructure:"drivers"`
	Telegram  Telegram        `mapstructure:"telegram"`
	Metrics   Metrics         `mapstructure:"metrics"`
}

// Load loads the bias engine configuration from the given path. Engine and
// driver tables start from their code defaults and may be overridden by YAML.
func Load(path string) (*Config, error) {
	cfg := Config{
		Engine:  DefaultEngine(),
		Drivers: DefaultDrivers(),
	}
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the mandatory settings.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, mode := range cfg.Engine.Modes {
		if mode.CalendarSource != CalendarSourceWindow && mode.CalendarSource != CalendarSourceLedger {
			return fmt.Errorf("invalid configuration: mode %s has unknown calendar source %q", mode.Name, mode.CalendarSource)
		}
	}
	switch cfg.Engine.SurpriseMode {
	case SurpriseSign, SurprisePercent:
	default:
		return fmt.Errorf("invalid configuration: unknown surprise mode %q", cfg.Engine.SurpriseMode)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "fundamental-bias-engine"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Redis.StreamMaxLen == 0 {
		c.Redis.StreamMaxLen = 1000
	}

	s := &c.Scheduler
	setString(&s.WeeklyCron, "0 6 * * 1")
	setString(&s.HourlyCron, "5 * * * *")
	setString(&s.EventsCron, "*/30 * * * *")
	setString(&s.HighImpactCron, "*/15 * * * *")
	setString(&s.DriversCron, "10 * * * *")
	setDuration(&s.PollingInterval, 30*time.Second)
	setDuration(&s.RunTimeout, 5*time.Minute)
	setDuration(&s.StreamReadTimeout, 5*time.Second)

	p := &c.Providers
	setProvider(&p.Polygon, "https://api.polygon.io", 10*time.Second, 5)
	setSymbols(&p.Polygon, map[string]string{
		MarketDXY:    "I:DXY",
		MarketWTI:    "C:CLUSD",
		MarketGold:   "C:XAUUSD",
		MarketCopper: "C:XCUUSD",
		MarketSPX:    "I:SPX",
		MarketUST10Y: "I:US10Y",
		MarketVIX:    "I:VIX",
	})
	setProvider(&p.Yahoo, "https://query1.finance.yahoo.com", 10*time.Second, 60)
	setSymbols(&p.Yahoo, map[string]string{
		MarketDXY:    "DX-Y.NYB",
		MarketWTI:    "CL=F",
		MarketGold:   "GC=F",
		MarketCopper: "HG=F",
		MarketSPX:    "^GSPC",
		MarketUST10Y: "^TNX",
		MarketVIX:    "^VIX",
	})
	setProvider(&p.EconDB, "https://www.econdb.com", 10*time.Second, 30)
	setProvider(&p.TradingEconomics, "https://api.tradingeconomics.com", 20*time.Second, 30)
	setProvider(&p.ForexFactoryXML, "https://nfs.faireconomy.media/ff_calendar_thisweek.xml", 15*time.Second, 10)
	setProvider(&p.ForexFactoryRSS, "https://cdn-nfs.faireconomy.media/ff_calendar_thisweek.xml", 15*time.Second, 10)
	setDuration(&p.MarketCacheTTL, 10*time.Minute)
	if p.MaxConcurrency <= 0 {
		p.MaxConcurrency = 4
	}

	// viper lowercases map keys read from YAML.
	c.Engine.CBTones = upperKeys(c.Engine.CBTones)
	tickers := make(map[string]map[string]string, len(c.Engine.MacroTickers))
	for currency, series := range c.Engine.MacroTickers {
		tickers[strings.ToUpper(currency)] = series
	}
	c.Engine.MacroTickers = tickers

	if c.Engine.SurpriseMode == "" {
		c.Engine.SurpriseMode = SurpriseSign
	}
	if c.Metrics.JobName == "" {
		c.Metrics.JobName = "bias-engine"
	}
}

// upperKeys uppercases map keys. Keys read from YAML arrive lowercased and
// win over the uppercase code defaults they shadow.
func upperKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if k == strings.ToUpper(k) {
			out[k] = v
		}
	}
	for k, v := range m {
		if k != strings.ToUpper(k) {
			out[strings.ToUpper(k)] = v
		}
	}
	return out
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setDuration(v *time.Duration, def time.Duration) {
	if *v <= 0 {
		*v = def
	}
}

// setSymbols fills in the symbols the YAML did not override.
func setSymbols(p *Provider, defaults map[string]string) {
	p.Symbols = upperKeys(p.Symbols)
	for market, symbol := range defaults {
		if _, ok := p.Symbols[market]; !ok {
			p.Symbols[market] = symbol
		}
	}
}

func setProvider(p *Provider, baseURL string, timeout time.Duration, rpm int) {
	setString(&p.BaseURL, baseURL)
	setDuration(&p.Timeout, timeout)
	if p.MaxRequestPerMinute <= 0 {
		p.MaxRequestPerMinute = rpm
	}
}
