package scoring

import (
	"fmt"
	"math"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"

	"github.com/shopspring/decimal"
)

// ScoreInput is everything one scoring pass reads.
type ScoreInput struct {
	Mode    config.Mode
	Window  dto.ScoreWindow
	Events  []dto.CalendarEvent
	Ledger  map[string]float64
	Markets dto.MarketSnapshot
	Macro   []dto.MacroReading
}

// CurrencyScorer turns calendar, market and macro inputs into per-currency scores.
type CurrencyScorer struct {
	engine config.Engine
}

// NewCurrencyScorer creates a scorer over an immutable rule set.
func NewCurrencyScorer(engine config.Engine) *CurrencyScorer {
	return &CurrencyScorer{engine: engine}
}

// Engine returns the rule set of the scorer.
func (s *CurrencyScorer) Engine() config.Engine {
	return s.engine
}

// Score computes one CurrencyScore per configured currency, in configuration order.
func (s *CurrencyScorer) Score(in ScoreInput) []entity.CurrencyScore {
	byCurrency := make(map[string][]dto.CalendarEvent)
	for _, ev := range in.Events {
		byCurrency[ev.Currency] = append(byCurrency[ev.Currency], ev)
	}
	macroByCurrency := make(map[string][]dto.MacroReading)
	for _, r := range in.Macro {
		macroByCurrency[r.Currency] = append(macroByCurrency[r.Currency], r)
	}

	scores := make([]entity.CurrencyScore, 0, len(s.engine.Currencies))
	for _, ccy := range s.engine.Currencies {
		score := entity.CurrencyScore{
			Mode:        in.Mode.Name,
			Currency:    ccy,
			WindowStart: in.Window.Start,
			WindowEnd:   in.Window.End,
		}
		var notes []string

		if in.Mode.CalendarSource == config.CalendarSourceLedger {
			if v := in.Ledger[ccy]; v != 0 {
				score.DataScore = v
				notes = append(notes, "Economic data: "+formatSigned(v))
			}
		} else {
			v, n := s.scoreCalendar(byCurrency[ccy])
			score.DataScore = v
			notes = append(notes, n...)
		}

		v, n := s.scoreCBTone(ccy)
		score.CBToneScore = v
		notes = append(notes, n...)

		for _, component := range []string{config.ComponentCommodity, config.ComponentMarket, config.ComponentSentiment} {
			v, n := s.scoreMarketRules(ccy, component, in.Markets)
			switch component {
			case config.ComponentCommodity:
				score.CommodityScore = v
			case config.ComponentMarket:
				score.MarketScore = v
			case config.ComponentSentiment:
				score.SentimentScore = v
			}
			notes = append(notes, n...)
		}

		if in.Mode.Macro {
			if v := s.scoreMacro(macroByCurrency[ccy]); v != 0 {
				score.MacroScore = v
				notes = append(notes, "Macro data: "+formatSigned(v))
			}
		}

		score.TotalScore = score.ComponentSum()
		score.Notes = notes
		scores = append(scores, score)
	}
	return scores
}

// ScoreEvent returns the surprise score of one release. ok is false when
// actual or forecast cannot be parsed.
func (s *CurrencyScorer) ScoreEvent(ev dto.CalendarEvent) (float64, bool) {
	actual, ok := dto.ParseValue(ev.Actual)
	if !ok {
		return 0, false
	}
	forecast, ok := dto.ParseValue(ev.Forecast)
	if !ok {
		return 0, false
	}
	weight := s.engine.ImpactWeight(dto.NormalizeImpact(ev.Impact))

	if s.engine.SurpriseMode == config.SurprisePercent {
		if forecast == 0 {
			return 0, true
		}
		v, _ := decimal.NewFromFloat((actual - forecast) / math.Abs(forecast) * weight * 100).Round(2).Float64()
		return v, true
	}

	switch {
	case actual > forecast:
		return weight, true
	case actual < forecast:
		return -weight, true
	}
	return 0, true
}

func (s *CurrencyScorer) scoreCalendar(events []dto.CalendarEvent) (float64, []string) {
	var (
		total float64
		notes []string
	)
	for _, ev := range events {
		v, ok := s.ScoreEvent(ev)
		if !ok || v == 0 {
			continue
		}
		total += v
		verdict := "miss"
		if v > 0 {
			verdict = "beat"
		}
		notes = append(notes, fmt.Sprintf("%s %s (%s)", ev.Title, verdict, dto.NormalizeImpact(ev.Impact)))
	}
	return total, notes
}

func (s *CurrencyScorer) scoreCBTone(ccy string) (float64, []string) {
	switch s.engine.CBTones[ccy] {
	case "hawkish":
		return s.engine.CBToneWeight, []string{"CB: hawkish"}
	case "dovish":
		return -s.engine.CBToneWeight, []string{"CB: dovish"}
	}
	return 0, nil
}

func (s *CurrencyScorer) scoreMarketRules(ccy, component string, markets dto.MarketSnapshot) (float64, []string) {
	var (
		total float64
		notes []string
	)
	for _, rule := range s.engine.MarketRules {
		if rule.Subject != ccy || rule.Component != component {
			continue
		}
		if v, note, ok := rule.Apply(markets.Change(rule.Market)); ok {
			total += v
			notes = append(notes, note)
		}
	}
	return total, notes
}

func (s *CurrencyScorer) scoreMacro(readings []dto.MacroReading) float64 {
	var total float64
	for _, r := range readings {
		switch {
		case r.Change > s.engine.MacroThreshold:
			total += s.engine.MacroWeight
		case r.Change < -s.engine.MacroThreshold:
			total -= s.engine.MacroWeight
		}
	}
	return total
}

// formatSigned renders whole numbers as "+3" and fractions as "+1.25".
func formatSigned(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%+d", int64(v))
	}
	return fmt.Sprintf("%+.2f", v)
}
