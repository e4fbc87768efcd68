package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/utils"
)

// PairBiasDeriver derives the relative bias of every configured pair.
type PairBiasDeriver struct {
	engine config.Engine
	now    func() time.Time
}

// NewPairBiasDeriver creates a pair deriver.
func NewPairBiasDeriver(engine config.Engine) *PairBiasDeriver {
	return &PairBiasDeriver{engine: engine, now: utils.TimeNowUTC}
}

// Derive returns one PairBias per configured pair. A currency without a
// score counts as 0.
func (d *PairBiasDeriver) Derive(mode config.Mode, scores []entity.CurrencyScore) []entity.PairBias {
	byCurrency := make(map[string]entity.CurrencyScore, len(scores))
	for _, s := range scores {
		byCurrency[s.Currency] = s
	}

	now := d.now()
	pairs := make([]entity.PairBias, 0, len(d.engine.Pairs))
	for _, p := range d.engine.Pairs {
		base := byCurrency[p.Base]
		quote := byCurrency[p.Quote]
		bias := quote.TotalScore - base.TotalScore

		notes := firstN(quote.Notes, d.engine.PairQuoteNotes)
		notes = append(notes, firstN(base.Notes, d.engine.PairBaseNotes)...)

		pairs = append(pairs, entity.PairBias{
			Pair:       p.Symbol(),
			Base:       p.Base,
			Quote:      p.Quote,
			BaseScore:  base.TotalScore,
			QuoteScore: quote.TotalScore,
			TotalBias:  bias,
			Label:      Label(bias, d.engine.PairLabelThreshold),
			Summary:    summarize(notes, mode.Placeholder, d.engine.SummaryMaxRunes),
			Confidence: Confidence(bias, d.engine.PairConfidenceSpan),
			UpdatedAt:  now,
		})
	}
	return pairs
}

// IndexBiasDeriver scores every configured equity index from risk sentiment,
// yields, the home currency and commodity tilts.
type IndexBiasDeriver struct {
	engine config.Engine
	now    func() time.Time
}

// NewIndexBiasDeriver creates an index deriver.
func NewIndexBiasDeriver(engine config.Engine) *IndexBiasDeriver {
	return &IndexBiasDeriver{engine: engine, now: utils.TimeNowUTC}
}

// Derive returns one IndexBias per configured index.
func (d *IndexBiasDeriver) Derive(mode config.Mode, scores []entity.CurrencyScore, markets dto.MarketSnapshot) []entity.IndexBias {
	totals := make(map[string]float64, len(scores))
	for _, s := range scores {
		totals[s.Currency] = s.TotalScore
	}

	now := d.now()
	indices := make([]entity.IndexBias, 0, len(d.engine.Indices))
	for _, idx := range d.engine.Indices {
		var (
			score float64
			notes []string
		)
		for _, rule := range d.engine.IndexRules {
			if v, note, ok := rule.Apply(markets.Change(rule.Market)); ok {
				score += v
				notes = append(notes, note)
			}
		}

		home := d.engine.HomeCurrency
		switch ccyTotal := totals[idx.HomeCurrency]; {
		case ccyTotal >= home.Threshold:
			score += home.StrongWeight
			notes = append(notes, fmt.Sprintf(home.StrongNote, idx.HomeCurrency))
		case ccyTotal <= -home.Threshold:
			score += home.WeakWeight
			notes = append(notes, fmt.Sprintf(home.WeakNote, idx.HomeCurrency))
		}

		for _, tilt := range d.engine.IndexTilts {
			if tilt.Subject != idx.Instrument {
				continue
			}
			if v, note, ok := tilt.Apply(markets.Change(tilt.Market)); ok {
				score += v
				notes = append(notes, note)
			}
		}

		indices = append(indices, entity.IndexBias{
			Instrument:   idx.Instrument,
			Name:         idx.Name,
			HomeCurrency: idx.HomeCurrency,
			Score:        score,
			Label:        Label(score, d.engine.IndexLabelThreshold),
			Summary:      summarize(firstN(notes, d.engine.IndexSummaryNotes), mode.Placeholder, d.engine.SummaryMaxRunes),
			Confidence:   Confidence(score, d.engine.IndexConfidenceSpan),
			UpdatedAt:    now,
		})
	}
	return indices
}

// Label maps a score onto Strong, Weak or Neutral using a symmetric threshold.
func Label(score, threshold float64) string {
	switch {
	case score >= threshold:
		return entity.LabelStrong
	case score <= -threshold:
		return entity.LabelWeak
	}
	return entity.LabelNeutral
}

// Confidence is 50 at a zero score and grows linearly to 100 at span.
func Confidence(score, span float64) int {
	if score == 0 || span <= 0 {
		return 50
	}
	mag := math.Min(math.Abs(score), span)
	return int(50 + mag/span*50)
}

func summarize(notes []string, placeholder string, maxRunes int) string {
	summary := strings.Join(notes, "; ")
	if summary == "" {
		summary = placeholder
	}
	return utils.TruncateRunes(summary, maxRunes)
}

func firstN(notes []string, n int) []string {
	switch {
	case n < 0:
		n = 0
	case n > len(notes):
		n = len(notes)
	}
	out := make([]string, n)
	copy(out, notes[:n])
	return out
}
