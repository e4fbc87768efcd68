package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// CurrencyScore is one scoring pass result for a single currency.
type CurrencyScore struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	RunID          string         `gorm:"index;not null" json:"run_id"`
	Mode           string         `gorm:"not null" json:"mode"`
	Currency       string         `gorm:"index;not null" json:"currency"`
	WindowStart    time.Time      `json:"window_start"`
	WindowEnd      time.Time      `json:"window_end"`
	DataScore      float64        `json:"data_score"`
	CBToneScore    float64        `gorm:"column:cb_tone_score" json:"cb_tone_score"`
	CommodityScore float64        `json:"commodity_score"`
	SentimentScore float64        `json:"sentiment_score"`
	MarketScore    float64        `json:"market_score"`
	MacroScore     float64        `json:"macro_score"`
	TotalScore     float64        `json:"total_score"`
	Notes          pq.StringArray `gorm:"type:text[]" json:"notes"`
	Details        datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (CurrencyScore) TableName() string {
	return "currency_scores"
}

// ComponentSum returns the sum of all score components.
func (c CurrencyScore) ComponentSum() float64 {
	return c.DataScore + c.CBToneScore + c.CommodityScore + c.SentimentScore + c.MarketScore + c.MacroScore
}
