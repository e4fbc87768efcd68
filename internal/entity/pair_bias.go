package entity

import "time"

// Bias labels shared by pairs and indices.
const (
	LabelStrong  = "Strong"
	LabelWeak    = "Weak"
	LabelNeutral = "Neutral"
)

// PairBias is the latest relative bias of a currency pair.
type PairBias struct {
	Pair       string    `gorm:"primaryKey" json:"pair"`
	Base       string    `gorm:"not null" json:"base"`
	Quote      string    `gorm:"not null" json:"quote"`
	BaseScore  float64   `json:"base_score"`
	QuoteScore float64   `json:"quote_score"`
	TotalBias  float64   `json:"total_bias"`
	Label      string    `gorm:"not null" json:"label"`
	Summary    string    `json:"summary"`
	Confidence int       `json:"confidence"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PairBias) TableName() string {
	return "fundamental_bias"
}
