package entity

import "time"

// IndexBias is the latest bias of an equity index.
type IndexBias struct {
	Instrument   string    `gorm:"primaryKey" json:"instrument"`
	Name         string    `json:"name"`
	HomeCurrency string    `json:"home_currency"`
	Score        float64   `json:"score"`
	Label        string    `gorm:"not null" json:"label"`
	Summary      string    `json:"summary"`
	Confidence   int       `json:"confidence"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (IndexBias) TableName() string {
	return "index_bias"
}
