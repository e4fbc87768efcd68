package entity

import "time"

// EconomicScore is the running sum of processed event scores for a currency.
type EconomicScore struct {
	Currency   string    `gorm:"primaryKey" json:"currency"`
	TotalScore float64   `gorm:"not null" json:"total_score"`
	EventCount int       `gorm:"not null" json:"event_count"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EconomicScore) TableName() string {
	return "economic_scores"
}
