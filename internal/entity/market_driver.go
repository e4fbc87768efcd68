package entity

import "time"

// MarketDriverState is the qualitative status of one macro theme.
type MarketDriverState struct {
	Driver      string    `gorm:"primaryKey" json:"driver"`
	Status      string    `gorm:"not null" json:"status"`
	Description string    `json:"description"`
	LastUpdated time.Time `json:"last_updated"`
}

func (MarketDriverState) TableName() string {
	return "market_drivers"
}
