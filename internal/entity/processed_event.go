package entity

import "time"

// Impact levels of a calendar release.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// ProcessedEvent is a calendar release that has already contributed a score.
// Rows are written once and never updated.
type ProcessedEvent struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EventID     string     `gorm:"uniqueIndex;not null" json:"event_id"`
	Country     string     `gorm:"not null" json:"country"`
	Currency    string     `gorm:"not null;index" json:"currency"`
	Title       string     `gorm:"not null" json:"title"`
	Impact      string     `gorm:"not null" json:"impact"`
	Actual      string     `json:"actual"`
	Forecast    string     `json:"forecast"`
	Previous    string     `json:"previous"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Score       float64    `gorm:"not null" json:"score"`
	ProcessedAt time.Time  `gorm:"autoCreateTime" json:"processed_at"`
}

// TableName specifies the table name for the ProcessedEvent model.
func (ProcessedEvent) TableName() string {
	return "forex_events"
}
