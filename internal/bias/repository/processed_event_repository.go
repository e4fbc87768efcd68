package repository

import (
	"context"
	"time"

	"golang-fundamental-bias/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProcessedEventRepository defines the interface for the processed event ledger.
type ProcessedEventRepository interface {
	ListEventIDs(ctx context.Context) (map[string]struct{}, error)
	CreateIgnoreConflict(ctx context.Context, event *entity.ProcessedEvent) (bool, error)
	SumScoreByCurrency(ctx context.Context, currency string, since time.Time) (float64, int, error)
	FindRecent(ctx context.Context, limit int) ([]entity.ProcessedEvent, error)
}

// NewProcessedEventRepository creates a new GORM-based processed event repository.
func NewProcessedEventRepository(db *gorm.DB) ProcessedEventRepository {
	return &processedEventRepository{db: db}
}

type processedEventRepository struct {
	db *gorm.DB
}

// ListEventIDs returns the id of every event already processed.
func (r *processedEventRepository) ListEventIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&entity.ProcessedEvent{}).Pluck("event_id", &ids).Error; err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// CreateIgnoreConflict inserts the event unless its id already exists. It
// reports false when another run already owns the id.
func (r *processedEventRepository) CreateIgnoreConflict(ctx context.Context, event *entity.ProcessedEvent) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// SumScoreByCurrency returns the total score and count of the currency's events
// released at or after since. Rows without a release date count by processed_at.
func (r *processedEventRepository) SumScoreByCurrency(ctx context.Context, currency string, since time.Time) (float64, int, error) {
	var result struct {
		Total float64
		Count int
	}
	err := r.db.WithContext(ctx).
		Model(&entity.ProcessedEvent{}).
		Select("COALESCE(SUM(score), 0) AS total, COUNT(*) AS count").
		Where("currency = ?", currency).
		Where("release_date >= ? OR (release_date IS NULL AND processed_at >= ?)", since, since).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Total, result.Count, nil
}

// FindRecent returns the most recently processed events.
func (r *processedEventRepository) FindRecent(ctx context.Context, limit int) ([]entity.ProcessedEvent, error) {
	var events []entity.ProcessedEvent
	if err := r.db.WithContext(ctx).Order("processed_at desc").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
