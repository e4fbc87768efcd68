package repository

import (
	"context"

	"golang-fundamental-bias/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MarketDriverRepository stores the market driver states.
type MarketDriverRepository interface {
	Upsert(ctx context.Context, state *entity.MarketDriverState) error
	FindAll(ctx context.Context) ([]entity.MarketDriverState, error)
}

// NewMarketDriverRepository creates a new GORM-based market driver repository.
func NewMarketDriverRepository(db *gorm.DB) MarketDriverRepository {
	return &marketDriverRepository{db: db}
}

type marketDriverRepository struct {
	db *gorm.DB
}

func (r *marketDriverRepository) Upsert(ctx context.Context, state *entity.MarketDriverState) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "driver"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "description", "last_updated"}),
	}).Create(state).Error
}

func (r *marketDriverRepository) FindAll(ctx context.Context) ([]entity.MarketDriverState, error) {
	var states []entity.MarketDriverState
	if err := r.db.WithContext(ctx).Order("driver").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}
