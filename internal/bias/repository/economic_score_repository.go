package repository

import (
	"context"

	"golang-fundamental-bias/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EconomicScoreRepository stores the per-currency event ledger totals.
type EconomicScoreRepository interface {
	Upsert(ctx context.Context, score *entity.EconomicScore) error
	FindAll(ctx context.Context) (map[string]entity.EconomicScore, error)
}

// NewEconomicScoreRepository creates a new GORM-based economic score repository.
func NewEconomicScoreRepository(db *gorm.DB) EconomicScoreRepository {
	return &economicScoreRepository{db: db}
}

type economicScoreRepository struct {
	db *gorm.DB
}

func (r *economicScoreRepository) Upsert(ctx context.Context, score *entity.EconomicScore) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_score", "event_count", "updated_at"}),
	}).Create(score).Error
}

func (r *economicScoreRepository) FindAll(ctx context.Context) (map[string]entity.EconomicScore, error) {
	var scores []entity.EconomicScore
	if err := r.db.WithContext(ctx).Find(&scores).Error; err != nil {
		return nil, err
	}

	out := make(map[string]entity.EconomicScore, len(scores))
	for _, s := range scores {
		out[s.Currency] = s
	}
	return out, nil
}
