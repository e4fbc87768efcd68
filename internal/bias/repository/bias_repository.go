package repository

import (
	"context"
	"errors"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BiasRepository defines the interface for pair and index bias snapshots.
type BiasRepository interface {
	UpsertPairs(ctx context.Context, pairs []entity.PairBias) error
	FindAllPairs(ctx context.Context) ([]entity.PairBias, error)
	FindPair(ctx context.Context, pair string) (*entity.PairBias, error)
	UpsertIndices(ctx context.Context, indices []entity.IndexBias) error
	FindAllIndices(ctx context.Context) ([]entity.IndexBias, error)
	FindIndices(ctx context.Context, instruments []string) (map[string]entity.IndexBias, error)
}

// NewBiasRepository creates a new GORM-based bias repository.
func NewBiasRepository(db *gorm.DB) BiasRepository {
	return &biasRepository{db: db}
}

type biasRepository struct {
	db *gorm.DB
}

func (r *biasRepository) UpsertPairs(ctx context.Context, pairs []entity.PairBias) error {
	if len(pairs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "pair"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"base", "quote", "base_score", "quote_score", "total_bias",
			"label", "summary", "confidence", "updated_at",
		}),
	}).Create(&pairs).Error
}

func (r *biasRepository) FindAllPairs(ctx context.Context) ([]entity.PairBias, error) {
	var pairs []entity.PairBias
	if err := r.db.WithContext(ctx).Order("pair").Find(&pairs).Error; err != nil {
		return nil, err
	}
	return pairs, nil
}

func (r *biasRepository) FindPair(ctx context.Context, pair string) (*entity.PairBias, error) {
	var bias entity.PairBias
	if err := r.db.WithContext(ctx).Where("pair = ?", pair).First(&bias).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dto.ErrNotFound
		}
		return nil, err
	}
	return &bias, nil
}

func (r *biasRepository) UpsertIndices(ctx context.Context, indices []entity.IndexBias) error {
	if len(indices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "instrument"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "home_currency", "score", "label", "summary", "confidence", "updated_at",
		}),
	}).Create(&indices).Error
}

func (r *biasRepository) FindAllIndices(ctx context.Context) ([]entity.IndexBias, error) {
	var indices []entity.IndexBias
	if err := r.db.WithContext(ctx).Order("instrument").Find(&indices).Error; err != nil {
		return nil, err
	}
	return indices, nil
}

func (r *biasRepository) FindIndices(ctx context.Context, instruments []string) (map[string]entity.IndexBias, error) {
	var indices []entity.IndexBias
	if err := r.db.WithContext(ctx).Where("instrument IN ?", instruments).Find(&indices).Error; err != nil {
		return nil, err
	}

	out := make(map[string]entity.IndexBias, len(indices))
	for _, i := range indices {
		out[i.Instrument] = i
	}
	return out, nil
}
