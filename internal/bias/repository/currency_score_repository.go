package repository

import (
	"context"

	"golang-fundamental-bias/internal/entity"

	"gorm.io/gorm"
)

// CurrencyScoreRepository defines the interface for currency score history.
type CurrencyScoreRepository interface {
	CreateBatch(ctx context.Context, scores []entity.CurrencyScore) error
	FindLatestByCurrencies(ctx context.Context, currencies []string) (map[string]entity.CurrencyScore, error)
	FindHistory(ctx context.Context, currency string, limit int) ([]entity.CurrencyScore, error)
}

// NewCurrencyScoreRepository creates a new GORM-based currency score repository.
func NewCurrencyScoreRepository(db *gorm.DB) CurrencyScoreRepository {
	return &currencyScoreRepository{db: db}
}

type currencyScoreRepository struct {
	db *gorm.DB
}

// CreateBatch appends one row per currency of a run.
func (r *currencyScoreRepository) CreateBatch(ctx context.Context, scores []entity.CurrencyScore) error {
	if len(scores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&scores).Error
}

// FindLatestByCurrencies returns the newest row of each requested currency.
func (r *currencyScoreRepository) FindLatestByCurrencies(ctx context.Context, currencies []string) (map[string]entity.CurrencyScore, error) {
	var scores []entity.CurrencyScore
	err := r.db.WithContext(ctx).Raw(`
	SELECT DISTINCT ON (currency) *
	FROM currency_scores
	WHERE currency IN ?
	ORDER BY currency, created_at DESC, id DESC
`, currencies).Scan(&scores).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]entity.CurrencyScore, len(scores))
	for _, s := range scores {
		out[s.Currency] = s
	}
	return out, nil
}

// FindHistory returns the newest rows of a currency, newest first.
func (r *currencyScoreRepository) FindHistory(ctx context.Context, currency string, limit int) ([]entity.CurrencyScore, error) {
	var scores []entity.CurrencyScore
	err := r.db.WithContext(ctx).
		Where("currency = ?", currency).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}
