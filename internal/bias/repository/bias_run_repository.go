package repository

import (
	"context"
	"errors"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"

	"gorm.io/gorm"
)

// BiasRunRepository defines the interface for run history data operations.
type BiasRunRepository interface {
	Create(ctx context.Context, run *entity.BiasRun) error
	Update(ctx context.Context, run *entity.BiasRun) error
	FindByRunID(ctx context.Context, runID string) (*entity.BiasRun, error)
	FindRecent(ctx context.Context, limit int) ([]entity.BiasRun, error)
}

// NewBiasRunRepository creates a new GORM-based run history repository.
func NewBiasRunRepository(db *gorm.DB) BiasRunRepository {
	return &biasRunRepository{db: db}
}

type biasRunRepository struct {
	db *gorm.DB
}

// Create creates a new run history record.
func (r *biasRunRepository) Create(ctx context.Context, run *entity.BiasRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update updates an existing run history record.
func (r *biasRunRepository) Update(ctx context.Context, run *entity.BiasRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindByRunID retrieves a run by its uuid.
func (r *biasRunRepository) FindByRunID(ctx context.Context, runID string) (*entity.BiasRun, error) {
	var run entity.BiasRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dto.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindRecent retrieves the newest runs.
func (r *biasRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.BiasRun, error) {
	var runs []entity.BiasRun
	if err := r.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
