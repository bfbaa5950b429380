package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guild-settlement-backend/internal/models"
)

type PoolRepository struct {
	db *gorm.DB
}

func NewPoolRepository(db *gorm.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

// Get returns the month's pool, or nil when no contribution has touched it
// yet.
func (r *PoolRepository) Get(ctx context.Context, month string) (*models.MonthlyPool, error) {
	var pool models.MonthlyPool
	err := r.db.WithContext(ctx).First(&pool, "month = ?", month).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func (r *PoolRepository) Contributions(ctx context.Context, month string) ([]models.PoolContribution, error) {
	var contribs []models.PoolContribution
	err := r.db.WithContext(ctx).
		Where("month = ?", month).
		Order("tickets DESC, player_name ASC").
		Find(&contribs).Error
	return contribs, err
}

// SaveDraw upserts the month's draw result; operators may re-draw a month.
func (r *PoolRepository) SaveDraw(ctx context.Context, draw *models.PoolDraw) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month"}},
		UpdateAll: true,
	}).Create(draw).Error
}

func (r *PoolRepository) GetDraw(ctx context.Context, month string) (*models.PoolDraw, error) {
	var draw models.PoolDraw
	err := r.db.WithContext(ctx).First(&draw, "month = ?", month).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

func (r *PoolRepository) ListDraws(ctx context.Context) ([]models.PoolDraw, error) {
	var draws []models.PoolDraw
	err := r.db.WithContext(ctx).Order("drawn_at DESC").Find(&draws).Error
	return draws, err
}
