package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guild-settlement-backend/internal/models"
	"guild-settlement-backend/internal/services/settlement"
)

type SettlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// SaveSettlement writes the outcome record and applies the pool accrual in
// one transaction. The pool rows are updated with in-database arithmetic,
// so concurrent settlements for the same month add up instead of racing.
func (r *SettlementRepository) SaveSettlement(ctx context.Context, rec *models.SettlementRecord, acc settlement.Accrual) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		if acc.Tickets <= 0 {
			return nil
		}

		now := time.Now()
		pool := models.MonthlyPool{Month: acc.Month, TotalAmount: acc.Amount, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "month"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_amount": gorm.Expr("monthly_pools.total_amount + ?", acc.Amount),
				"updated_at":   now,
			}),
		}).Create(&pool).Error; err != nil {
			return err
		}

		contrib := models.PoolContribution{
			Month:      acc.Month,
			PlayerName: acc.PlayerName,
			Tickets:    acc.Tickets,
			UpdatedAt:  now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "month"}, {Name: "player_name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"tickets":    gorm.Expr("pool_contributions.tickets + ?", acc.Tickets),
				"updated_at": now,
			}),
		}).Create(&contrib).Error
	})
}

// List pages through settlement records, optionally filtered by uploader.
// Rows are ordered and cursored on the same column, so a page can neither
// skip nor repeat records.
func (r *SettlementRepository) List(ctx context.Context, uploader, cursor string, limit int) ([]models.SettlementRecord, string, bool, error) {
	var recs []models.SettlementRecord

	query := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit + 1)

	if uploader != "" {
		query = query.Where("uploader = ?", uploader)
	}
	if cursor != "" {
		query = query.Where("id > ?", cursor)
	}

	if err := query.Find(&recs).Error; err != nil {
		return nil, "", false, err
	}

	hasMore := false
	var nextCursor string
	if len(recs) > limit {
		hasMore = true
		nextCursor = recs[limit-1].ID.String()
		recs = recs[:limit]
	}
	return recs, nextCursor, hasMore, nil
}
