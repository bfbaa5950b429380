package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"guild-settlement-backend/internal/models"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// FindByName returns the member with the exact display name, or nil when
// none exists.
func (r *MemberRepository) FindByName(ctx context.Context, name string) (*models.Member, error) {
	var m models.Member
	err := r.db.WithContext(ctx).First(&m, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Names returns the roster snapshot: every known member display name.
func (r *MemberRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Member{}).Pluck("name", &names).Error
	return names, err
}

func (r *MemberRepository) List(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	err := r.db.WithContext(ctx).Order("name ASC").Find(&members).Error
	return members, err
}

func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}
