package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dispatch-service/internal/model"
)

type KitRepository struct {
	db *gorm.DB
}

func NewKitRepository(db *gorm.DB) *KitRepository {
	return &KitRepository{db: db}
}

func (r *KitRepository) Create(ctx context.Context, kit *model.Kit) error {
	return r.db.WithContext(ctx).Create(kit).Error
}

func (r *KitRepository) GetByID(ctx context.Context, companyID, id string) (*model.Kit, error) {
	var kit model.Kit
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&kit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &kit, nil
}

func (r *KitRepository) List(ctx context.Context, companyID string) ([]model.Kit, error) {
	var kits []model.Kit
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&kits).Error
	return kits, err
}

func (r *KitRepository) Update(ctx context.Context, kit *model.Kit) error {
	return r.db.WithContext(ctx).Save(kit).Error
}

func (r *KitRepository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&model.Kit{}).Error
}
