package repository

import (
	"context"

	"gorm.io/gorm"

	"dispatch-service/internal/model"
)

// ReferenceRepository serves the read-mostly lookup tables behind the
// selection controls.
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) ListDrivers(ctx context.Context, companyID string) ([]model.Driver, error) {
	var drivers []model.Driver
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND active = ?", companyID, true).
		Order("driver_num ASC").
		Find(&drivers).Error
	return drivers, err
}

func (r *ReferenceRepository) ListTrucks(ctx context.Context, companyID string) ([]model.Truck, error) {
	var trucks []model.Truck
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND active = ?", companyID, true).
		Order("truck_num ASC").
		Find(&trucks).Error
	return trucks, err
}

func (r *ReferenceRepository) ListCustomers(ctx context.Context, companyID string) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}

func (r *ReferenceRepository) ListCarMakes(ctx context.Context) ([]model.CarMake, error) {
	var makes []model.CarMake
	err := r.db.WithContext(ctx).Order("make ASC").Find(&makes).Error
	return makes, err
}

func (r *ReferenceRepository) ListCarModels(ctx context.Context, carMake string) ([]model.CarModel, error) {
	var models []model.CarModel
	err := r.db.WithContext(ctx).
		Where("make = ?", carMake).
		Order("model ASC").
		Find(&models).Error
	return models, err
}
