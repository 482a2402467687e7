package service

import (
	"context"

	"dispatch-service/internal/model"
	"dispatch-service/internal/repository"
)

// LookupService backs the selection controls: drivers, trucks, billing
// accounts, car makes and models.
type LookupService struct {
	referenceRepo *repository.ReferenceRepository
}

func NewLookupService(referenceRepo *repository.ReferenceRepository) *LookupService {
	return &LookupService{referenceRepo: referenceRepo}
}

func (s *LookupService) Drivers(ctx context.Context, principal model.Principal) ([]model.Driver, error) {
	return s.referenceRepo.ListDrivers(ctx, principal.CompanyID)
}

func (s *LookupService) Trucks(ctx context.Context, principal model.Principal) ([]model.Truck, error) {
	return s.referenceRepo.ListTrucks(ctx, principal.CompanyID)
}

func (s *LookupService) Customers(ctx context.Context, principal model.Principal) ([]model.Customer, error) {
	return s.referenceRepo.ListCustomers(ctx, principal.CompanyID)
}

func (s *LookupService) CarMakes(ctx context.Context) ([]model.CarMake, error) {
	return s.referenceRepo.ListCarMakes(ctx)
}

func (s *LookupService) CarModels(ctx context.Context, carMake string) ([]model.CarModel, error) {
	return s.referenceRepo.ListCarModels(ctx, carMake)
}
