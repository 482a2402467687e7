package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"dispatch-service/internal/model"
	"dispatch-service/internal/repository"
	"dispatch-service/internal/utils"
)

type KitService struct {
	kitRepo *repository.KitRepository
}

func NewKitService(kitRepo *repository.KitRepository) *KitService {
	return &KitService{kitRepo: kitRepo}
}

type KitInput struct {
	Name        string
	Description string
	Quantity    float64
	Price       float64
}

func (s *KitService) Create(ctx context.Context, principal model.Principal, input KitInput) (*model.Kit, error) {
	if principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}

	kit := &model.Kit{CompanyID: principal.CompanyID}
	applyKitInput(kit, input)

	if err := s.kitRepo.Create(ctx, kit); err != nil {
		return nil, err
	}
	return kit, nil
}

func (s *KitService) Get(ctx context.Context, principal model.Principal, id string) (*model.Kit, error) {
	kit, err := s.kitRepo.GetByID(ctx, principal.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return kit, nil
}

func (s *KitService) List(ctx context.Context, principal model.Principal) ([]model.Kit, error) {
	return s.kitRepo.List(ctx, principal.CompanyID)
}

func (s *KitService) Update(ctx context.Context, principal model.Principal, id string, input KitInput) (*model.Kit, error) {
	if principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}

	kit, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	applyKitInput(kit, input)

	if err := s.kitRepo.Update(ctx, kit); err != nil {
		return nil, err
	}
	return kit, nil
}

func (s *KitService) Delete(ctx context.Context, principal model.Principal, id string) error {
	if principal.IsDriver() {
		return ErrPermissionDenied
	}
	if _, err := s.Get(ctx, principal, id); err != nil {
		return err
	}
	return s.kitRepo.Delete(ctx, principal.CompanyID, id)
}

// applyKitInput trims inputs to the kit column widths before they reach
// the store.
func applyKitInput(kit *model.Kit, input KitInput) {
	kit.Name = utils.Truncate(strings.TrimSpace(input.Name), model.KitNameMaxLen)
	kit.Description = utils.Truncate(strings.TrimSpace(input.Description), model.KitDescriptionMaxLen)
	kit.Quantity = input.Quantity
	kit.Price = input.Price
}
