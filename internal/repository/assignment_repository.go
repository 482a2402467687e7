package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch-service/internal/model"
)

// Secondary-lookup bounds for the indirect search filters.
const (
	TowTagLookupLimit = 500
	DriverLookupLimit = 1000
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *model.DriverAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*model.DriverAssignment, error) {
	var assignment model.DriverAssignment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, assignment *model.DriverAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// FindActiveByDispatch returns the one uncleared assignment for a
// dispatch, or nil when there is none.
func (r *AssignmentRepository) FindActiveByDispatch(ctx context.Context, companyID string, dispatchNum int64) (*model.DriverAssignment, error) {
	var assignment model.DriverAssignment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND dispnumdrv = ? AND dispcleared = ?", companyID, dispatchNum, false).
		Order("created_at DESC").
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) ListByDispatch(ctx context.Context, companyID string, dispatchNum int64) ([]model.DriverAssignment, error) {
	var assignments []model.DriverAssignment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND dispnumdrv = ?", companyID, dispatchNum).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

// ListUncleared feeds the auto-clear poller: uncleared assignments whose
// parent dispatch has already been dispatched, across all companies.
// Cleared rows drop out of this filter, which is what makes the poller
// idempotent.
func (r *AssignmentRepository) ListUncleared(ctx context.Context) ([]model.DriverAssignment, error) {
	var assignments []model.DriverAssignment
	err := r.db.WithContext(ctx).Model(&model.DriverAssignment{}).
		Joins("JOIN towmast ON towmast.dispnum = towdrive.dispnumdrv AND towmast.company_id = towdrive.company_id").
		Where("towdrive.dispcleared = ? AND towmast.dispatched = ?", false, true).
		Find(&assignments).Error
	return assignments, err
}

// MarkCleared flips the assignment's terminal cleared flag.
func (r *AssignmentRepository) MarkCleared(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.DriverAssignment{}).
		Where("id = ?", id).
		Update("dispcleared", true).Error
}

func (r *AssignmentRepository) DispatchNumsByTowTag(ctx context.Context, companyID, towTagNum string) ([]int64, error) {
	var nums []int64
	err := r.db.WithContext(ctx).Model(&model.DriverAssignment{}).
		Where("company_id = ? AND tow_tag_num = ?", companyID, towTagNum).
		Limit(TowTagLookupLimit).
		Pluck("dispnumdrv", &nums).Error
	return nums, err
}

func (r *AssignmentRepository) DispatchNumsByDriver(ctx context.Context, companyID, driverNum string) ([]int64, error) {
	var nums []int64
	err := r.db.WithContext(ctx).Model(&model.DriverAssignment{}).
		Where("company_id = ? AND driver_num = ?", companyID, driverNum).
		Limit(DriverLookupLimit).
		Pluck("dispnumdrv", &nums).Error
	return nums, err
}
