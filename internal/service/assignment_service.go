package service

import (
	"context"
	"time"

	"dispatch-service/internal/model"
	"dispatch-service/internal/repository"
	"dispatch-service/internal/utils"
)

type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	dispatchRepo   *repository.DispatchRepository
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	dispatchRepo *repository.DispatchRepository,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		dispatchRepo:   dispatchRepo,
	}
}

func (s *AssignmentService) ListByDispatch(ctx context.Context, principal model.Principal, dispatchNum int64) ([]model.DriverAssignment, error) {
	return s.assignmentRepo.ListByDispatch(ctx, principal.CompanyID, dispatchNum)
}

// MilestoneInput carries the board's time-cell edits. Empty strings leave
// the stored value alone; times are wall-clock HHMM.
type MilestoneInput struct {
	TimeReceived string
	TimeEnroute  string
	TimeArrived  string
	TimeInTow    string
	TimeCleared  string
	DriverNum    string
	TruckNum     string
}

// UpdateMilestones applies direct cell edits to the dispatch's active
// assignment.
func (s *AssignmentService) UpdateMilestones(ctx context.Context, principal model.Principal, dispatchNum int64, input MilestoneInput) (*model.DriverAssignment, error) {
	assignment, err := s.assignmentRepo.FindActiveByDispatch(ctx, principal.CompanyID, dispatchNum)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrNotFound
	}

	fields := []struct {
		raw  string
		dest *string
	}{
		{input.TimeReceived, &assignment.TimeReceived},
		{input.TimeEnroute, &assignment.TimeEnroute},
		{input.TimeArrived, &assignment.TimeArrived},
		{input.TimeInTow, &assignment.TimeInTow},
		{input.TimeCleared, &assignment.TimeCleared},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		normalized, err := utils.NormalizeMilitaryTime(f.raw)
		if err != nil {
			return nil, ErrInvalidInput
		}
		*f.dest = normalized
	}

	if input.DriverNum != "" {
		assignment.DriverNum = input.DriverNum
	}
	if input.TruckNum != "" {
		assignment.TruckNum = input.TruckNum
	}

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, err
	}

	// A driver on the call means the dispatch went out.
	if assignment.DriverNum != "" {
		if err := s.dispatchRepo.Patch(ctx, principal.CompanyID, dispatchNum, map[string]interface{}{"dispatched": true}); err != nil {
			return nil, err
		}
	}

	return assignment, nil
}

// Clear is the explicit driver clear: stamps the clear time if the cell
// is still blank, then flags the assignment and its dispatch. The two
// updates are independent writes, same as the auto-clear path.
func (s *AssignmentService) Clear(ctx context.Context, principal model.Principal, dispatchNum int64) (*model.DriverAssignment, error) {
	assignment, err := s.assignmentRepo.FindActiveByDispatch(ctx, principal.CompanyID, dispatchNum)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrNotFound
	}

	if assignment.TimeCleared == "" {
		assignment.TimeCleared = time.Now().Format("1504")
		if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
			return nil, err
		}
	}

	if err := s.assignmentRepo.MarkCleared(ctx, assignment.ID); err != nil {
		return nil, err
	}
	if err := s.dispatchRepo.MarkCleared(ctx, principal.CompanyID, dispatchNum); err != nil {
		return nil, err
	}

	assignment.DispCleared = true
	return assignment, nil
}
