package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"dispatch-service/internal/model"
	"dispatch-service/internal/repository"
	"dispatch-service/internal/utils"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
)

type DispatchService struct {
	dispatchRepo   *repository.DispatchRepository
	assignmentRepo *repository.AssignmentRepository
}

func NewDispatchService(
	dispatchRepo *repository.DispatchRepository,
	assignmentRepo *repository.AssignmentRepository,
) *DispatchService {
	return &DispatchService{
		dispatchRepo:   dispatchRepo,
		assignmentRepo: assignmentRepo,
	}
}

type QuickCallInput struct {
	DispatchNum  int64
	VehicleYear  string
	Make         string
	Model        string
	Color        string
	VIN          string
	LicenseNum   string
	LicenseState string
	TowedFrom    string
	TowedTo      string
	WhoCalled    string
	Phone        string
	Reason       string
	Priority     string
	BillingName  string
	MemberNum    string
	Notes        string
	ReferenceNum string
	TowDate      string
	Transport    bool

	DriverNum string
	TruckNum  string
	TowTagNum string
}

// CreateQuickCall is the quick-call form submit: insert with the next
// ticket number, or update when a dispatch number was carried in from the
// board. The driver assignment is written in the same request.
func (s *DispatchService) CreateQuickCall(ctx context.Context, principal model.Principal, input QuickCallInput) (*model.Dispatch, error) {
	if principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.TowedFrom) == "" {
		return nil, ErrInvalidInput
	}

	towDate, err := parseTowDateInput(input.TowDate)
	if err != nil {
		return nil, ErrInvalidInput
	}

	dispatch := &model.Dispatch{
		CompanyID:    principal.CompanyID,
		VehicleYear:  strings.TrimSpace(input.VehicleYear),
		Make:         strings.TrimSpace(input.Make),
		Model:        strings.TrimSpace(input.Model),
		Color:        strings.TrimSpace(input.Color),
		VIN:          strings.ToUpper(strings.TrimSpace(input.VIN)),
		LicenseNum:   utils.NormalizePlate(input.LicenseNum),
		LicenseState: strings.ToUpper(strings.TrimSpace(input.LicenseState)),
		TowedFrom:    strings.TrimSpace(input.TowedFrom),
		TowedTo:      strings.TrimSpace(input.TowedTo),
		WhoCalled:    strings.TrimSpace(input.WhoCalled),
		Phone:        strings.TrimSpace(input.Phone),
		Reason:       strings.TrimSpace(input.Reason),
		Priority:     strings.TrimSpace(input.Priority),
		BillingName:  strings.TrimSpace(input.BillingName),
		MemberNum:    strings.TrimSpace(input.MemberNum),
		Notes:        input.Notes,
		ReferenceNum: strings.TrimSpace(input.ReferenceNum),
		TowDate:      towDate,
		Transport:    input.Transport,
		Dispatched:   input.DriverNum != "",
	}

	if input.DispatchNum > 0 {
		existing, err := s.dispatchRepo.GetByNum(ctx, principal.CompanyID, input.DispatchNum)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		dispatch.DispatchNum = existing.DispatchNum
		dispatch.Dispatched = existing.Dispatched || dispatch.Dispatched
		dispatch.DispCleared = existing.DispCleared
		dispatch.DateOut = existing.DateOut
		dispatch.StockNum = existing.StockNum
		dispatch.AuctionNum = existing.AuctionNum
		dispatch.CreatedAt = existing.CreatedAt
		if err := s.dispatchRepo.Update(ctx, dispatch); err != nil {
			return nil, err
		}
	} else {
		if dispatch.TowDate == nil {
			now := time.Now()
			dispatch.TowDate = &now
		}
		if err := s.dispatchRepo.Create(ctx, dispatch); err != nil {
			return nil, err
		}
	}

	if err := s.upsertAssignment(ctx, principal.CompanyID, dispatch.DispatchNum, input); err != nil {
		return nil, err
	}

	return dispatch, nil
}

func (s *DispatchService) upsertAssignment(ctx context.Context, companyID string, dispatchNum int64, input QuickCallInput) error {
	active, err := s.assignmentRepo.FindActiveByDispatch(ctx, companyID, dispatchNum)
	if err != nil {
		return err
	}

	if active != nil {
		active.DriverNum = input.DriverNum
		active.TruckNum = input.TruckNum
		active.TowTagNum = input.TowTagNum
		return s.assignmentRepo.Update(ctx, active)
	}

	assignment := &model.DriverAssignment{
		CompanyID:   companyID,
		DispatchNum: dispatchNum,
		DriverNum:   input.DriverNum,
		TruckNum:    input.TruckNum,
		TowTagNum:   input.TowTagNum,
	}
	if input.DriverNum != "" {
		assignment.TimeReceived = time.Now().Format("1504")
	}
	return s.assignmentRepo.Create(ctx, assignment)
}

func (s *DispatchService) Get(ctx context.Context, principal model.Principal, num int64) (*model.Dispatch, error) {
	dispatch, err := s.dispatchRepo.GetByNum(ctx, principal.CompanyID, num)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dispatch, nil
}

func (s *DispatchService) ListActive(ctx context.Context, principal model.Principal) ([]model.Dispatch, error) {
	return s.dispatchRepo.ListActive(ctx, principal.CompanyID)
}

// patchableFields whitelists the board's inline-editable columns.
var patchableFields = map[string]bool{
	"vehicle_year":  true,
	"make":          true,
	"model":         true,
	"color":         true,
	"vin":           true,
	"license_num":   true,
	"license_state": true,
	"towed_from":    true,
	"towed_to":      true,
	"who_called":    true,
	"phone":         true,
	"reason":        true,
	"priority":      true,
	"billing_name":  true,
	"member_num":    true,
	"notes":         true,
	"reference_num": true,
	"stock_num":     true,
	"auction_num":   true,
	"release_lic":   true,
	"date_out":      true,
	"transport":     true,
	"dispatched":    true,
}

func (s *DispatchService) Patch(ctx context.Context, principal model.Principal, num int64, fields map[string]interface{}) (*model.Dispatch, error) {
	if principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	if len(fields) == 0 {
		return nil, ErrInvalidInput
	}
	for name := range fields {
		if !patchableFields[name] {
			return nil, ErrInvalidInput
		}
	}

	if _, err := s.Get(ctx, principal, num); err != nil {
		return nil, err
	}
	if err := s.dispatchRepo.Patch(ctx, principal.CompanyID, num, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, principal, num)
}

// Archive moves a cleared dispatch to the history table. Uncleared calls
// stay on the board.
func (s *DispatchService) Archive(ctx context.Context, principal model.Principal, num int64) error {
	if principal.IsDriver() {
		return ErrPermissionDenied
	}

	dispatch, err := s.Get(ctx, principal, num)
	if err != nil {
		return err
	}
	if !dispatch.DispCleared {
		return ErrConflict
	}

	if err := s.dispatchRepo.Archive(ctx, principal.CompanyID, num); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// parseTowDateInput accepts the form's MM/DD/YY entry, with 2-digit years
// read as 20YY. Blank means "today" and is resolved by the caller.
func parseTowDateInput(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := ParseTowDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
