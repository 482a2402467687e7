package service

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"dispatch-service/internal/model"
	"dispatch-service/internal/repository"
)

// Rows carrying this description are synthesized by the invoice screen
// and never written to the store.
const discountDescription = "DISCOUNT"

type InvoiceService struct {
	invoiceRepo  *repository.InvoiceRepository
	dispatchRepo *repository.DispatchRepository
}

func NewInvoiceService(
	invoiceRepo *repository.InvoiceRepository,
	dispatchRepo *repository.DispatchRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		dispatchRepo: dispatchRepo,
	}
}

type InvoiceDetails struct {
	Invoice *model.Invoice   `json:"invoice"`
	Items   []model.LineItem `json:"items"`
}

func (s *InvoiceService) GetByDispatch(ctx context.Context, principal model.Principal, dispatchNum int64) (*InvoiceDetails, error) {
	invoice, err := s.invoiceRepo.FindByDispatch(ctx, principal.CompanyID, dispatchNum)
	if err != nil {
		return nil, err
	}
	items, err := s.invoiceRepo.ListItemsByDispatch(ctx, principal.CompanyID, dispatchNum)
	if err != nil {
		return nil, err
	}
	return &InvoiceDetails{Invoice: invoice, Items: items}, nil
}

type LineItemInput struct {
	ID          string
	Description string
	Quantity    float64
	Price       float64
	Discount    bool
}

type SaveInvoiceInput struct {
	InvoiceNum     string
	PONum          string
	BillingName    string
	BillingAddress string
	AccountNum     string
	Items          []LineItemInput
}

// Save upserts the dispatch's invoice and its line items. Items are
// matched by id when one is present; rows with a blank or DISCOUNT
// description are skipped, not persisted.
func (s *InvoiceService) Save(ctx context.Context, principal model.Principal, dispatchNum int64, input SaveInvoiceInput) (*InvoiceDetails, error) {
	if principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	if _, err := s.dispatchRepo.GetByNum(ctx, principal.CompanyID, dispatchNum); err != nil {
		return nil, ErrNotFound
	}

	invoice, err := s.invoiceRepo.FindByDispatch(ctx, principal.CompanyID, dispatchNum)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		invoice = &model.Invoice{
			CompanyID:   principal.CompanyID,
			DispatchNum: dispatchNum,
		}
	}
	invoice.InvoiceNum = strings.TrimSpace(input.InvoiceNum)
	invoice.PONum = strings.TrimSpace(input.PONum)
	invoice.BillingName = strings.TrimSpace(input.BillingName)
	invoice.BillingAddress = strings.TrimSpace(input.BillingAddress)
	invoice.AccountNum = strings.TrimSpace(input.AccountNum)

	var total float64
	for _, itemInput := range input.Items {
		if !PersistLineItem(itemInput.Description) {
			continue
		}

		item := &model.LineItem{
			CompanyID:   principal.CompanyID,
			DispatchNum: dispatchNum,
			Description: strings.TrimSpace(itemInput.Description),
			Quantity:    itemInput.Quantity,
			Price:       itemInput.Price,
			Discount:    itemInput.Discount,
			Extended:    ExtendedAmount(itemInput.Quantity, itemInput.Price, itemInput.Discount),
		}
		if itemInput.ID != "" {
			id, err := uuid.Parse(itemInput.ID)
			if err != nil {
				return nil, ErrInvalidInput
			}
			item.ID = id
		}
		if err := s.invoiceRepo.SaveItem(ctx, item); err != nil {
			return nil, err
		}
		total += item.Extended
	}

	invoice.Total = roundCents(total)
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	return s.GetByDispatch(ctx, principal, dispatchNum)
}

func (s *InvoiceService) DeleteItem(ctx context.Context, principal model.Principal, id string) error {
	if principal.IsDriver() {
		return ErrPermissionDenied
	}
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidInput
	}
	return s.invoiceRepo.DeleteItem(ctx, principal.CompanyID, itemID)
}

// ExtendedAmount is quantity times price rounded to cents, negated for
// discount rows.
func ExtendedAmount(quantity, price float64, discount bool) float64 {
	extended := roundCents(quantity * price)
	if discount {
		return -extended
	}
	return extended
}

// PersistLineItem reports whether a row as entered on the invoice screen
// belongs in the store.
func PersistLineItem(description string) bool {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return false
	}
	return !strings.EqualFold(trimmed, discountDescription)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
