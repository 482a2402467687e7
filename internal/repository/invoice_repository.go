package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch-service/internal/model"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) FindByDispatch(ctx context.Context, companyID string, dispatchNum int64) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND dispnum = ?", companyID, dispatchNum).
		Order("created_at DESC").
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) ListByDispatch(ctx context.Context, companyID string, dispatchNum int64) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND dispnum = ?", companyID, dispatchNum).
		Order("invoice_num ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) Save(ctx context.Context, invoice *model.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *InvoiceRepository) ListItemsByDispatch(ctx context.Context, companyID string, dispatchNum int64) ([]model.LineItem, error) {
	var items []model.LineItem
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND dispnum = ?", companyID, dispatchNum).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *InvoiceRepository) SaveItem(ctx context.Context, item *model.LineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *InvoiceRepository) DeleteItem(ctx context.Context, companyID string, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&model.LineItem{}, "id = ?", id).Error
}

// DispatchNumsByInvoiceNum is the towinv half of the invoice-number
// filter; the search service unions it with the base table's own column.
func (r *InvoiceRepository) DispatchNumsByInvoiceNum(ctx context.Context, companyID, invoiceNum string) ([]int64, error) {
	var nums []int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("company_id = ? AND invoice_num = ?", companyID, invoiceNum).
		Limit(SearchResultCap).
		Pluck("dispnum", &nums).Error
	return nums, err
}

func (r *InvoiceRepository) DispatchNumsByPONum(ctx context.Context, companyID, poNum string) ([]int64, error) {
	var nums []int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("company_id = ? AND po_num = ?", companyID, poNum).
		Limit(SearchResultCap).
		Pluck("dispnum", &nums).Error
	return nums, err
}
