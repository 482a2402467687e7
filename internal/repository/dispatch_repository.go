package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"dispatch-service/internal/model"
)

// SearchResultCap bounds every dispatch search; the board and search
// screens never page past this.
const SearchResultCap = 500

type DispatchRepository struct {
	db *gorm.DB
}

func NewDispatchRepository(db *gorm.DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

// Create inserts a dispatch. When DispatchNum is zero the next ticket
// number for the company (max+1) is taken inside the same transaction.
func (r *DispatchRepository) Create(ctx context.Context, dispatch *model.Dispatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dispatch.DispatchNum == 0 {
			var next int64
			err := tx.Raw(
				`SELECT COALESCE(MAX(dispnum), 0) + 1 FROM towmast WHERE company_id = ?`,
				dispatch.CompanyID,
			).Scan(&next).Error
			if err != nil {
				return err
			}
			dispatch.DispatchNum = next
		}
		return tx.Create(dispatch).Error
	})
}

func (r *DispatchRepository) GetByNum(ctx context.Context, companyID string, num int64) (*model.Dispatch, error) {
	var dispatch model.Dispatch
	err := r.db.WithContext(ctx).
		Where("dispnum = ? AND company_id = ?", num, companyID).
		First(&dispatch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &dispatch, nil
}

func (r *DispatchRepository) Update(ctx context.Context, dispatch *model.Dispatch) error {
	return r.db.WithContext(ctx).Save(dispatch).Error
}

func (r *DispatchRepository) Patch(ctx context.Context, companyID string, num int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Dispatch{}).
		Where("dispnum = ? AND company_id = ?", num, companyID).
		Updates(fields).Error
}

// ListActive returns the dispatch board: calls not yet cleared, newest
// first.
func (r *DispatchRepository) ListActive(ctx context.Context, companyID string) ([]model.Dispatch, error) {
	var dispatches []model.Dispatch
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND dispcleared = ?", companyID, false).
		Order("dispnum DESC").
		Limit(SearchResultCap).
		Find(&dispatches).Error
	return dispatches, err
}

// MarkCleared flips the dispatch-level cleared flag. The flag is terminal;
// nothing ever sets it back.
func (r *DispatchRepository) MarkCleared(ctx context.Context, companyID string, num int64) error {
	return r.db.WithContext(ctx).Model(&model.Dispatch{}).
		Where("dispnum = ? AND company_id = ?", num, companyID).
		Update("dispcleared", true).Error
}

// Archive moves a dispatch row to towhist. Copy and delete run in one
// transaction so the row lives in exactly one table.
func (r *DispatchRepository) Archive(ctx context.Context, companyID string, num int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`INSERT INTO towhist SELECT * FROM towmast WHERE dispnum = ? AND company_id = ?`,
			num, companyID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec(
			`DELETE FROM towmast WHERE dispnum = ? AND company_id = ?`,
			num, companyID,
		).Error
	})
}

// DispatchSearchFilter is the fully resolved criteria set: indirect
// filters (tow tag, driver, invoice#, PO#) have already been translated
// into DispatchNums by the search service.
type DispatchSearchFilter struct {
	DispatchNum  *int64
	LicenseNum   string
	LicenseState string
	VIN          string
	TowDate      *time.Time
	ReferenceNum string
	StockNum     string
	AuctionNum   string
	ReleaseLic   string
	TowedFrom    string
	VehicleYear  string
	Make         string
	Model        string
	Color        string

	TransportOnly  bool
	StoredCarsOnly bool

	// PowerColumn is validated against a fixed label map before it gets
	// here; it is never raw user input.
	PowerColumn string
	PowerValue  string

	DispatchNums []int64
}

// Search composes the extended-search query. history selects the archive
// table; both tables share the towmast column set.
func (r *DispatchRepository) Search(ctx context.Context, companyID string, history bool, filter DispatchSearchFilter) ([]model.Dispatch, error) {
	table := model.Dispatch{}.TableName()
	if history {
		table = model.HistoryTableName
	}

	query := r.db.WithContext(ctx).Table(table).Where("company_id = ?", companyID)

	if filter.DispatchNum != nil {
		query = query.Where("dispnum = ?", *filter.DispatchNum)
	}
	if filter.LicenseNum != "" {
		query = query.Where("license_num ILIKE ?", "%"+filter.LicenseNum+"%")
	}
	if filter.LicenseState != "" {
		query = query.Where("license_state = ?", filter.LicenseState)
	}
	if filter.VIN != "" {
		query = query.Where("vin ILIKE ?", "%"+filter.VIN+"%")
	}
	if filter.TowDate != nil {
		query = query.Where("tow_date >= ? AND tow_date < ?", *filter.TowDate, filter.TowDate.AddDate(0, 0, 1))
	}
	if filter.ReferenceNum != "" {
		query = query.Where("reference_num ILIKE ?", "%"+filter.ReferenceNum+"%")
	}
	if filter.StockNum != "" {
		query = query.Where("stock_num = ?", filter.StockNum)
	}
	if filter.AuctionNum != "" {
		query = query.Where("auction_num = ?", filter.AuctionNum)
	}
	if filter.ReleaseLic != "" {
		query = query.Where("release_lic ILIKE ?", "%"+filter.ReleaseLic+"%")
	}
	if filter.TowedFrom != "" {
		query = query.Where("towed_from ILIKE ?", "%"+filter.TowedFrom+"%")
	}
	if filter.VehicleYear != "" {
		query = query.Where("vehicle_year ILIKE ?", "%"+filter.VehicleYear+"%")
	}
	if filter.Make != "" {
		query = query.Where("make ILIKE ?", "%"+filter.Make+"%")
	}
	if filter.Model != "" {
		query = query.Where("model ILIKE ?", "%"+filter.Model+"%")
	}
	if filter.Color != "" {
		query = query.Where("color ILIKE ?", "%"+filter.Color+"%")
	}
	if filter.TransportOnly {
		query = query.Where("transport = ?", true)
	}
	if filter.StoredCarsOnly {
		query = query.Where("date_out IS NOT NULL")
	}
	if filter.PowerColumn != "" && filter.PowerValue != "" {
		query = query.Where(filter.PowerColumn+" ILIKE ?", "%"+filter.PowerValue+"%")
	}
	if filter.DispatchNums != nil {
		query = query.Where("dispnum IN ?", filter.DispatchNums)
	}

	var dispatches []model.Dispatch
	err := query.Order("tow_date DESC").Limit(SearchResultCap).Find(&dispatches).Error
	return dispatches, err
}

// DispatchNumsByInvoiceNum matches the base table's own invoice column;
// the search service unions this with the towinv lookup.
func (r *DispatchRepository) DispatchNumsByInvoiceNum(ctx context.Context, companyID string, history bool, invoiceNum string) ([]int64, error) {
	return r.pluckNums(ctx, companyID, history, "invoice_num", invoiceNum)
}

func (r *DispatchRepository) DispatchNumsByPONum(ctx context.Context, companyID string, history bool, poNum string) ([]int64, error) {
	return r.pluckNums(ctx, companyID, history, "po_num", poNum)
}

func (r *DispatchRepository) pluckNums(ctx context.Context, companyID string, history bool, column, value string) ([]int64, error) {
	table := model.Dispatch{}.TableName()
	if history {
		table = model.HistoryTableName
	}
	var nums []int64
	err := r.db.WithContext(ctx).Table(table).
		Where("company_id = ?", companyID).
		Where(column+" = ?", value).
		Limit(SearchResultCap).
		Pluck("dispnum", &nums).Error
	return nums, err
}
