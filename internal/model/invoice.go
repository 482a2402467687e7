package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice is the billing record for a dispatch. By convention there is one
// per dispatch, matched on (company_id, dispnum).
type Invoice struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CompanyID      string    `gorm:"column:company_id;type:varchar(36);not null;index" json:"company_id"`
	DispatchNum    int64     `gorm:"column:dispnum;not null;index" json:"dispatch_num"`
	InvoiceNum     string    `gorm:"column:invoice_num;type:varchar(20);index" json:"invoice_num"`
	PONum          string    `gorm:"column:po_num;type:varchar(20);index" json:"po_num"`
	BillingName    string    `gorm:"column:billing_name;type:varchar(40)" json:"billing_name"`
	BillingAddress string    `gorm:"column:billing_address;type:varchar(80)" json:"billing_address"`
	AccountNum     string    `gorm:"column:account_num;type:varchar(20)" json:"account_num"`
	Total          float64   `gorm:"column:total;not null;default:0" json:"total"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Invoice) TableName() string {
	return "towinv"
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// LineItem is one charge on an invoice, keyed by its own id plus the
// dispatch number. Extended is quantity times price, negated for discount
// rows.
type LineItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CompanyID   string    `gorm:"column:company_id;type:varchar(36);not null;index" json:"company_id"`
	DispatchNum int64     `gorm:"column:dispnum;not null;index" json:"dispatch_num"`
	Description string    `gorm:"column:description;type:varchar(50)" json:"description"`
	Quantity    float64   `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Price       float64   `gorm:"column:price;not null;default:0" json:"price"`
	Extended    float64   `gorm:"column:extended;not null;default:0" json:"extended"`
	Discount    bool      `gorm:"column:discount;not null;default:false" json:"discount"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LineItem) TableName() string {
	return "towtrans"
}

func (t *LineItem) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
