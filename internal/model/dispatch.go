package model

import (
	"time"
)

// Dispatch is one tow call. Dispatch numbers are issued per company as
// max+1 inside a transaction, so they behave like ticket numbers rather
// than surrogate keys.
type Dispatch struct {
	DispatchNum  int64      `gorm:"column:dispnum;primaryKey" json:"dispatch_num"`
	CompanyID    string     `gorm:"column:company_id;primaryKey;type:varchar(36);index" json:"company_id"`
	VehicleYear  string     `gorm:"column:vehicle_year;type:varchar(4)" json:"vehicle_year"`
	Make         string     `gorm:"column:make;type:varchar(30)" json:"make"`
	Model        string     `gorm:"column:model;type:varchar(30)" json:"model"`
	Color        string     `gorm:"column:color;type:varchar(20)" json:"color"`
	VIN          string     `gorm:"column:vin;type:varchar(20)" json:"vin"`
	LicenseNum   string     `gorm:"column:license_num;type:varchar(10);index" json:"license_num"`
	LicenseState string     `gorm:"column:license_state;type:varchar(2)" json:"license_state"`
	TowedFrom    string     `gorm:"column:towed_from;type:varchar(60)" json:"towed_from"`
	TowedTo      string     `gorm:"column:towed_to;type:varchar(60)" json:"towed_to"`
	WhoCalled    string     `gorm:"column:who_called;type:varchar(40)" json:"who_called"`
	Phone        string     `gorm:"column:phone;type:varchar(14)" json:"phone"`
	Reason       string     `gorm:"column:reason;type:varchar(40)" json:"reason"`
	Priority     string     `gorm:"column:priority;type:varchar(10)" json:"priority"`
	BillingName  string     `gorm:"column:billing_name;type:varchar(40)" json:"billing_name"`
	MemberNum    string     `gorm:"column:member_num;type:varchar(20)" json:"member_num"`
	Notes        string     `gorm:"column:notes;type:text" json:"notes"`
	ReferenceNum string     `gorm:"column:reference_num;type:varchar(20)" json:"reference_num"`
	StockNum     string     `gorm:"column:stock_num;type:varchar(20)" json:"stock_num"`
	AuctionNum   string     `gorm:"column:auction_num;type:varchar(20)" json:"auction_num"`
	ReleaseLic   string     `gorm:"column:release_lic;type:varchar(20)" json:"release_lic"`
	InvoiceNum   string     `gorm:"column:invoice_num;type:varchar(20)" json:"invoice_num"`
	PONum        string     `gorm:"column:po_num;type:varchar(20)" json:"po_num"`
	TowDate      *time.Time `gorm:"column:tow_date;index" json:"tow_date"`
	DateOut      *time.Time `gorm:"column:date_out" json:"date_out"`
	Transport    bool       `gorm:"column:transport;not null;default:false" json:"transport"`
	Dispatched   bool       `gorm:"column:dispatched;not null;default:false" json:"dispatched"`
	DispCleared  bool       `gorm:"column:dispcleared;not null;default:false" json:"dispcleared"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Dispatch) TableName() string {
	return "towmast"
}

// HistoryTableName is the archive table cleared dispatches are moved to.
// It shares the towmast column set, so Dispatch scans from both.
const HistoryTableName = "towhist"
