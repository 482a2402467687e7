package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kit column limits. Writes truncate to these before hitting the store.
const (
	KitNameMaxLen        = 30
	KitDescriptionMaxLen = 50
)

// Kit is a pricing template: a named charge that the invoice screen drops
// onto a dispatch as a line item.
type Kit struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CompanyID   string    `gorm:"column:company_id;type:varchar(36);not null;index" json:"company_id"`
	Name        string    `gorm:"column:name;type:varchar(30)" json:"name"`
	Description string    `gorm:"column:description;type:varchar(50)" json:"description"`
	Quantity    float64   `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Price       float64   `gorm:"column:price;not null;default:0" json:"price"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Kit) TableName() string {
	return "kits"
}

func (k *Kit) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
