package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DriverAssignment pairs a dispatch with a driver and truck and carries the
// call's milestone times. Each milestone is a zero-padded 4-digit 24h wall
// clock string ("0830"), entered that way from the dispatch board.
// DispCleared flips once and is terminal; a dispatch has at most one active
// (uncleared) assignment.
type DriverAssignment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CompanyID    string    `gorm:"column:company_id;type:varchar(36);not null;index" json:"company_id"`
	DispatchNum  int64     `gorm:"column:dispnumdrv;not null;index" json:"dispatch_num"`
	DriverNum    string    `gorm:"column:driver_num;type:varchar(10);index" json:"driver_num"`
	TruckNum     string    `gorm:"column:truck_num;type:varchar(10)" json:"truck_num"`
	TowTagNum    string    `gorm:"column:tow_tag_num;type:varchar(20);index" json:"tow_tag_num"`
	TimeReceived string    `gorm:"column:time_received;type:varchar(5)" json:"time_received"`
	TimeEnroute  string    `gorm:"column:time_enroute;type:varchar(5)" json:"time_enroute"`
	TimeArrived  string    `gorm:"column:time_arrived;type:varchar(5)" json:"time_arrived"`
	TimeInTow    string    `gorm:"column:time_intow;type:varchar(5)" json:"time_intow"`
	TimeCleared  string    `gorm:"column:time_cleared;type:varchar(5)" json:"time_cleared"`
	DispCleared  bool      `gorm:"column:dispcleared;not null;default:false" json:"dispcleared"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DriverAssignment) TableName() string {
	return "towdrive"
}

func (a *DriverAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
