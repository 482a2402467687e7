package model

import (
	"time"
)

// Reference entities backing the selection controls on the dispatch and
// invoice screens. Read-mostly; only kits get full CRUD.

type Driver struct {
	DriverNum string    `gorm:"column:driver_num;primaryKey;type:varchar(10)" json:"driver_num"`
	CompanyID string    `gorm:"column:company_id;primaryKey;type:varchar(36)" json:"company_id"`
	Name      string    `gorm:"column:name;type:varchar(40)" json:"name"`
	Phone     string    `gorm:"column:phone;type:varchar(14)" json:"phone"`
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Driver) TableName() string {
	return "drivers"
}

type Truck struct {
	TruckNum    string    `gorm:"column:truck_num;primaryKey;type:varchar(10)" json:"truck_num"`
	CompanyID   string    `gorm:"column:company_id;primaryKey;type:varchar(36)" json:"company_id"`
	Description string    `gorm:"column:description;type:varchar(40)" json:"description"`
	PlateNum    string    `gorm:"column:plate_num;type:varchar(10)" json:"plate_num"`
	Active      bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Truck) TableName() string {
	return "trucks"
}

type Customer struct {
	AccountNum string    `gorm:"column:account_num;primaryKey;type:varchar(20)" json:"account_num"`
	CompanyID  string    `gorm:"column:company_id;primaryKey;type:varchar(36)" json:"company_id"`
	Name       string    `gorm:"column:name;type:varchar(40)" json:"name"`
	Address    string    `gorm:"column:address;type:varchar(80)" json:"address"`
	Phone      string    `gorm:"column:phone;type:varchar(14)" json:"phone"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}

type CarMake struct {
	Make string `gorm:"column:make;primaryKey;type:varchar(30)" json:"make"`
}

func (CarMake) TableName() string {
	return "car_makes"
}

type CarModel struct {
	Make  string `gorm:"column:make;primaryKey;type:varchar(30)" json:"make"`
	Model string `gorm:"column:model;primaryKey;type:varchar(30)" json:"model"`
}

func (CarModel) TableName() string {
	return "car_models"
}
