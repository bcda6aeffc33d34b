package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TVSale is the common shape of both television sale tables. Brand and Size are
// captured at sale time so later edits of the unit leave the sale untouched.
type TVSale struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	ProductID uint            `gorm:"column:product_id;not null;index" json:"product_id"`
	Phone     string          `gorm:"size:30" json:"phone"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	SaleDate  time.Time       `gorm:"column:sale_date;type:date;not null;index" json:"sale_date"`
	Warranty  string          `gorm:"size:100" json:"warranty"`
	Brand     string          `gorm:"size:100;not null" json:"brand"`
	Size      string          `gorm:"size:20;not null;index" json:"size"`
}

// B2CTVSale is a television sold to a consumer.
type B2CTVSale struct {
	TVSale       `gorm:"embedded"`
	CustomerName string `gorm:"column:customer_name;size:150;not null" json:"customer_name"`
}

func (B2CTVSale) TableName() string { return "b2c_tv_sales" }

// B2BTVSale is a television sold to a business.
type B2BTVSale struct {
	TVSale       `gorm:"embedded"`
	BusinessName string `gorm:"column:business_name;size:150;not null" json:"business_name"`
}

func (B2BTVSale) TableName() string { return "b2b_tv_sales" }

// AccessorySale records a counter sale of an accessory. LabourName holds the
// location tag the quantity was drawn from.
type AccessorySale struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	ItemName     string          `gorm:"column:item_name;size:150;not null;index" json:"item_name"`
	Quantity     int             `gorm:"not null;check:chk_sale_quantity,quantity > 0" json:"quantity"`
	CustomerName string          `gorm:"column:customer_name;size:150" json:"customer_name"`
	Phone        string          `gorm:"size:30" json:"phone"`
	LabourName   string          `gorm:"column:labour_name;size:50" json:"labour_name"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	SaleDate     time.Time       `gorm:"column:sale_date;type:date;not null;index" json:"sale_date"`
}

func (AccessorySale) TableName() string { return "b2c_accessory_sales" }

// All lists every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&TVUnit{},
		&AccessoryStock{},
		&B2CTVSale{},
		&B2BTVSale{},
		&AccessorySale{},
	}
}
