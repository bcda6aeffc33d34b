package models

import "time"

// UnitStatus is the availability of a television unit.
type UnitStatus string

const (
	UnitAvailable UnitStatus = "available"
	UnitSold      UnitStatus = "sold"
)

// TVUnit is one physical television tracked by serial number.
// Units are never hard-deleted; a sale flips Status and a sale reversal flips it back.
type TVUnit struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	SerialNumber string     `gorm:"column:serial_number;uniqueIndex;size:100;not null" json:"serial_number"`
	Brand        string     `gorm:"size:100;not null;index" json:"brand"`
	Size         string     `gorm:"size:20;not null" json:"size"`
	Status       UnitStatus `gorm:"size:20;not null;default:'available';index" json:"status"`
}

func (TVUnit) TableName() string { return "tv_inventory" }

// IsAvailable reports whether the unit can be sold.
func (u *TVUnit) IsAvailable() bool { return u.Status == UnitAvailable }

// AccessoryStock holds the per-location counters of one accessory item.
type AccessoryStock struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ItemName    string    `gorm:"column:item_name;uniqueIndex;size:150;not null" json:"item_name"`
	MainStock   int       `gorm:"column:main_stock;not null;default:0;check:chk_main_stock,main_stock >= 0" json:"main_stock"`
	PrabhuStock int       `gorm:"column:prabhu_stock;not null;default:0;check:chk_prabhu_stock,prabhu_stock >= 0" json:"prabhu_stock"`
	TamilStock  int       `gorm:"column:tamil_stock;not null;default:0;check:chk_tamil_stock,tamil_stock >= 0" json:"tamil_stock"`
}

func (AccessoryStock) TableName() string { return "accessory_stock" }

// Total is the quantity held across all three locations.
func (s *AccessoryStock) Total() int { return s.MainStock + s.PrabhuStock + s.TamilStock }
