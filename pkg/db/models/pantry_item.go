package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
)

// PantryItem is a named food in the household pantry. Quantity never goes
// negative; decrements clamp at zero.
type PantryItem struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name         string              `gorm:"column:name;not null;uniqueIndex:idx_pantry_items_name"`
	Category     *enums.FoodCategory `gorm:"column:category;type:food_category"`
	Quantity     int                 `gorm:"column:quantity;not null;default:0"`
	DailyUseRate *decimal.Decimal    `gorm:"column:daily_use_rate;type:numeric(6,2)"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name used by migrations.
func (PantryItem) TableName() string {
	return "pantry_items"
}
