package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

// MealRecord is one planned or logged meal. (date, slot) is the business key;
// saves upsert against it. Food names are free-text snapshots, never foreign
// keys into the pantry, so deleting a pantry item leaves history intact.
type MealRecord struct {
	ID       uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Date     types.Date       `gorm:"column:date;type:date;not null;uniqueIndex:idx_meal_records_date_slot"`
	Slot     enums.MealSlot   `gorm:"column:slot;not null;uniqueIndex:idx_meal_records_date_slot"`
	Base     *string          `gorm:"column:base"`
	Toppings pq.StringArray   `gorm:"column:toppings;type:text[]"`
	Snack    pq.StringArray   `gorm:"column:snack;type:text[]"`
	NewFoods pq.StringArray   `gorm:"column:new_foods;type:text[]"`
	Foods    pq.StringArray   `gorm:"column:foods;type:text[]"`
	Amount   *decimal.Decimal `gorm:"column:amount;type:numeric(6,2)"`
	Eaten    bool             `gorm:"column:eaten;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name used by migrations.
func (MealRecord) TableName() string {
	return "meal_records"
}
