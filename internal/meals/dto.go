package meals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hyejinmoon/babysteps-backend/pkg/db/models"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

// MealDTO is the API shape of a meal record.
type MealDTO struct {
	ID        uuid.UUID        `json:"id"`
	Date      types.Date       `json:"date"`
	Slot      string           `json:"slot"`
	Base      *string          `json:"base,omitempty"`
	Toppings  []string         `json:"toppings"`
	Snack     []string         `json:"snack"`
	NewFoods  []string         `json:"new_foods"`
	Foods     []string         `json:"foods,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Eaten     bool             `json:"eaten"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewMealDTO maps the model to its API shape. Nil arrays come back as empty
// slices so clients never see null where a list belongs.
func NewMealDTO(record *models.MealRecord) *MealDTO {
	if record == nil {
		return nil
	}
	return &MealDTO{
		ID:        record.ID,
		Date:      record.Date,
		Slot:      record.Slot.String(),
		Base:      record.Base,
		Toppings:  emptyWhenNil(record.Toppings),
		Snack:     emptyWhenNil(record.Snack),
		NewFoods:  emptyWhenNil(record.NewFoods),
		Foods:     record.Foods,
		Amount:    record.Amount,
		Eaten:     record.Eaten,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func emptyWhenNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
