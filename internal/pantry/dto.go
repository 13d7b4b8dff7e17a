package pantry

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hyejinmoon/babysteps-backend/pkg/db/models"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

// ItemDTO is the API shape of a pantry row, optionally decorated with an
// exhaustion estimate.
type ItemDTO struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Category     *string          `json:"category,omitempty"`
	Quantity     int              `json:"quantity"`
	DailyUseRate *decimal.Decimal `json:"daily_use_rate,omitempty"`
	Estimate     *EstimateDTO     `json:"estimate,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// EstimateDTO carries one policy's projection for display.
type EstimateDTO struct {
	Policy         string      `json:"policy"`
	Severity       string      `json:"severity"`
	Display        string      `json:"display"`
	DaysLeft       *int        `json:"days_left,omitempty"`
	LastPlannedUse *types.Date `json:"last_planned_use,omitempty"`
}

// NewItemDTO maps the model to its API shape.
func NewItemDTO(item *models.PantryItem, estimate *EstimateDTO) *ItemDTO {
	if item == nil {
		return nil
	}
	dto := &ItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		Quantity:     item.Quantity,
		DailyUseRate: item.DailyUseRate,
		Estimate:     estimate,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if item.Category != nil {
		category := item.Category.String()
		dto.Category = &category
	}
	return dto
}
