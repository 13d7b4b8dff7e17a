package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hyejinmoon/babysteps-backend/api/responses"
	"github.com/hyejinmoon/babysteps-backend/api/validators"
	"github.com/hyejinmoon/babysteps-backend/internal/pantry"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	pkgerrors "github.com/hyejinmoon/babysteps-backend/pkg/errors"
	"github.com/hyejinmoon/babysteps-backend/pkg/logger"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

const maxNameLen = 100

type createPantryItemPayload struct {
	Name         string           `json:"name" validate:"required,max=100"`
	Category     *string          `json:"category,omitempty" validate:"omitempty,oneof=base topping snack"`
	Quantity     int              `json:"quantity" validate:"min=0"`
	DailyUseRate *decimal.Decimal `json:"daily_use_rate,omitempty"`
}

type updatePantryItemPayload struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Quantity *int    `json:"quantity,omitempty" validate:"omitempty,min=0"`
}

type adjustQuantityPayload struct {
	Delta int `json:"delta" validate:"required"`
}

// PantryList returns every pantry item with its exhaustion estimate. The
// reference day defaults to the server's today; ?policy= overrides the
// configured estimate policy per request.
func PantryList(svc pantry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		refDate, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if refDate.IsZero() {
			refDate = today()
		}

		items, err := svc.ListItems(ctx, pantry.ListQuery{
			Policy: validators.SanitizeString(r.URL.Query().Get("policy"), 0),
			Today:  refDate,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

func PantryCreate(svc pantry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createPantryItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := pantry.AddItemInput{
			Name:         validators.SanitizeString(payload.Name, maxNameLen),
			Quantity:     payload.Quantity,
			DailyUseRate: payload.DailyUseRate,
		}
		if payload.Category != nil {
			category, err := enums.ParseFoodCategory(*payload.Category)
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			input.Category = &category
		}

		item, err := svc.AddItem(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// PantryUpdate handles rename and absolute quantity writes in one PATCH.
func PantryUpdate(svc pantry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pantryItemID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updatePantryItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if payload.Name == nil && payload.Quantity == nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "nothing to update"))
			return
		}

		var item *pantry.ItemDTO
		if payload.Name != nil {
			item, err = svc.Rename(ctx, id, validators.SanitizeString(*payload.Name, maxNameLen))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		if payload.Quantity != nil {
			item, err = svc.SetQuantity(ctx, id, *payload.Quantity)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, item)
	}
}

func PantryAdjust(svc pantry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pantryItemID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload adjustQuantityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AdjustQuantity(ctx, id, payload.Delta)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func PantryDelete(svc pantry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pantryItemID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteItem(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func pantryItemID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "itemId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "item id must be a UUID")
	}
	return id, nil
}

func today() types.Date {
	return types.DateOf(time.Now())
}
