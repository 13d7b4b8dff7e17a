package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hyejinmoon/babysteps-backend/api/responses"
	"github.com/hyejinmoon/babysteps-backend/api/validators"
	"github.com/hyejinmoon/babysteps-backend/internal/meals"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	pkgerrors "github.com/hyejinmoon/babysteps-backend/pkg/errors"
	"github.com/hyejinmoon/babysteps-backend/pkg/logger"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

type saveMealPayload struct {
	Base     *string          `json:"base,omitempty" validate:"omitempty,max=100"`
	Toppings []string         `json:"toppings,omitempty" validate:"omitempty,dive,required,max=100"`
	Snack    []string         `json:"snack,omitempty" validate:"omitempty,max=3,dive,required,max=100"`
	NewFoods []string         `json:"new_foods,omitempty" validate:"omitempty,dive,required,max=100"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Eaten    bool             `json:"eaten"`
}

type logMealPayload struct {
	Date  string   `json:"date" validate:"required"`
	Slot  string   `json:"slot" validate:"required,oneof=morning lunch dinner"`
	Foods []string `json:"foods" validate:"required,min=1,dive,required,max=100"`
}

type markEatenPayload struct {
	Eaten bool `json:"eaten"`
}

type copyMealPayload struct {
	Targets []string `json:"targets" validate:"required,min=1,dive,required"`
}

// MealsList returns the records in the inclusive [from, to] range.
func MealsList(svc meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		records, err := svc.ListMeals(ctx, from, to)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"meals": records})
	}
}

func MealsGet(svc meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		date, slot, err := mealKeyFromURL(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.GetMeal(ctx, date, slot)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// MealsSave upserts the plan for the (date, slot) in the URL. The second save
// of the same key replaces the first entirely.
func MealsSave(svc meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		date, slot, err := mealKeyFromURL(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload saveMealPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.SaveMeal(ctx, meals.SaveMealInput{
			Date:     date,
			Slot:     slot,
			Base:     payload.Base,
			Toppings: payload.Toppings,
			Snack:    payload.Snack,
			NewFoods: payload.NewFoods,
			Amount:   payload.Amount,
			Eaten:    payload.Eaten,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// MealsLog records consumed foods and deducts them from the pantry.
func MealsLog(svc meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload logMealPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		date, err := types.ParseDate(payload.Date)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "date must be a YYYY-MM-DD date"))
			return
		}
		slot, err := enums.ParseMealSlot(payload.Slot)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal slot"))
			return
		}

		record, err := svc.LogMeal(ctx, meals.LogMealInput{
			Date:  date,
			Slot:  slot,
			Foods: payload.Foods,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func MealsMarkEaten(svc meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		date, slot, err := mealKeyFromURL(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload markEatenPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.MarkEaten(ctx, date, slot, payload.Eaten)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// MealsCopy duplicates the (date, slot) record onto the target dates.
func MealsCopy(svc meals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		date, slot, err := mealKeyFromURL(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload copyMealPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		targets, err := parseTargetDates(payload.Targets)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		copies, err := svc.CopyMeal(ctx, meals.CopyMealInput{
			SourceDate: date,
			Slot:       slot,
			Targets:    targets,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"meals": copies})
	}
}

func mealKeyFromURL(r *http.Request) (types.Date, enums.MealSlot, error) {
	date, err := types.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		return types.Date{}, "", pkgerrors.New(pkgerrors.CodeValidation, "date must be a YYYY-MM-DD date")
	}
	slot, err := enums.ParseMealSlot(chi.URLParam(r, "slot"))
	if err != nil {
		return types.Date{}, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meal slot")
	}
	return date, slot, nil
}

func parseTargetDates(raw []string) ([]types.Date, error) {
	targets := make([]types.Date, 0, len(raw))
	for _, value := range raw {
		date, err := types.ParseDate(value)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "target dates must be YYYY-MM-DD dates").
				WithDetails(map[string]any{"value": value})
		}
		targets = append(targets, date)
	}
	return targets, nil
}
