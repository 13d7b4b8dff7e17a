package meals

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hyejinmoon/babysteps-backend/internal/estimator"
	"github.com/hyejinmoon/babysteps-backend/pkg/db"
	"github.com/hyejinmoon/babysteps-backend/pkg/db/models"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	pkgerrors "github.com/hyejinmoon/babysteps-backend/pkg/errors"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

// maxSnackFoods caps the snack list per meal.
const maxSnackFoods = 3

// Service exposes meal planning and logging operations.
type Service interface {
	SaveMeal(ctx context.Context, input SaveMealInput) (*MealDTO, error)
	LogMeal(ctx context.Context, input LogMealInput) (*MealDTO, error)
	GetMeal(ctx context.Context, date types.Date, slot enums.MealSlot) (*MealDTO, error)
	ListMeals(ctx context.Context, from, to types.Date) ([]MealDTO, error)
	CopyMeal(ctx context.Context, input CopyMealInput) ([]MealDTO, error)
	MarkEaten(ctx context.Context, date types.Date, slot enums.MealSlot, eaten bool) (*MealDTO, error)
	LoadSnapshots(ctx context.Context, from, to types.Date) ([]estimator.MealSnapshot, error)
}

// SaveMealInput holds the validated payload for the plan-a-meal flow. Saving
// never touches the pantry; consumption is logged separately.
type SaveMealInput struct {
	Date     types.Date
	Slot     enums.MealSlot
	Base     *string
	Toppings []string
	Snack    []string
	NewFoods []string
	Amount   *decimal.Decimal
	Eaten    bool
}

// LogMealInput holds the payload for the log-consumption flow: a flat food
// list that is recorded and immediately deducted from the pantry.
type LogMealInput struct {
	Date  types.Date
	Slot  enums.MealSlot
	Foods []string
}

// CopyMealInput names a source record and the dates that receive copies.
type CopyMealInput struct {
	SourceDate types.Date
	Slot       enums.MealSlot
	Targets    []types.Date
}

type pantryDecrementer interface {
	DecrementByName(ctx context.Context, tx *gorm.DB, name string, count int) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	pantry   pantryDecrementer
}

// NewService constructs a meal service instance.
func NewService(repo *Repository, dbClient *db.Client, pantry pantryDecrementer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("meal repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if pantry == nil {
		return nil, fmt.Errorf("pantry decrementer required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		pantry:   pantry,
	}, nil
}

// SaveMeal upserts the record for (date, slot); the second save of the same
// key wins entirely.
func (s *service) SaveMeal(ctx context.Context, input SaveMealInput) (*MealDTO, error) {
	if err := validateKey(input.Date, input.Slot); err != nil {
		return nil, err
	}
	if len(input.Snack) > maxSnackFoods {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("snack can hold at most %d foods", maxSnackFoods))
	}
	if input.Amount != nil && input.Amount.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-negative")
	}

	record := &models.MealRecord{
		Date:     input.Date,
		Slot:     input.Slot,
		Base:     input.Base,
		Toppings: input.Toppings,
		Snack:    input.Snack,
		NewFoods: input.NewFoods,
		Amount:   input.Amount,
		Eaten:    input.Eaten,
	}

	var saved *models.MealRecord
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		saved, err = s.repo.WithTx(tx).Upsert(ctx, record)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert meal record")
	}
	return NewMealDTO(saved), nil
}

// LogMeal records consumed foods for (date, slot) and deducts one unit of
// each occurrence from the pantry, all in one transaction. Foods missing
// from the pantry are logged but deduct nothing.
func (s *service) LogMeal(ctx context.Context, input LogMealInput) (*MealDTO, error) {
	if err := validateKey(input.Date, input.Slot); err != nil {
		return nil, err
	}
	if len(input.Foods) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one food required")
	}
	for _, food := range input.Foods {
		if food == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "food names cannot be empty")
		}
	}

	record := &models.MealRecord{
		Date:  input.Date,
		Slot:  input.Slot,
		Foods: input.Foods,
		Eaten: true,
	}

	counts := map[string]int{}
	for _, food := range input.Foods {
		counts[food]++
	}

	var saved *models.MealRecord
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		saved, err = s.repo.WithTx(tx).Upsert(ctx, record)
		if err != nil {
			return err
		}
		for food, count := range counts {
			if err := s.pantry.DecrementByName(ctx, tx, food, count); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: log meal")
	}
	return NewMealDTO(saved), nil
}

// GetMeal loads one record by its business key.
func (s *service) GetMeal(ctx context.Context, date types.Date, slot enums.MealSlot) (*MealDTO, error) {
	record, err := s.loadRecord(ctx, date, slot)
	if err != nil {
		return nil, err
	}
	return NewMealDTO(record), nil
}

// ListMeals returns records within the inclusive date range.
func (s *service) ListMeals(ctx context.Context, from, to types.Date) ([]MealDTO, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid date range")
	}
	records, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list meal records")
	}
	dtos := make([]MealDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *NewMealDTO(&records[i]))
	}
	return dtos, nil
}

// CopyMeal applies the source record's fields to every target date under the
// same slot. Copies always start uneaten, whatever the source says.
func (s *service) CopyMeal(ctx context.Context, input CopyMealInput) ([]MealDTO, error) {
	if err := validateKey(input.SourceDate, input.Slot); err != nil {
		return nil, err
	}
	if len(input.Targets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one target date required")
	}

	source, err := s.loadRecord(ctx, input.SourceDate, input.Slot)
	if err != nil {
		return nil, err
	}

	copies := make([]*models.MealRecord, 0, len(input.Targets))
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, target := range input.Targets {
			if target.IsZero() {
				return pkgerrors.New(pkgerrors.CodeValidation, "target date required")
			}
			dup := &models.MealRecord{
				Date:     target,
				Slot:     source.Slot,
				Base:     source.Base,
				Toppings: source.Toppings,
				Snack:    source.Snack,
				NewFoods: source.NewFoods,
				Foods:    source.Foods,
				Amount:   source.Amount,
				Eaten:    false,
			}
			saved, err := txRepo.Upsert(ctx, dup)
			if err != nil {
				return err
			}
			copies = append(copies, saved)
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: copy meal record")
	}

	dtos := make([]MealDTO, 0, len(copies))
	for _, record := range copies {
		dtos = append(dtos, *NewMealDTO(record))
	}
	return dtos, nil
}

// MarkEaten toggles the eaten flag on an existing record.
func (s *service) MarkEaten(ctx context.Context, date types.Date, slot enums.MealSlot, eaten bool) (*MealDTO, error) {
	record, err := s.loadRecord(ctx, date, slot)
	if err != nil {
		return nil, err
	}
	record.Eaten = eaten
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Save(record).Error
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark meal eaten")
	}
	return NewMealDTO(record), nil
}

// LoadSnapshots maps stored records to the estimator's snapshot shape.
func (s *service) LoadSnapshots(ctx context.Context, from, to types.Date) ([]estimator.MealSnapshot, error) {
	records, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	snapshots := make([]estimator.MealSnapshot, 0, len(records))
	for _, record := range records {
		base := ""
		if record.Base != nil {
			base = *record.Base
		}
		snapshots = append(snapshots, estimator.MealSnapshot{
			Date:     record.Date,
			Slot:     record.Slot,
			Eaten:    record.Eaten,
			Base:     base,
			Toppings: record.Toppings,
			Snack:    record.Snack,
			Foods:    record.Foods,
		})
	}
	return snapshots, nil
}

func (s *service) loadRecord(ctx context.Context, date types.Date, slot enums.MealSlot) (*models.MealRecord, error) {
	if err := validateKey(date, slot); err != nil {
		return nil, err
	}
	record, err := s.repo.FindByKey(ctx, date, slot)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load meal record")
	}
	return record, nil
}

func validateKey(date types.Date, slot enums.MealSlot) error {
	if date.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	if !slot.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid meal slot")
	}
	return nil
}
