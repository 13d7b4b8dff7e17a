package meals

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hyejinmoon/babysteps-backend/internal/pantry"
	"github.com/hyejinmoon/babysteps-backend/pkg/db"
	"github.com/hyejinmoon/babysteps-backend/pkg/db/models"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	pkgerrors "github.com/hyejinmoon/babysteps-backend/pkg/errors"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

func setupMealsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	mealRecords := `
CREATE TABLE IF NOT EXISTS meal_records (
  id TEXT PRIMARY KEY,
  date DATE NOT NULL,
  slot TEXT NOT NULL,
  base TEXT,
  toppings TEXT,
  snack TEXT,
  new_foods TEXT,
  foods TEXT,
  amount TEXT,
  eaten INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	pantryItems := `
CREATE TABLE IF NOT EXISTS pantry_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  daily_use_rate TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(mealRecords).Error)
	require.NoError(t, conn.Exec(pantryItems).Error)
	require.NoError(t, conn.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_meal_records_date_slot ON meal_records(date, slot);`).Error)
	require.NoError(t, conn.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_pantry_items_name ON pantry_items(name);`).Error)
	require.NoError(t, conn.Exec(`DELETE FROM meal_records;`).Error)
	require.NoError(t, conn.Exec(`DELETE FROM pantry_items;`).Error)

	return conn
}

func newMealsService(t *testing.T) (Service, *pantry.Repository) {
	t.Helper()
	conn := setupMealsTestDB(t)
	pantryRepo := pantry.NewRepository(conn)
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), pantryRepo)
	require.NoError(t, err)
	return svc, pantryRepo
}

func strPtr(s string) *string { return &s }

func TestSaveMealSecondSaveWins(t *testing.T) {
	svc, _ := newMealsService(t)
	ctx := context.Background()
	date := types.Date{Year: 2026, Month: time.March, Day: 2}

	first, err := svc.SaveMeal(ctx, SaveMealInput{
		Date:     date,
		Slot:     enums.MealSlotLunch,
		Base:     strPtr("쌀죽"),
		Toppings: []string{"소고기", "당근"},
	})
	require.NoError(t, err)

	amount := decimal.NewFromInt(120)
	second, err := svc.SaveMeal(ctx, SaveMealInput{
		Date:   date,
		Slot:   enums.MealSlotLunch,
		Base:   strPtr("오트밀죽"),
		Snack:  []string{"바나나"},
		Amount: &amount,
	})
	require.NoError(t, err)

	// The key keeps its identity; the content is replaced wholesale.
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Base)
	assert.Equal(t, "오트밀죽", *second.Base)
	assert.Empty(t, second.Toppings)
	assert.Equal(t, []string{"바나나"}, second.Snack)

	all, err := svc.ListMeals(ctx, date, date)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveMealSnackLimit(t *testing.T) {
	svc, _ := newMealsService(t)

	_, err := svc.SaveMeal(context.Background(), SaveMealInput{
		Date:  types.Date{Year: 2026, Month: time.March, Day: 2},
		Slot:  enums.MealSlotMorning,
		Snack: []string{"a", "b", "c", "d"},
	})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSaveMealInvalidKey(t *testing.T) {
	svc, _ := newMealsService(t)
	ctx := context.Background()

	_, err := svc.SaveMeal(ctx, SaveMealInput{Slot: enums.MealSlotLunch})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.SaveMeal(ctx, SaveMealInput{
		Date: types.Date{Year: 2026, Month: time.March, Day: 2},
		Slot: enums.MealSlot("brunch"),
	})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLogMealDecrementsPantry(t *testing.T) {
	svc, pantryRepo := newMealsService(t)
	ctx := context.Background()

	_, err := pantryRepo.Create(ctx, &models.PantryItem{Name: "소고기", Quantity: 3})
	require.NoError(t, err)
	_, err = pantryRepo.Create(ctx, &models.PantryItem{Name: "당근", Quantity: 1})
	require.NoError(t, err)

	logged, err := svc.LogMeal(ctx, LogMealInput{
		Date:  types.Date{Year: 2026, Month: time.March, Day: 2},
		Slot:  enums.MealSlotDinner,
		Foods: []string{"소고기", "당근", "소고기"},
	})
	require.NoError(t, err)
	assert.True(t, logged.Eaten)
	assert.Equal(t, []string{"소고기", "당근", "소고기"}, logged.Foods)

	// Each occurrence deducts one unit.
	beef, err := pantryRepo.FindByName(ctx, "소고기")
	require.NoError(t, err)
	assert.Equal(t, 1, beef.Quantity)

	carrot, err := pantryRepo.FindByName(ctx, "당근")
	require.NoError(t, err)
	assert.Equal(t, 0, carrot.Quantity)
}

func TestLogMealClampsAndSkipsUnknownFoods(t *testing.T) {
	svc, pantryRepo := newMealsService(t)
	ctx := context.Background()

	_, err := pantryRepo.Create(ctx, &models.PantryItem{Name: "사과", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.LogMeal(ctx, LogMealInput{
		Date:  types.Date{Year: 2026, Month: time.March, Day: 2},
		Slot:  enums.MealSlotLunch,
		Foods: []string{"사과", "사과", "없는재료"},
	})
	require.NoError(t, err)

	apple, err := pantryRepo.FindByName(ctx, "사과")
	require.NoError(t, err)
	assert.Equal(t, 0, apple.Quantity)
}

func TestLogMealRequiresFoods(t *testing.T) {
	svc, _ := newMealsService(t)

	_, err := svc.LogMeal(context.Background(), LogMealInput{
		Date: types.Date{Year: 2026, Month: time.March, Day: 2},
		Slot: enums.MealSlotLunch,
	})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCopyMealCreatesUneatenCopies(t *testing.T) {
	svc, _ := newMealsService(t)
	ctx := context.Background()
	source := types.Date{Year: 2026, Month: time.March, Day: 2}

	amount := decimal.NewFromInt(100)
	_, err := svc.SaveMeal(ctx, SaveMealInput{
		Date:     source,
		Slot:     enums.MealSlotLunch,
		Base:     strPtr("쌀죽"),
		Toppings: []string{"소고기"},
		NewFoods: []string{"소고기"},
		Amount:   &amount,
		Eaten:    true,
	})
	require.NoError(t, err)

	targets := []types.Date{
		{Year: 2026, Month: time.March, Day: 3},
		{Year: 2026, Month: time.March, Day: 4},
	}
	copies, err := svc.CopyMeal(ctx, CopyMealInput{
		SourceDate: source,
		Slot:       enums.MealSlotLunch,
		Targets:    targets,
	})
	require.NoError(t, err)
	require.Len(t, copies, 2)

	for i, dup := range copies {
		assert.Equal(t, targets[i], dup.Date)
		assert.False(t, dup.Eaten)
		require.NotNil(t, dup.Base)
		assert.Equal(t, "쌀죽", *dup.Base)
		assert.Equal(t, []string{"소고기"}, dup.Toppings)
		assert.Equal(t, []string{"소고기"}, dup.NewFoods)
		require.NotNil(t, dup.Amount)
		assert.True(t, amount.Equal(*dup.Amount))
	}

	// The source keeps its eaten flag.
	original, err := svc.GetMeal(ctx, source, enums.MealSlotLunch)
	require.NoError(t, err)
	assert.True(t, original.Eaten)
}

func TestCopyMealOverwritesExistingTarget(t *testing.T) {
	svc, _ := newMealsService(t)
	ctx := context.Background()
	source := types.Date{Year: 2026, Month: time.March, Day: 2}
	target := types.Date{Year: 2026, Month: time.March, Day: 3}

	_, err := svc.SaveMeal(ctx, SaveMealInput{
		Date: source, Slot: enums.MealSlotDinner, Base: strPtr("쌀죽"),
	})
	require.NoError(t, err)
	_, err = svc.SaveMeal(ctx, SaveMealInput{
		Date: target, Slot: enums.MealSlotDinner, Base: strPtr("감자죽"),
	})
	require.NoError(t, err)

	copies, err := svc.CopyMeal(ctx, CopyMealInput{
		SourceDate: source,
		Slot:       enums.MealSlotDinner,
		Targets:    []types.Date{target},
	})
	require.NoError(t, err)
	require.Len(t, copies, 1)
	require.NotNil(t, copies[0].Base)
	assert.Equal(t, "쌀죽", *copies[0].Base)

	all, err := svc.ListMeals(ctx, source, target)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCopyMealMissingSource(t *testing.T) {
	svc, _ := newMealsService(t)

	_, err := svc.CopyMeal(context.Background(), CopyMealInput{
		SourceDate: types.Date{Year: 2026, Month: time.March, Day: 2},
		Slot:       enums.MealSlotLunch,
		Targets:    []types.Date{{Year: 2026, Month: time.March, Day: 3}},
	})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestMarkEatenToggles(t *testing.T) {
	svc, _ := newMealsService(t)
	ctx := context.Background()
	date := types.Date{Year: 2026, Month: time.March, Day: 2}

	_, err := svc.SaveMeal(ctx, SaveMealInput{
		Date: date, Slot: enums.MealSlotMorning, Base: strPtr("쌀죽"),
	})
	require.NoError(t, err)

	marked, err := svc.MarkEaten(ctx, date, enums.MealSlotMorning, true)
	require.NoError(t, err)
	assert.True(t, marked.Eaten)

	unmarked, err := svc.MarkEaten(ctx, date, enums.MealSlotMorning, false)
	require.NoError(t, err)
	assert.False(t, unmarked.Eaten)
}

func TestListMealsRejectsInvalidRange(t *testing.T) {
	svc, _ := newMealsService(t)

	_, err := svc.ListMeals(context.Background(),
		types.Date{Year: 2026, Month: time.March, Day: 5},
		types.Date{Year: 2026, Month: time.March, Day: 2})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLoadSnapshotsMapsRecords(t *testing.T) {
	svc, _ := newMealsService(t)
	ctx := context.Background()
	planned := types.Date{Year: 2026, Month: time.March, Day: 2}
	logged := types.Date{Year: 2026, Month: time.March, Day: 3}

	_, err := svc.SaveMeal(ctx, SaveMealInput{
		Date:     planned,
		Slot:     enums.MealSlotLunch,
		Base:     strPtr("쌀죽"),
		Toppings: []string{"소고기"},
		Snack:    []string{"바나나"},
	})
	require.NoError(t, err)
	_, err = svc.LogMeal(ctx, LogMealInput{
		Date:  logged,
		Slot:  enums.MealSlotDinner,
		Foods: []string{"사과"},
	})
	require.NoError(t, err)

	snapshots, err := svc.LoadSnapshots(ctx, planned, logged)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	assert.Equal(t, planned, snapshots[0].Date)
	assert.Equal(t, enums.MealSlotLunch, snapshots[0].Slot)
	assert.Equal(t, "쌀죽", snapshots[0].Base)
	assert.Equal(t, []string{"소고기"}, snapshots[0].Toppings)
	assert.False(t, snapshots[0].Eaten)

	assert.Equal(t, logged, snapshots[1].Date)
	assert.Equal(t, []string{"사과"}, snapshots[1].Foods)
	assert.True(t, snapshots[1].Eaten)
}
