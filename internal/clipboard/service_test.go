package clipboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyejinmoon/babysteps-backend/internal/meals"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	pkgerrors "github.com/hyejinmoon/babysteps-backend/pkg/errors"
	"github.com/hyejinmoon/babysteps-backend/pkg/redis"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

type fakeStore struct {
	values map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string][]byte{}}
}

func (f *fakeStore) SetClipboard(_ context.Context, sessionID string, payload []byte, _ time.Duration) error {
	f.values[sessionID] = payload
	return nil
}

func (f *fakeStore) GetClipboard(_ context.Context, sessionID string) ([]byte, error) {
	raw, ok := f.values[sessionID]
	if !ok {
		return nil, redis.ErrNotFound
	}
	return raw, nil
}

func (f *fakeStore) DeleteClipboard(_ context.Context, sessionID string) error {
	delete(f.values, sessionID)
	return nil
}

type fakeMeals struct {
	records   map[string]*meals.MealDTO
	copyCalls []meals.CopyMealInput
}

func mealKey(date types.Date, slot enums.MealSlot) string {
	return date.String() + "/" + slot.String()
}

func (f *fakeMeals) GetMeal(_ context.Context, date types.Date, slot enums.MealSlot) (*meals.MealDTO, error) {
	dto, ok := f.records[mealKey(date, slot)]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal record not found")
	}
	return dto, nil
}

func (f *fakeMeals) CopyMeal(_ context.Context, input meals.CopyMealInput) ([]meals.MealDTO, error) {
	f.copyCalls = append(f.copyCalls, input)
	out := make([]meals.MealDTO, 0, len(input.Targets))
	for _, target := range input.Targets {
		out = append(out, meals.MealDTO{Date: target, Slot: input.Slot.String()})
	}
	return out, nil
}

func TestClipboardCopyThenPaste(t *testing.T) {
	source := types.Date{Year: 2026, Month: time.March, Day: 2}
	mealSvc := &fakeMeals{records: map[string]*meals.MealDTO{
		mealKey(source, enums.MealSlotLunch): {Date: source, Slot: enums.MealSlotLunch.String()},
	}}
	svc, err := NewService(newFakeStore(), mealSvc, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Copy(ctx, "session-a", source, enums.MealSlotLunch))

	targets := []types.Date{
		{Year: 2026, Month: time.March, Day: 3},
		{Year: 2026, Month: time.March, Day: 4},
	}
	copies, err := svc.Paste(ctx, "session-a", targets)
	require.NoError(t, err)
	require.Len(t, copies, 2)

	require.Len(t, mealSvc.copyCalls, 1)
	assert.Equal(t, source, mealSvc.copyCalls[0].SourceDate)
	assert.Equal(t, enums.MealSlotLunch, mealSvc.copyCalls[0].Slot)
	assert.Equal(t, targets, mealSvc.copyCalls[0].Targets)
}

func TestClipboardCopyMissingRecord(t *testing.T) {
	mealSvc := &fakeMeals{records: map[string]*meals.MealDTO{}}
	svc, err := NewService(newFakeStore(), mealSvc, time.Hour)
	require.NoError(t, err)

	err = svc.Copy(context.Background(), "session-a",
		types.Date{Year: 2026, Month: time.March, Day: 2}, enums.MealSlotDinner)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestClipboardPasteEmpty(t *testing.T) {
	svc, err := NewService(newFakeStore(), &fakeMeals{}, time.Hour)
	require.NoError(t, err)

	_, err = svc.Paste(context.Background(), "session-a",
		[]types.Date{{Year: 2026, Month: time.March, Day: 3}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestClipboardSessionsAreIsolated(t *testing.T) {
	source := types.Date{Year: 2026, Month: time.March, Day: 2}
	mealSvc := &fakeMeals{records: map[string]*meals.MealDTO{
		mealKey(source, enums.MealSlotMorning): {Date: source, Slot: enums.MealSlotMorning.String()},
	}}
	svc, err := NewService(newFakeStore(), mealSvc, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Copy(ctx, "session-a", source, enums.MealSlotMorning))

	_, err = svc.Paste(ctx, "session-b",
		[]types.Date{{Year: 2026, Month: time.March, Day: 3}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestClipboardClear(t *testing.T) {
	source := types.Date{Year: 2026, Month: time.March, Day: 2}
	mealSvc := &fakeMeals{records: map[string]*meals.MealDTO{
		mealKey(source, enums.MealSlotLunch): {Date: source, Slot: enums.MealSlotLunch.String()},
	}}
	svc, err := NewService(newFakeStore(), mealSvc, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Copy(ctx, "session-a", source, enums.MealSlotLunch))
	require.NoError(t, svc.Clear(ctx, "session-a"))

	_, err = svc.Paste(ctx, "session-a",
		[]types.Date{{Year: 2026, Month: time.March, Day: 3}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestClipboardRequiresSession(t *testing.T) {
	svc, err := NewService(newFakeStore(), &fakeMeals{}, time.Hour)
	require.NoError(t, err)

	err = svc.Copy(context.Background(), "",
		types.Date{Year: 2026, Month: time.March, Day: 2}, enums.MealSlotLunch)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
