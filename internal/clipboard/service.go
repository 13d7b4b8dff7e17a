package clipboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hyejinmoon/babysteps-backend/internal/meals"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	pkgerrors "github.com/hyejinmoon/babysteps-backend/pkg/errors"
	"github.com/hyejinmoon/babysteps-backend/pkg/redis"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

// Payload is what a session's clipboard remembers: which record was copied.
// The fields themselves are re-read at paste time so a later edit of the
// source is what gets pasted.
type Payload struct {
	Date types.Date     `json:"date"`
	Slot enums.MealSlot `json:"slot"`
}

// Service is the session-scoped plan clipboard. Each browser session copies
// and pastes independently; nothing is process-global.
type Service interface {
	Copy(ctx context.Context, sessionID string, date types.Date, slot enums.MealSlot) error
	Paste(ctx context.Context, sessionID string, targets []types.Date) ([]meals.MealDTO, error)
	Clear(ctx context.Context, sessionID string) error
}

type mealCopier interface {
	GetMeal(ctx context.Context, date types.Date, slot enums.MealSlot) (*meals.MealDTO, error)
	CopyMeal(ctx context.Context, input meals.CopyMealInput) ([]meals.MealDTO, error)
}

type service struct {
	store redis.ClipboardStore
	meals mealCopier
	ttl   time.Duration
}

// NewService constructs a clipboard service instance.
func NewService(store redis.ClipboardStore, mealService mealCopier, ttl time.Duration) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("clipboard store required")
	}
	if mealService == nil {
		return nil, fmt.Errorf("meal service required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &service{
		store: store,
		meals: mealService,
		ttl:   ttl,
	}, nil
}

// Copy remembers the (date, slot) key for the session after checking the
// record exists.
func (s *service) Copy(ctx context.Context, sessionID string, date types.Date, slot enums.MealSlot) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if _, err := s.meals.GetMeal(ctx, date, slot); err != nil {
		return err
	}

	raw, err := json.Marshal(Payload{Date: date, Slot: slot})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode clipboard payload")
	}
	if err := s.store.SetClipboard(ctx, sessionID, raw, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: store clipboard")
	}
	return nil
}

// Paste replays the copied record onto the target dates.
func (s *service) Paste(ctx context.Context, sessionID string, targets []types.Date) ([]meals.MealDTO, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}

	raw, err := s.store.GetClipboard(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "clipboard is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load clipboard")
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode clipboard payload")
	}

	return s.meals.CopyMeal(ctx, meals.CopyMealInput{
		SourceDate: payload.Date,
		Slot:       payload.Slot,
		Targets:    targets,
	})
}

// Clear drops the session's clipboard.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if err := s.store.DeleteClipboard(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: clear clipboard")
	}
	return nil
}
