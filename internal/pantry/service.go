package pantry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hyejinmoon/babysteps-backend/internal/estimator"
	"github.com/hyejinmoon/babysteps-backend/pkg/config"
	"github.com/hyejinmoon/babysteps-backend/pkg/db"
	"github.com/hyejinmoon/babysteps-backend/pkg/db/models"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	pkgerrors "github.com/hyejinmoon/babysteps-backend/pkg/errors"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

// Service exposes pantry management operations.
type Service interface {
	AddItem(ctx context.Context, input AddItemInput) (*ItemDTO, error)
	ListItems(ctx context.Context, query ListQuery) ([]ItemDTO, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*ItemDTO, error)
	SetQuantity(ctx context.Context, id uuid.UUID, value int) (*ItemDTO, error)
	Rename(ctx context.Context, id uuid.UUID, newName string) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// AddItemInput holds the validated payload to create a pantry item.
type AddItemInput struct {
	Name         string
	Category     *enums.FoodCategory
	Quantity     int
	DailyUseRate *decimal.Decimal
}

// ListQuery selects the estimate policy and the reference day for the
// projections attached to each row.
type ListQuery struct {
	Policy string
	Today  types.Date
}

type mealHistory interface {
	LoadSnapshots(ctx context.Context, from, to types.Date) ([]estimator.MealSnapshot, error)
}

type service struct {
	repo          *Repository
	meals         mealHistory
	est           estimator.Estimator
	defaultPolicy string
}

// NewService constructs a pantry service instance.
func NewService(repo *Repository, meals mealHistory, est estimator.Estimator, defaultPolicy string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pantry repository required")
	}
	if meals == nil {
		return nil, fmt.Errorf("meal history required")
	}
	if defaultPolicy == "" {
		defaultPolicy = config.PolicyUsageAverage
	}
	return &service{
		repo:          repo,
		meals:         meals,
		est:           est,
		defaultPolicy: defaultPolicy,
	}, nil
}

// AddItem creates a pantry item, rejecting empty or duplicate names.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (*ItemDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if input.DailyUseRate != nil && input.DailyUseRate.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily_use_rate must be non-negative")
	}

	item := &models.PantryItem{
		Name:         input.Name,
		Category:     input.Category,
		Quantity:     input.Quantity,
		DailyUseRate: input.DailyUseRate,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_pantry_items_name") || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert pantry item")
	}
	return NewItemDTO(created, nil), nil
}

// ListItems returns every pantry row ordered by name, each decorated with an
// exhaustion estimate under the requested (or default) policy.
func (s *service) ListItems(ctx context.Context, query ListQuery) ([]ItemDTO, error) {
	policy, err := s.resolvePolicy(query.Policy)
	if err != nil {
		return nil, err
	}
	today := query.Today
	if today.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference date required")
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list pantry items")
	}

	// One snapshot load covers both policies: trailing history for the
	// average, forward horizon for the planned scan.
	from := today.AddDays(-(s.est.HistoryDays - 1))
	to := today.AddDays(s.est.PlanHorizonDays)
	snapshots, err := s.meals.LoadSnapshots(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load meal snapshots")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		item := &items[i]
		dtos = append(dtos, *NewItemDTO(item, s.estimateFor(item, snapshots, today, policy)))
	}
	return dtos, nil
}

func (s *service) estimateFor(item *models.PantryItem, snapshots []estimator.MealSnapshot, today types.Date, policy string) *EstimateDTO {
	switch policy {
	case config.PolicyPlannedScan:
		dto := &EstimateDTO{
			Policy:   policy,
			Severity: enums.EstimateSeverityNormal.String(),
			Display:  "사용 계획 없음",
		}
		if last, ok := s.est.LastPlannedUse(item.Name, snapshots, today); ok {
			lastCopy := last
			dto.LastPlannedUse = &lastCopy
			dto.Display = fmt.Sprintf("%s까지 사용 예정", last)
		}
		return dto
	default:
		var est estimator.Estimate
		if item.DailyUseRate != nil {
			// A declared rate wins over history, matching the
			// fixed-rate planner variant.
			est = s.est.FixedRate(item.Quantity, *item.DailyUseRate)
		} else {
			est = s.est.UsageAverage(item.Name, item.Quantity, snapshots, today)
		}
		dto := &EstimateDTO{
			Policy:   policy,
			Severity: est.Severity.String(),
			Display:  est.Display,
		}
		if est.HasEstimate {
			days := est.DaysLeft
			dto.DaysLeft = &days
		}
		return dto
	}
}

func (s *service) resolvePolicy(requested string) (string, error) {
	if requested == "" {
		return s.defaultPolicy, nil
	}
	switch requested {
	case config.PolicyUsageAverage, config.PolicyPlannedScan:
		return requested, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown estimate policy").
			WithDetails(map[string]any{"policy": requested})
	}
}

// AdjustQuantity applies a delta, clamping the result at zero.
func (s *service) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*ItemDTO, error) {
	if err := s.repo.AdjustQuantity(ctx, id, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pantry item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: adjust quantity")
	}
	return s.loadDTO(ctx, id)
}

// SetQuantity writes an absolute quantity; negatives are rejected.
func (s *service) SetQuantity(ctx context.Context, id uuid.UUID, value int) (*ItemDTO, error) {
	if value < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}

	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Quantity = value
	if _, err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set quantity")
	}
	return NewItemDTO(item, nil), nil
}

// Rename changes the item's name, refusing collisions with any other item
// and leaving both rows untouched on failure.
func (s *service) Rename(ctx context.Context, id uuid.UUID, newName string) (*ItemDTO, error) {
	if newName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Name == newName {
		return NewItemDTO(item, nil), nil
	}

	existing, err := s.repo.FindByName(ctx, newName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check name collision")
	}
	if existing != nil && existing.ID != item.ID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "name already in use")
	}

	item.Name = newName
	if _, err := s.repo.Update(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "idx_pantry_items_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rename pantry item")
	}
	return NewItemDTO(item, nil), nil
}

// DeleteItem removes the pantry row only. Meal history keeps its free-text
// references to the name.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pantry item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete pantry item")
	}
	return nil
}

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.PantryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pantry item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load pantry item")
	}
	return item, nil
}

func (s *service) loadDTO(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewItemDTO(item, nil), nil
}
