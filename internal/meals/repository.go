package meals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hyejinmoon/babysteps-backend/pkg/db/models"
	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

// Repository wires together meal-record persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByKey loads the record for the (date, slot) business key.
func (r *Repository) FindByKey(ctx context.Context, date types.Date, slot enums.MealSlot) (*models.MealRecord, error) {
	var record models.MealRecord
	if err := r.db.WithContext(ctx).
		First(&record, "date = ? AND slot = ?", date, slot).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert writes the record under its (date, slot) key. An existing row keeps
// its ID and creation time; every other field is replaced by the new save.
func (r *Repository) Upsert(ctx context.Context, record *models.MealRecord) (*models.MealRecord, error) {
	existing, err := r.FindByKey(ctx, record.Date, record.Slot)
	switch {
	case err == nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
			return nil, err
		}
		return record, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
			return nil, err
		}
		return record, nil
	default:
		return nil, err
	}
}

// ListRange returns all records with from <= date <= to, ordered by day then
// slot for stable calendar rendering.
func (r *Repository) ListRange(ctx context.Context, from, to types.Date) ([]models.MealRecord, error) {
	var records []models.MealRecord
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, slot ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
