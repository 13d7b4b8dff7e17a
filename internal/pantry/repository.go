package pantry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hyejinmoon/babysteps-backend/pkg/db/models"
)

// Repository wires together pantry persistence helpers.
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

// Create inserts the item. The caller assigns the ID.
func (r *Repository) Create(ctx context.Context, item *models.PantryItem) (*models.PantryItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads one item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PantryItem, error) {
	var item models.PantryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByName loads one item by its exact name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.PantryItem, error) {
	var item models.PantryItem
	if err := r.db.WithContext(ctx).First(&item, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns all items ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.PantryItem, error) {
	var items []models.PantryItem
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists all columns of the item.
func (r *Repository) Update(ctx context.Context, item *models.PantryItem) (*models.PantryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the item. Meal records referencing its name are left alone;
// they hold free-text snapshots, not foreign keys.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PantryItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustQuantity applies the delta in a single UPDATE, clamped at zero so the
// quantity invariant holds even if two writes race.
func (r *Repository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.PantryItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr(
			"CASE WHEN quantity + ? < 0 THEN 0 ELSE quantity + ? END", delta, delta,
		))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementByName lowers a named item's quantity, clamped at zero. Names that
// no longer exist in the pantry are ignored so historical meal logs can
// reference deleted items. Pass a transaction to join a wider write.
func (r *Repository) DecrementByName(ctx context.Context, tx *gorm.DB, name string, count int) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).
		Model(&models.PantryItem{}).
		Where("name = ?", name).
		Update("quantity", gorm.Expr(
			"CASE WHEN quantity - ? < 0 THEN 0 ELSE quantity - ? END", count, count,
		)).Error
}
