package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	"gorm.io/gorm"
)

// InventoryRepository implements the inventory ledger using GORM
type InventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) outbound.InventoryRepository {
	return &InventoryRepository{db: db}
}

// Create inserts a new item
func (r *InventoryRepository) Create(ctx context.Context, item inventory.Item) error {
	return r.db.WithContext(ctx).Create(ItemToModel(item)).Error
}

// Update overwrites an existing item in place
func (r *InventoryRepository) Update(ctx context.Context, item inventory.Item) error {
	model := ItemToModel(item)

	result := r.db.WithContext(ctx).
		Model(&InventoryItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":     model.Name,
			"qty":      model.Qty,
			"unit":     model.Unit,
			"price":    model.Price,
			"category": model.Category,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return inventory.ErrItemNotFound
	}

	return nil
}

// Delete removes an item
func (r *InventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&InventoryItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return inventory.ErrItemNotFound
	}

	return nil
}

// DeleteAll clears the ledger
func (r *InventoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&InventoryItemModel{})
	return result.RowsAffected, result.Error
}

// FindByID finds an item by ID
func (r *InventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (inventory.Item, error) {
	var model InventoryItemModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return inventory.Item{}, inventory.ErrItemNotFound
		}
		return inventory.Item{}, result.Error
	}

	return ModelToItem(&model), nil
}

// Snapshot returns every item ordered by category, name and insertion time.
// The ordering decides which of two same-named items the reconciler uses.
func (r *InventoryRepository) Snapshot(ctx context.Context) (inventory.Snapshot, error) {
	var models []InventoryItemModel

	result := r.db.WithContext(ctx).
		Order("category").
		Order("name").
		Order("created_at").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	snapshot := make(inventory.Snapshot, len(models))
	for i := range models {
		snapshot[i] = ModelToItem(&models[i])
	}

	return snapshot, nil
}
