package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/settings"
)

// InventoryService defines the inventory ledger use cases
type InventoryService interface {
	AddItem(ctx context.Context, cmd InventoryItemCommand) (*inventory.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, cmd InventoryItemCommand) (*inventory.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ClearInventory(ctx context.Context) (int64, error)
	GetItem(ctx context.Context, id uuid.UUID) (*inventory.Item, error)
	ListItems(ctx context.Context) (inventory.Snapshot, error)
}

// InventoryItemCommand carries the editable fields of an inventory item
type InventoryItemCommand struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Qty      float64 `json:"qty" validate:"gte=0"`
	Unit     string  `json:"unit" validate:"required,max=32"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category" validate:"required,inventory_category"`
}

// SettingsService defines the settings use cases
type SettingsService interface {
	GetSettings(ctx context.Context) (*settings.Settings, error)
	UpdateSettings(ctx context.Context, cmd UpdateSettingsCommand) (*settings.Settings, error)
}

// UpdateSettingsCommand replaces the stored settings
type UpdateSettingsCommand struct {
	CurrencySymbol         string  `json:"currency_symbol" validate:"required,max=8"`
	DefaultBatchSizeLiters float64 `json:"default_batch_size_liters" validate:"gt=0,lte=1000"`
}
