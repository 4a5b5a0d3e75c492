// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"github.com/meadcraft/meadery/internal/domain/settings"
	"github.com/meadcraft/meadery/internal/domain/shared"
)

// ErrCacheMiss is returned by CacheRepository.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// RecipeRepository persists saved recipes.
// FindByID, Update and Delete return recipe.ErrRecipeNotFound for unknown IDs.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *recipe.Recipe) error
	Update(ctx context.Context, recipe *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)

	// List returns recipes newest first together with the total count.
	List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int, error)
}

// InventoryRepository is the inventory ledger.
// FindByID, Update and Delete return inventory.ErrItemNotFound for unknown IDs.
type InventoryRepository interface {
	Create(ctx context.Context, item inventory.Item) error
	Update(ctx context.Context, item inventory.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (inventory.Item, error)

	// Snapshot returns every item ordered by category then name.
	// The returned slice is owned by the caller.
	Snapshot(ctx context.Context) (inventory.Snapshot, error)
}

// SettingsRepository stores the single settings row.
type SettingsRepository interface {
	// Get returns found=false when nothing was stored yet.
	Get(ctx context.Context) (s settings.Settings, found bool, err error)
	Save(ctx context.Context, s settings.Settings) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RecipeGenerator turns a generation request into recipe Markdown.
type RecipeGenerator interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// GenerationRequest describes the mead the caller wants.
type GenerationRequest struct {
	Style           string
	BatchSizeLiters float64
	Sweetness       string
	TargetABV       float64
	Ingredients     []string
	Notes           string

	// OnHand lists inventory item names the generator should prefer.
	OnHand []string
}

// EventPublisher fans domain events out to interested handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent) error
}
