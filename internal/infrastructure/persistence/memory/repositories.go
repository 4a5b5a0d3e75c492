package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"github.com/meadcraft/meadery/internal/domain/settings"
	"github.com/meadcraft/meadery/internal/ports/outbound"
)

// RecipeRepository keeps recipes in a map
type RecipeRepository struct {
	mu      sync.RWMutex
	recipes map[uuid.UUID]*recipe.Recipe
}

// NewRecipeRepository creates an empty recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{recipes: make(map[uuid.UUID]*recipe.Recipe)}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// Create stores a copy of the recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[rec.ID()] = clone(rec)
	return nil
}

// Update replaces a stored recipe
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[rec.ID()]; !ok {
		return recipe.ErrRecipeNotFound
	}
	r.recipes[rec.ID()] = clone(rec)
	return nil
}

// Delete removes a recipe
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[id]; !ok {
		return recipe.ErrRecipeNotFound
	}
	delete(r.recipes, id)
	return nil
}

// FindByID returns a copy of the stored recipe
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recipes[id]
	if !ok {
		return nil, recipe.ErrRecipeNotFound
	}
	return clone(rec), nil
}

// List returns recipes newest first
func (r *RecipeRepository) List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int, error) {
	r.mu.RLock()
	all := make([]*recipe.Recipe, 0, len(r.recipes))
	for _, rec := range r.recipes {
		all = append(all, clone(rec))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt().Equal(all[j].CreatedAt()) {
			return all[i].ID().String() < all[j].ID().String()
		}
		return all[i].CreatedAt().After(all[j].CreatedAt())
	})

	total := len(all)
	if offset >= total {
		return []*recipe.Recipe{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func clone(r *recipe.Recipe) *recipe.Recipe {
	return recipe.Reconstitute(r.ID(), r.Name(), r.Markdown(), r.CreatedAt(), r.UpdatedAt(), r.BatchSize(), r.TotalCost(), r.LogData())
}

// InventoryRepository keeps the ledger in insertion order
type InventoryRepository struct {
	mu    sync.RWMutex
	items []inventory.Item
}

// NewInventoryRepository creates a ledger pre-filled with items
func NewInventoryRepository(items ...inventory.Item) *InventoryRepository {
	return &InventoryRepository{items: append([]inventory.Item{}, items...)}
}

var _ outbound.InventoryRepository = (*InventoryRepository)(nil)

// Create appends an item
func (r *InventoryRepository) Create(ctx context.Context, item inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	return nil
}

// Update replaces an item in place
func (r *InventoryRepository) Update(ctx context.Context, item inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = item
			return nil
		}
	}
	return inventory.ErrItemNotFound
}

// Delete removes an item
func (r *InventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return inventory.ErrItemNotFound
}

// DeleteAll clears the ledger
func (r *InventoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := int64(len(r.items))
	r.items = nil
	return removed, nil
}

// FindByID finds an item by ID
func (r *InventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return inventory.Item{}, inventory.ErrItemNotFound
}

// Snapshot returns a copy ordered by category then name, stable on insertion
func (r *InventoryRepository) Snapshot(ctx context.Context) (inventory.Snapshot, error) {
	r.mu.RLock()
	snapshot := inventory.Snapshot(r.items).Clone()
	r.mu.RUnlock()

	sort.SliceStable(snapshot, func(i, j int) bool {
		if snapshot[i].Category != snapshot[j].Category {
			return snapshot[i].Category < snapshot[j].Category
		}
		return snapshot[i].Name < snapshot[j].Name
	})
	return snapshot, nil
}

// SettingsRepository holds the settings in memory
type SettingsRepository struct {
	mu     sync.RWMutex
	stored *settings.Settings
}

// NewSettingsRepository creates an empty settings repository
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

var _ outbound.SettingsRepository = (*SettingsRepository)(nil)

// Get returns the stored settings, if any
func (r *SettingsRepository) Get(ctx context.Context) (settings.Settings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stored == nil {
		return settings.Settings{}, false, nil
	}
	return *r.stored, true, nil
}

// Save replaces the stored settings
func (r *SettingsRepository) Save(ctx context.Context, s settings.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = &s
	return nil
}
