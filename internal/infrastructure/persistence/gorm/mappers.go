package gorm

import (
	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"github.com/meadcraft/meadery/internal/domain/settings"
)

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:              r.ID(),
		Name:            r.Name(),
		Markdown:        r.Markdown(),
		BatchSizeLiters: r.BatchSize(),
		TotalCost:       r.TotalCost(),
		LogData:         BrewLogField(r.LogData()),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(model *RecipeModel) *recipe.Recipe {
	return recipe.Reconstitute(
		model.ID,
		model.Name,
		model.Markdown,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
		model.BatchSizeLiters,
		model.TotalCost,
		recipe.LogData(model.LogData),
	)
}

// ItemToModel converts an inventory item to a GORM model
func ItemToModel(item inventory.Item) *InventoryItemModel {
	return &InventoryItemModel{
		ID:       item.ID,
		Name:     item.Name,
		Qty:      item.Qty,
		Unit:     item.Unit,
		Price:    item.Price,
		Category: string(item.Category),
	}
}

// ModelToItem converts a GORM model to an inventory item
func ModelToItem(model *InventoryItemModel) inventory.Item {
	return inventory.Item{
		ID:       model.ID,
		Name:     model.Name,
		Qty:      model.Qty,
		Unit:     model.Unit,
		Price:    model.Price,
		Category: inventory.Category(model.Category),
	}
}

// SettingsToModel converts settings to the single settings row
func SettingsToModel(s settings.Settings) *SettingsModel {
	return &SettingsModel{
		ID:                     settingsRowID,
		CurrencySymbol:         s.CurrencySymbol,
		DefaultBatchSizeLiters: s.DefaultBatchSizeLiters,
	}
}

// ModelToSettings converts the settings row to domain settings
func ModelToSettings(model *SettingsModel) settings.Settings {
	return settings.Settings{
		CurrencySymbol:         model.CurrencySymbol,
		DefaultBatchSizeLiters: model.DefaultBatchSizeLiters,
	}
}
