// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/costing"
	"github.com/meadcraft/meadery/internal/domain/recipe"
)

// RecipeService defines the use cases for recipe management
type RecipeService interface {
	// Commands
	GenerateRecipe(ctx context.Context, cmd GenerateRecipeCommand) (*DraftDTO, error)
	SaveRecipe(ctx context.Context, cmd SaveRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error
	UpdateBrewLog(ctx context.Context, recipeID uuid.UUID, log recipe.LogData) (*RecipeDTO, error)

	// Queries
	GetRecipe(ctx context.Context, recipeID uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, params PaginationParams) (*RecipeList, error)
	ShoppingList(ctx context.Context, recipeID uuid.UUID) (*ShoppingListDTO, error)
	CombinedShoppingList(ctx context.Context, recipeIDs []uuid.UUID) (*CombinedShoppingListDTO, error)
	RecipeCost(ctx context.Context, recipeID uuid.UUID) (*RecipeCostDTO, error)
}

// GenerateRecipeCommand for AI recipe generation
type GenerateRecipeCommand struct {
	Style           string   `json:"style" validate:"required,max=100"`
	BatchSizeLiters float64  `json:"batch_size_liters" validate:"omitempty,gt=0,lte=1000"`
	Sweetness       string   `json:"sweetness" validate:"omitempty,oneof=dry semi-sweet sweet dessert"`
	TargetABV       float64  `json:"target_abv" validate:"omitempty,gt=0,lte=25"`
	Ingredients     []string `json:"ingredients" validate:"max=30,dive,ingredient"`
	Notes           string   `json:"notes" validate:"max=2000"`
}

// SaveRecipeCommand persists either a cached draft or caller-supplied Markdown.
type SaveRecipeCommand struct {
	DraftID         string  `json:"draft_id" validate:"omitempty,uuid"`
	Markdown        string  `json:"markdown" validate:"required_without=DraftID"`
	Name            string  `json:"name" validate:"required,max=200"`
	BatchSizeLiters float64 `json:"batch_size_liters" validate:"omitempty,gt=0,lte=1000"`
}

// PaginationParams for paginated queries
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the page
func (p PaginationParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// DraftDTO is a generated recipe that has not been saved yet
type DraftDTO struct {
	ID            string                  `json:"id"`
	Markdown      string                  `json:"markdown"`
	Ingredients   []recipe.IngredientLine `json:"ingredients"`
	EstimatedCost float64                 `json:"estimated_cost"`
	Generator     string                  `json:"generator"`
	ExpiresAt     time.Time               `json:"expires_at"`
}

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	ID              uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	Markdown        string                  `json:"markdown"`
	BatchSizeLiters float64                 `json:"batch_size_liters"`
	TotalCost       float64                 `json:"total_cost"`
	Ingredients     []recipe.IngredientLine `json:"ingredients"`
	Log             recipe.LogData          `json:"log"`
	CreatedAt       string                  `json:"created_at"`
	UpdatedAt       string                  `json:"updated_at"`
}

// RecipeSummaryDTO is the list view of a recipe
type RecipeSummaryDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	BatchSizeLiters float64   `json:"batch_size_liters"`
	TotalCost       float64   `json:"total_cost"`
	CreatedAt       string    `json:"created_at"`
}

// RecipeList for paginated results
type RecipeList struct {
	Recipes    []RecipeSummaryDTO `json:"recipes"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// ShoppingListDTO lists what is still needed to brew a recipe
type ShoppingListDTO struct {
	RecipeID   uuid.UUID                   `json:"recipe_id"`
	RecipeName string                      `json:"recipe_name"`
	Entries    []costing.ShoppingListEntry `json:"entries"`
}

// CombinedShoppingListEntry is one shortfall attributed to its recipe
type CombinedShoppingListEntry struct {
	costing.ShoppingListEntry
	RecipeID   uuid.UUID `json:"recipe_id"`
	RecipeName string    `json:"recipe_name"`
}

// CombinedShoppingListDTO concatenates shortfalls across recipes without merging
type CombinedShoppingListDTO struct {
	Entries []CombinedShoppingListEntry `json:"entries"`
}

// RecipeCostDTO compares the cost frozen at save time with today's inventory
type RecipeCostDTO struct {
	RecipeID    uuid.UUID          `json:"recipe_id"`
	SavedCost   float64            `json:"saved_cost"`
	CurrentCost float64            `json:"current_cost"`
	Breakdown   []costing.LineCost `json:"breakdown"`
}
