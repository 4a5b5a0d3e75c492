package recipe

import (
	"time"

	"github.com/google/uuid"
)

// RecipeSavedEvent is raised when a recipe is saved with its frozen cost
type RecipeSavedEvent struct {
	RecipeID  uuid.UUID
	Name      string
	TotalCost float64
	SavedAt   time.Time
}

func (e RecipeSavedEvent) EventName() string {
	return "recipe.saved"
}

func (e RecipeSavedEvent) OccurredAt() time.Time {
	return e.SavedAt
}

// BrewLogUpdatedEvent is raised when the brew log of a recipe changes
type BrewLogUpdatedEvent struct {
	RecipeID  uuid.UUID
	UpdatedAt time.Time
}

func (e BrewLogUpdatedEvent) EventName() string {
	return "recipe.log.updated"
}

func (e BrewLogUpdatedEvent) OccurredAt() time.Time {
	return e.UpdatedAt
}

// RecipeDeletedEvent is raised when a recipe is removed
type RecipeDeletedEvent struct {
	RecipeID  uuid.UUID
	DeletedAt time.Time
}

func (e RecipeDeletedEvent) EventName() string {
	return "recipe.deleted"
}

func (e RecipeDeletedEvent) OccurredAt() time.Time {
	return e.DeletedAt
}
