// Package recipe contains the saved mead recipe aggregate and the parser for
// the ingredient table embedded in generated recipe markdown.
package recipe

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/shared"
)

// Recipe is a saved mead recipe.
//
// The total cost is computed once, against the inventory as it stood at save
// time, and is never recalculated afterwards. Two recipes saved against a
// changing inventory are therefore not directly cost-comparable.
type Recipe struct {
	id        uuid.UUID
	name      string
	markdown  string
	createdAt time.Time
	updatedAt time.Time
	batchSize float64
	totalCost float64
	logData   LogData

	events []shared.DomainEvent
}

// NewRecipe creates a recipe from generated markdown and its save-time cost.
func NewRecipe(name, markdown string, batchSize, totalCost float64) (*Recipe, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrMarkdownRequired
	}
	if batchSize <= 0 || math.IsNaN(batchSize) || math.IsInf(batchSize, 0) {
		return nil, ErrInvalidBatchSize
	}
	if totalCost < 0 || math.IsNaN(totalCost) || math.IsInf(totalCost, 0) {
		return nil, ErrInvalidTotalCost
	}

	now := time.Now().UTC()
	r := &Recipe{
		id:        uuid.New(),
		name:      name,
		markdown:  markdown,
		createdAt: now,
		updatedAt: now,
		batchSize: batchSize,
		totalCost: totalCost,
		logData:   NewLogData(),
	}

	r.addEvent(RecipeSavedEvent{
		RecipeID:  r.id,
		Name:      name,
		TotalCost: totalCost,
		SavedAt:   now,
	})

	return r, nil
}

// Reconstitute rebuilds a recipe from storage without raising events.
func Reconstitute(id uuid.UUID, name, markdown string, createdAt, updatedAt time.Time, batchSize, totalCost float64, log LogData) *Recipe {
	return &Recipe{
		id:        id,
		name:      name,
		markdown:  markdown,
		createdAt: createdAt,
		updatedAt: updatedAt,
		batchSize: batchSize,
		totalCost: totalCost,
		logData:   log,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// Name returns the recipe name
func (r *Recipe) Name() string {
	return r.name
}

// Markdown returns the original generated markdown
func (r *Recipe) Markdown() string {
	return r.markdown
}

// CreatedAt returns when the recipe was saved
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the brew log last changed
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// BatchSize returns the batch size in liters
func (r *Recipe) BatchSize() float64 {
	return r.batchSize
}

// TotalCost returns the cost frozen at save time
func (r *Recipe) TotalCost() float64 {
	return r.totalCost
}

// LogData returns the brew log
func (r *Recipe) LogData() LogData {
	return r.logData
}

// Ingredients re-parses the stored markdown. The table is never stored on
// its own so shopping lists always reflect the original text.
func (r *Recipe) Ingredients() []IngredientLine {
	return ExtractIngredients(r.markdown)
}

// UpdateLog replaces the brew log. The total cost is left untouched.
func (r *Recipe) UpdateLog(log LogData) error {
	if err := log.Validate(); err != nil {
		return err
	}
	r.logData = log
	r.updatedAt = time.Now().UTC()

	r.addEvent(BrewLogUpdatedEvent{
		RecipeID:  r.id,
		UpdatedAt: r.updatedAt,
	})
	return nil
}

// MarkDeleted records the deletion event for dispatch.
func (r *Recipe) MarkDeleted() {
	r.addEvent(RecipeDeletedEvent{
		RecipeID:  r.id,
		DeletedAt: time.Now().UTC(),
	})
}

func (r *Recipe) addEvent(event shared.DomainEvent) {
	r.events = append(r.events, event)
}

// Events returns and clears pending domain events
func (r *Recipe) Events() []shared.DomainEvent {
	events := r.events
	r.events = []shared.DomainEvent{}
	return events
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > 200 {
		return ErrNameTooLong
	}
	return nil
}
