// Package inventory models the ingredient stock a brewer has on hand.
package inventory

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Category groups inventory items
type Category string

const (
	CategoryHoney       Category = "Honey"
	CategoryYeast       Category = "Yeast"
	CategoryNutrient    Category = "Nutrient"
	CategoryMaltExtract Category = "Malt Extract"
	CategoryFruit       Category = "Fruit"
	CategorySpice       Category = "Spice"
	CategoryAdjunct     Category = "Adjunct"
	CategoryChemical    Category = "Chemical"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryHoney,
		CategoryYeast,
		CategoryNutrient,
		CategoryMaltExtract,
		CategoryFruit,
		CategorySpice,
		CategoryAdjunct,
		CategoryChemical,
	}
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Item is one line of the inventory ledger.
// Price is what the whole Qty on hand cost, not a unit price.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Qty      float64   `json:"qty"`
	Unit     string    `json:"unit"`
	Price    float64   `json:"price"`
	Category Category  `json:"category"`
}

// NewItem creates a validated inventory item with a fresh identifier.
func NewItem(name string, qty float64, unit string, price float64, category Category) (Item, error) {
	item := Item{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(name),
		Qty:      qty,
		Unit:     strings.TrimSpace(unit),
		Price:    price,
		Category: category,
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Validate checks the item's fields
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(i.Unit) == "" {
		return ErrUnitRequired
	}
	if i.Qty < 0 || math.IsNaN(i.Qty) || math.IsInf(i.Qty, 0) {
		return ErrInvalidQuantity
	}
	if i.Price < 0 || math.IsNaN(i.Price) || math.IsInf(i.Price, 0) {
		return ErrInvalidPrice
	}
	if !i.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// UnitPrice returns the cost of one unit of the item's own unit.
// An item with nothing on hand has no meaningful unit price and reports 0.
func (i Item) UnitPrice() float64 {
	if i.Qty == 0 {
		return 0
	}
	return i.Price / i.Qty
}
