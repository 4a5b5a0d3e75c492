// Package costing reconciles a recipe's ingredient table against an
// inventory snapshot, producing either a total cost or a shopping list.
//
// Both operations are pure: they read the snapshot they are handed, never
// write back to it, and never fail. Missing tables, unmatched names and
// mismatched units degrade to zero cost or full shortfall so a recipe can
// always be saved.
//
// The two paths treat units differently on purpose. The cost path converts
// between kg and g only; the shopping list compares quantities at face value.
// Stored recipe costs depend on this behaviour, so neither path is widened.
package costing

import (
	"math"
	"strings"

	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/recipe"
)

// ShoppingListEntry is an ingredient still needed beyond what is on hand.
type ShoppingListEntry struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// LineCost is the costing outcome for one ingredient line.
type LineCost struct {
	Line      recipe.IngredientLine `json:"line"`
	Matched   bool                  `json:"matched"`
	ItemUnit  string                `json:"item_unit,omitempty"`
	UnitPrice float64               `json:"unit_price"`
	Cost      float64               `json:"cost"`
}

// Breakdown prices each line against the snapshot, in table order.
// Unmatched lines are reported with zero cost, as are lines whose price
// overflows to a non-finite value.
func Breakdown(lines []recipe.IngredientLine, snapshot inventory.Snapshot) []LineCost {
	idx := snapshot.Index()
	out := make([]LineCost, 0, len(lines))
	for _, line := range lines {
		item, ok := idx[strings.ToLower(line.Name)]
		if !ok {
			out = append(out, LineCost{Line: line})
			continue
		}
		unitPrice := ConvertUnitPrice(item.UnitPrice(), item.Unit, line.Unit)
		cost := line.Quantity * unitPrice
		if !finite(unitPrice) || !finite(cost) {
			unitPrice, cost = 0, 0
		}
		out = append(out, LineCost{
			Line:      line,
			Matched:   true,
			ItemUnit:  item.Unit,
			UnitPrice: unitPrice,
			Cost:      cost,
		})
	}
	return out
}

// TotalCost sums the cost of every matched line. A line that would push the
// sum past the float64 range is left out, so the result is always finite.
//
// batchSize is accepted for the caller's convenience but does not scale the
// result: generated quantities are already sized for the recipe's batch.
func TotalCost(lines []recipe.IngredientLine, snapshot inventory.Snapshot, batchSize float64) float64 {
	_ = batchSize

	var total float64
	for _, lc := range Breakdown(lines, snapshot) {
		if next := total + lc.Cost; finite(next) {
			total = next
		}
	}
	return total
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ConvertUnitPrice re-expresses a price per inventory unit as a price per
// recipe unit. Only kg and g are converted; any other pair is treated as the
// same unit.
func ConvertUnitPrice(unitPrice float64, inventoryUnit, recipeUnit string) float64 {
	switch {
	case inventoryUnit == "kg" && recipeUnit == "g":
		return unitPrice / 1000
	case inventoryUnit == "g" && recipeUnit == "kg":
		return unitPrice * 1000
	default:
		return unitPrice
	}
}

// ShoppingList returns what must be bought to brew lines from the snapshot,
// in table order. Unmatched lines are needed in full, short lines by the
// difference, and lines covered by stock are omitted. Quantities are compared
// without unit conversion.
func ShoppingList(lines []recipe.IngredientLine, snapshot inventory.Snapshot) []ShoppingListEntry {
	idx := snapshot.Index()
	out := make([]ShoppingListEntry, 0, len(lines))
	for _, line := range lines {
		item, ok := idx[strings.ToLower(line.Name)]
		switch {
		case !ok:
			out = append(out, ShoppingListEntry{Name: line.Name, Quantity: line.Quantity, Unit: line.Unit})
		case item.Qty < line.Quantity:
			out = append(out, ShoppingListEntry{Name: line.Name, Quantity: line.Quantity - item.Qty, Unit: line.Unit})
		}
	}
	return out
}
