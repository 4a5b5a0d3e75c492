package costing

import (
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func item(name string, qty float64, unit string, price float64) inventory.Item {
	return inventory.Item{
		ID:       uuid.New(),
		Name:     name,
		Qty:      qty,
		Unit:     unit,
		Price:    price,
		Category: inventory.CategoryHoney,
	}
}

func line(name string, qty float64, unit string) recipe.IngredientLine {
	return recipe.IngredientLine{Name: name, Quantity: qty, Unit: unit}
}

func TestTotalCost_NoTable(t *testing.T) {
	snapshot := inventory.Snapshot{item("Honey", 1, "kg", 10)}
	lines := recipe.ExtractIngredients("No table in this recipe at all.")

	assert.Zero(t, TotalCost(lines, snapshot, 5))
	assert.Empty(t, ShoppingList(lines, snapshot))
}

func TestTotalCost_KilogramInventoryGramRecipe(t *testing.T) {
	snapshot := inventory.Snapshot{item("Honey", 1, "kg", 10)}
	lines := []recipe.IngredientLine{line("Honey", 500, "g")}

	assert.InDelta(t, 5.0, TotalCost(lines, snapshot, 5), 1e-9)
}

func TestTotalCost_GramInventoryKilogramRecipe(t *testing.T) {
	snapshot := inventory.Snapshot{item("Honey", 1000, "g", 12)}
	lines := []recipe.IngredientLine{line("Honey", 1.5, "kg")}

	assert.InDelta(t, 18.0, TotalCost(lines, snapshot, 5), 1e-9)
}

func TestTotalCost_OtherUnitMismatchesAreNotConverted(t *testing.T) {
	tests := []struct {
		name     string
		invUnit  string
		lineUnit string
	}{
		{"liters vs milliliters", "L", "ml"},
		{"ounces vs grams", "oz", "g"},
		{"uppercase KG vs g", "KG", "g"},
		{"same unit", "g", "g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := inventory.Snapshot{item("Water", 10, tt.invUnit, 5)}
			lines := []recipe.IngredientLine{line("Water", 4, tt.lineUnit)}

			assert.InDelta(t, 2.0, TotalCost(lines, snapshot, 5), 1e-9)
		})
	}
}

func TestTotalCost_CaseInsensitiveExactMatch(t *testing.T) {
	snapshot := inventory.Snapshot{
		item("orange blossom honey", 2, "kg", 30),
		item("Yeast", 10, "g", 5),
	}
	lines := []recipe.IngredientLine{
		line("Orange Blossom HONEY", 1, "kg"),
		line("Yeasts", 5, "g"),
		line("Orange Blossom", 1, "kg"),
	}

	assert.InDelta(t, 15.0, TotalCost(lines, snapshot, 5), 1e-9)
}

func TestTotalCost_UnmatchedContributesZero(t *testing.T) {
	snapshot := inventory.Snapshot{item("Honey", 1, "kg", 10)}
	lines := []recipe.IngredientLine{
		line("Unobtainium", 1, "g"),
		line("Honey", 2, "kg"),
	}

	assert.InDelta(t, 20.0, TotalCost(lines, snapshot, 5), 1e-9)
}

func TestTotalCost_BatchSizeDoesNotScale(t *testing.T) {
	snapshot := inventory.Snapshot{item("Honey", 1, "kg", 10)}
	lines := []recipe.IngredientLine{line("Honey", 2, "kg")}

	assert.Equal(t, TotalCost(lines, snapshot, 1), TotalCost(lines, snapshot, 50))
}

func TestTotalCost_ZeroQuantityItemCostsNothing(t *testing.T) {
	snapshot := inventory.Snapshot{item("Honey", 0, "kg", 10)}
	lines := []recipe.IngredientLine{line("Honey", 2, "kg")}

	assert.Zero(t, TotalCost(lines, snapshot, 5))
}

func TestTotalCost_FirstDuplicateWins(t *testing.T) {
	snapshot := inventory.Snapshot{
		item("Honey", 1, "kg", 10),
		item("HONEY", 1, "kg", 100),
	}
	lines := []recipe.IngredientLine{line("honey", 1, "kg")}

	assert.InDelta(t, 10.0, TotalCost(lines, snapshot, 5), 1e-9)
}

func TestBreakdown(t *testing.T) {
	snapshot := inventory.Snapshot{item("Honey", 2, "kg", 20)}
	lines := []recipe.IngredientLine{
		line("Honey", 250, "g"),
		line("Saffron", 1, "g"),
	}

	got := Breakdown(lines, snapshot)
	require.Len(t, got, 2)

	assert.True(t, got[0].Matched)
	assert.Equal(t, "kg", got[0].ItemUnit)
	assert.InDelta(t, 0.01, got[0].UnitPrice, 1e-12)
	assert.InDelta(t, 2.5, got[0].Cost, 1e-9)

	assert.False(t, got[1].Matched)
	assert.Zero(t, got[1].Cost)
	assert.Equal(t, "Saffron", got[1].Line.Name)
}

func TestShoppingList(t *testing.T) {
	snapshot := inventory.Snapshot{
		item("Yeast", 10, "g", 5),
		item("Honey", 1, "kg", 10),
		item("Water", 2, "L", 0),
	}
	lines := []recipe.IngredientLine{
		line("Honey", 3, "kg"),
		line("Unobtainium", 1, "g"),
		line("Yeast", 5, "g"),
		line("water", 2, "L"),
	}

	got := ShoppingList(lines, snapshot)

	assert.Equal(t, []ShoppingListEntry{
		{Name: "Honey", Quantity: 2, Unit: "kg"},
		{Name: "Unobtainium", Quantity: 1, Unit: "g"},
	}, got)
}

func TestShoppingList_NoUnitConversion(t *testing.T) {
	// 1 kg on hand against 500 g needed still reads as a 499 shortfall.
	snapshot := inventory.Snapshot{item("Honey", 1, "kg", 10)}
	lines := []recipe.IngredientLine{line("Honey", 500, "g")}

	got := ShoppingList(lines, snapshot)
	require.Len(t, got, 1)
	assert.Equal(t, ShoppingListEntry{Name: "Honey", Quantity: 499, Unit: "g"}, got[0])
}

func TestShoppingList_EmptyInventory(t *testing.T) {
	lines := []recipe.IngredientLine{line("Honey", 3, "kg"), line("Yeast", 5, "g")}

	got := ShoppingList(lines, nil)
	require.Len(t, got, 2)
	assert.Equal(t, 3.0, got[0].Quantity)
	assert.Equal(t, 5.0, got[1].Quantity)
}

func TestReconcile_ConcurrentReadersDoNotMutateSnapshot(t *testing.T) {
	snapshot := inventory.Snapshot{
		item("Honey", 1, "kg", 10),
		item("Yeast", 10, "g", 5),
	}
	before := snapshot.Clone()
	lines := []recipe.IngredientLine{line("Honey", 500, "g"), line("Yeast", 20, "g")}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.InDelta(t, 15.0, TotalCost(lines, snapshot, 5), 1e-9)
			assert.Len(t, ShoppingList(lines, snapshot), 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, before, snapshot)
}

func TestBreakdown_NonFiniteLineCostsZero(t *testing.T) {
	tests := []struct {
		name     string
		item     inventory.Item
		line     recipe.IngredientLine
		wantUnit float64
	}{
		{"quantity overflows", item("Honey", 2, "kg", 24), line("Honey", 1e308, "kg"), 0},
		{"unit price overflows", item("Honey", 1e-320, "kg", 10), line("Honey", 1, "kg"), 0},
		{"finite line untouched", item("Honey", 2, "kg", 24), line("Honey", 1, "kg"), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Breakdown([]recipe.IngredientLine{tt.line}, inventory.Snapshot{tt.item})

			require.Len(t, got, 1)
			assert.True(t, got[0].Matched)
			assert.Equal(t, tt.wantUnit, got[0].UnitPrice)
			assert.Equal(t, tt.wantUnit*tt.line.Quantity, got[0].Cost)
		})
	}
}

func TestTotalCost_StaysFinite(t *testing.T) {
	snapshot := inventory.Snapshot{
		item("Honey", 1, "kg", 1),
		item("Yeast", 2, "packet", 8),
	}
	lines := []recipe.IngredientLine{
		line("Honey", 1e308, "kg"),
		line("honey", 1e308, "kg"),
		line("Yeast", 1, "packet"),
	}

	total := TotalCost(lines, snapshot, 19)

	assert.False(t, math.IsInf(total, 0))
	assert.InDelta(t, 1e308, total, 1e293)
}
