package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecipe = `# Orange Blossom Traditional

A semi-sweet traditional mead.

| Ingredient | Quantity | Unit |
|------------|----------|------|
| Orange Blossom Honey | 1.5 | kg |
| Water | 4 | L |
| Lalvin 71B | 5 | g |
| Fermaid-O | 6 (approx) | g |

## Method

Stir, pitch, wait.
`

func TestExtractIngredients_Sample(t *testing.T) {
	lines := ExtractIngredients(sampleRecipe)

	require.Len(t, lines, 4)
	assert.Equal(t, IngredientLine{Name: "Orange Blossom Honey", Quantity: 1.5, Unit: "kg"}, lines[0])
	assert.Equal(t, IngredientLine{Name: "Water", Quantity: 4, Unit: "L"}, lines[1])
	assert.Equal(t, IngredientLine{Name: "Lalvin 71B", Quantity: 5, Unit: "g"}, lines[2])
	assert.Equal(t, IngredientLine{Name: "Fermaid-O", Quantity: 6, Unit: "g"}, lines[3])
}

func TestExtractIngredients_NoTable(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
	}{
		{"empty", ""},
		{"prose only", "Just some notes about mead.\n\nNo table here.\n"},
		{"wrong header word", "| Item | Quantity | Unit |\n|---|---|---|\n| Honey | 1 | kg |\n\n"},
		{"lowercase header", "| ingredient | Quantity | Unit |\n|---|---|---|\n| Honey | 1 | kg |\n\n"},
		{"four header cells", "| Ingredient | Quantity | Unit | Notes |\n|---|---|---|---|\n| Honey | 1 | kg | raw |\n\n"},
		{"two header cells", "| Ingredient | Quantity |\n|---|---|\n| Honey | 1 |\n\n"},
		{"missing separator", "| Ingredient | Quantity | Unit |\n| Honey | 1 | kg |\n\n"},
		{"no data rows", "| Ingredient | Quantity | Unit |\n|---|---|---|\n\n"},
		{"no blank line terminator", "| Ingredient | Quantity | Unit |\n|---|---|---|\n| Honey | 1 | kg |"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ExtractIngredients(tt.markdown))
		})
	}
}

func TestExtractIngredients_DropsNonNumericQuantity(t *testing.T) {
	lines := ExtractIngredients("| Ingredient | Quantity | Unit |\n|-|-|-|\n| Honey | N/A | kg |\n\n")
	assert.Empty(t, lines)
}

func TestExtractIngredients_DropsRowsWithWrongCellCount(t *testing.T) {
	md := "| Ingredient | Quantity | Unit |\n" +
		"|:---|:---:|---:|\n" +
		"| Honey | 2 | kg | wildflower |\n" +
		"| Yeast | 5 |\n" +
		"| Water | 10 | L |\n" +
		"|  | 3 | g |\n" +
		"\n"

	lines := ExtractIngredients(md)
	require.Len(t, lines, 1)
	assert.Equal(t, "Water", lines[0].Name)
}

func TestExtractIngredients_OnlyFirstTable(t *testing.T) {
	md := "| Ingredient | Quantity | Unit |\n|---|---|---|\n| Honey | 3 | kg |\n\n" +
		"Optional back-sweetening:\n\n" +
		"| Ingredient | Quantity | Unit |\n|---|---|---|\n| Honey | 0.5 | kg |\n| Potassium Sorbate | 1 | g |\n\n"

	lines := ExtractIngredients(md)
	require.Len(t, lines, 1)
	assert.Equal(t, IngredientLine{Name: "Honey", Quantity: 3, Unit: "kg"}, lines[0])
}

func TestExtractIngredients_SkipsUnterminatedCandidate(t *testing.T) {
	md := "| Ingredient | Quantity | Unit |\n|---|---|---|\n\n" +
		"| Ingredients | Amount | Unit |\n|---|---|---|\n| Raspberries | 1 | kg |\n\n"

	lines := ExtractIngredients(md)
	require.Len(t, lines, 1)
	assert.Equal(t, "Raspberries", lines[0].Name)
}

func TestExtractIngredients_WhitespaceRowsInsideTable(t *testing.T) {
	md := "| Ingredient | Quantity | Unit |\n|---|---|---|\n| Honey | 3 | kg |\n   \n| Water | 8 | L |\n\n"

	lines := ExtractIngredients(md)
	require.Len(t, lines, 2)
	assert.Equal(t, "Water", lines[1].Name)
}

func TestExtractIngredients_CRLF(t *testing.T) {
	md := "| Ingredient | Quantity | Unit |\r\n|---|---|---|\r\n| Honey | 3 | kg |\r\n\r\n"

	lines := ExtractIngredients(md)
	require.Len(t, lines, 1)
	assert.Equal(t, "kg", lines[0].Unit)
}

func TestExtractIngredients_KeepsCasingAndUnits(t *testing.T) {
	md := "Ingredient | Qty | Unit\n---|---|---\nWILDFLOWER honey | 2.25 | Kg\n\n"

	lines := ExtractIngredients(md)
	require.Len(t, lines, 1)
	assert.Equal(t, IngredientLine{Name: "WILDFLOWER honey", Quantity: 2.25, Unit: "Kg"}, lines[0])
}

func TestExtractIngredients_RoundTrip(t *testing.T) {
	want := []IngredientLine{
		{Name: "Clover Honey", Quantity: 1.8, Unit: "kg"},
		{Name: "Water", Quantity: 3.5, Unit: "L"},
		{Name: "EC-1118", Quantity: 5, Unit: "g"},
		{Name: "Cinnamon Stick", Quantity: 2, Unit: "pcs"},
		{Name: "Go-Ferm", Quantity: 0.125, Unit: "g"},
	}

	got := ExtractIngredients("Intro text.\n\n" + RenderIngredientTable(want) + "Closing notes.\n")

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Unit, got[i].Unit)
		assert.InDelta(t, want[i].Quantity, got[i].Quantity, 1e-12)
	}
}

func TestParseLeadingNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5", 5, true},
		{"5 (approx)", 5, true},
		{"2.5kg", 2.5, true},
		{".75", 0.75, true},
		{"3.", 3, true},
		{"+4", 4, true},
		{"1e3", 1000, true},
		{"2e", 2, true},
		{"1,5", 1, true},
		{"1/2", 1, true},
		{"N/A", 0, false},
		{"approx 5", 0, false},
		{"-3", 0, false},
		{".", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseLeadingNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}
