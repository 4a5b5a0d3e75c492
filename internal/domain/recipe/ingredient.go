package recipe

// IngredientLine is one row of a recipe's ingredient table.
// Name and Unit are kept exactly as written by the generator.
type IngredientLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}
