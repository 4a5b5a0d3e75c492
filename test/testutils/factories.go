// Package testutils provides test data factories, fakes and fixtures shared
// by the package tests
package testutils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/meadcraft/meadery/internal/domain/inventory"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

var unitsByCategory = map[inventory.Category][]string{
	inventory.CategoryHoney:       {"kg", "g"},
	inventory.CategoryYeast:       {"packet", "g"},
	inventory.CategoryNutrient:    {"g"},
	inventory.CategoryMaltExtract: {"kg", "g"},
	inventory.CategoryFruit:       {"kg", "g", "piece"},
	inventory.CategorySpice:       {"g", "piece"},
	inventory.CategoryAdjunct:     {"g", "ml"},
	inventory.CategoryChemical:    {"g", "tablet"},
}

// ItemFactory creates inventory items from a seeded faker
type ItemFactory struct {
	faker *gofakeit.Faker
}

// NewItemFactory creates a new item factory with seeded faker
func NewItemFactory(seed int64) *ItemFactory {
	return &ItemFactory{
		faker: gofakeit.New(seed),
	}
}

// Item creates a valid item in the given category
func (f *ItemFactory) Item(category inventory.Category) inventory.Item {
	units := unitsByCategory[category]
	item, err := inventory.NewItem(
		f.name(category),
		f.faker.Float64Range(1, 50),
		units[f.faker.IntRange(0, len(units)-1)],
		f.faker.Float64Range(1, 100),
		category,
	)
	if err != nil {
		panic(fmt.Sprintf("testutils: generated invalid item: %v", err))
	}
	return item
}

// Snapshot creates n items with distinct names across all categories
func (f *ItemFactory) Snapshot(n int) inventory.Snapshot {
	categories := inventory.Categories()
	snapshot := make(inventory.Snapshot, 0, n)
	seen := make(map[string]bool, n)
	for len(snapshot) < n {
		item := f.Item(categories[len(snapshot)%len(categories)])
		key := strings.ToLower(item.Name)
		if seen[key] {
			item.Name = fmt.Sprintf("%s %d", item.Name, len(snapshot))
			key = strings.ToLower(item.Name)
		}
		seen[key] = true
		snapshot = append(snapshot, item)
	}
	return snapshot
}

func (f *ItemFactory) name(category inventory.Category) string {
	switch category {
	case inventory.CategoryHoney:
		return f.faker.RandomString([]string{"Wildflower", "Clover", "Orange Blossom", "Buckwheat", "Acacia"}) + " Honey"
	case inventory.CategoryFruit:
		return f.faker.Fruit()
	case inventory.CategoryYeast:
		return f.faker.RandomString([]string{"Lalvin 71B", "Lalvin EC-1118", "Lalvin D47", "Red Star Premier Blanc"})
	default:
		return titleCase.String(f.faker.Word()) + " " + string(category)
	}
}

// RecipeMarkdownBuilder builds recipe Markdown around an ingredient table
type RecipeMarkdownBuilder struct {
	title string
	lines []recipe.IngredientLine
	notes string
}

// NewRecipeMarkdown starts a recipe with the given title
func NewRecipeMarkdown(title string) *RecipeMarkdownBuilder {
	return &RecipeMarkdownBuilder{title: title}
}

// WithLine appends an ingredient row
func (b *RecipeMarkdownBuilder) WithLine(name string, quantity float64, unit string) *RecipeMarkdownBuilder {
	b.lines = append(b.lines, recipe.IngredientLine{Name: name, Quantity: quantity, Unit: unit})
	return b
}

// WithItem appends a row asking for quantity of an inventory item, in its unit
func (b *RecipeMarkdownBuilder) WithItem(item inventory.Item, quantity float64) *RecipeMarkdownBuilder {
	return b.WithLine(item.Name, quantity, item.Unit)
}

// WithNotes sets the text after the table
func (b *RecipeMarkdownBuilder) WithNotes(notes string) *RecipeMarkdownBuilder {
	b.notes = notes
	return b
}

// Lines returns the rows added so far
func (b *RecipeMarkdownBuilder) Lines() []recipe.IngredientLine {
	return append([]recipe.IngredientLine{}, b.lines...)
}

// Build renders the Markdown
func (b *RecipeMarkdownBuilder) Build() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.title)
	sb.WriteString("| Ingredient | Quantity | Unit |\n")
	sb.WriteString("|---|---|---|\n")
	for _, line := range b.lines {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", line.Name, strconv.FormatFloat(line.Quantity, 'f', -1, 64), line.Unit)
	}
	sb.WriteString("\n")
	if b.notes != "" {
		sb.WriteString(b.notes)
		sb.WriteString("\n")
	}
	return sb.String()
}
