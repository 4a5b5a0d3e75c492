package ai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/meadcraft/meadery/internal/domain/calculator"
	"github.com/meadcraft/meadery/internal/ports/outbound"
)

const (
	staticDefaultBatch = 19.0
	staticDefaultABV   = 12.0
)

// StaticGenerator produces a traditional mead recipe without calling a model.
// It backs development setups and tests.
type StaticGenerator struct{}

// NewStaticGenerator creates a static generator
func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

var _ outbound.RecipeGenerator = (*StaticGenerator)(nil)

// Name identifies the generator
func (g *StaticGenerator) Name() string {
	return "static"
}

// Generate scales honey to the requested strength and batch size
func (g *StaticGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	batch := req.BatchSizeLiters
	if batch <= 0 {
		batch = staticDefaultBatch
	}
	abv := req.TargetABV
	if abv <= 0 {
		abv = staticDefaultABV
	}

	og, err := calculator.TargetOG(abv)
	if err != nil {
		return "", fmt.Errorf("static generator: %w", err)
	}
	honeyKg, err := calculator.HoneyForGravity(og, batch)
	if err != nil {
		return "", fmt.Errorf("static generator: %w", err)
	}

	style := strings.TrimSpace(req.Style)
	if style == "" {
		style = "Traditional"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Mead\n\n", style)
	fmt.Fprintf(&b, "A %s liter batch aiming for about %s%% ABV.\n\n", formatNumber(batch), formatNumber(abv))
	b.WriteString("| Ingredient | Quantity | Unit |\n")
	b.WriteString("|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s | kg |\n", pick(req.OnHand, "Honey", "Wildflower Honey"), formatNumber(round(honeyKg, 2)))
	fmt.Fprintf(&b, "| Water | %s | L |\n", formatNumber(round(batch-honeyKg*0.7, 1)))
	fmt.Fprintf(&b, "| %s | 1 | packet |\n", pick(req.OnHand, "71B", "Lalvin 71B"))
	fmt.Fprintf(&b, "| %s | %s | g |\n", pick(req.OnHand, "Fermaid", "Fermaid O"), formatNumber(round(batch*0.5, 0)))
	for _, extra := range req.Ingredients {
		fmt.Fprintf(&b, "| %s | 1 | piece |\n", extra)
	}
	b.WriteString("\n## Instructions\n\n")
	b.WriteString("1. Sanitize everything that will touch the must.\n")
	b.WriteString("2. Dissolve the honey in warm water and top up to volume.\n")
	b.WriteString("3. Take a gravity reading, add nutrient and pitch the yeast.\n")
	b.WriteString("4. Ferment at 16 to 20 C until gravity is stable.\n\n")
	fmt.Fprintf(&b, "Expected OG: %.3f\n", og)

	return b.String(), nil
}

// pick returns the first on-hand name containing hint, or fallback.
func pick(onHand []string, hint, fallback string) string {
	for _, name := range onHand {
		if strings.Contains(strings.ToLower(name), strings.ToLower(hint)) {
			return name
		}
	}
	return fallback
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
