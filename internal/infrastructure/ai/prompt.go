// Package ai adapts generative-text providers to the recipe generator port.
package ai

import (
	"fmt"
	"strings"

	"github.com/meadcraft/meadery/internal/ports/outbound"
)

// SystemInstruction frames every generation request.
const SystemInstruction = `You are an experienced mead maker writing recipes for home brewers.
Answer in Markdown. Include exactly one ingredient table with three columns and
the header "| Ingredient | Quantity | Unit |", one ingredient per row, metric
units (kg, g, L, ml) where possible and plain numbers in the Quantity column.
Leave a blank line after the table. Follow it with numbered instructions, the
expected original and final gravity, and fermentation notes.`

// BuildPrompt turns a generation request into the user prompt.
func BuildPrompt(req outbound.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a %s mead recipe", strings.TrimSpace(req.Style))
	if req.BatchSizeLiters > 0 {
		fmt.Fprintf(&b, " for a %s liter batch", formatNumber(req.BatchSizeLiters))
	}
	b.WriteString(".\n")

	if req.Sweetness != "" {
		fmt.Fprintf(&b, "Target sweetness: %s.\n", req.Sweetness)
	}
	if req.TargetABV > 0 {
		fmt.Fprintf(&b, "Target ABV: about %s%%.\n", formatNumber(req.TargetABV))
	}
	if len(req.Ingredients) > 0 {
		fmt.Fprintf(&b, "Use these ingredients: %s.\n", strings.Join(req.Ingredients, ", "))
	}
	if len(req.OnHand) > 0 {
		b.WriteString("Prefer ingredients from the brewer's inventory and use their names exactly as written: ")
		b.WriteString(strings.Join(req.OnHand, ", "))
		b.WriteString(".\n")
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		fmt.Fprintf(&b, "Additional notes: %s\n", notes)
	}

	b.WriteString("Remember: exactly one table with the columns Ingredient, Quantity and Unit.")
	return b.String()
}

func formatNumber(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
