package recipe

import (
	"strconv"
	"strings"
)

// headerToken must appear in the first header cell of an ingredient table.
const headerToken = "Ingredient"

// ingredientColumns is the number of cells an ingredient row must carry.
const ingredientColumns = 3

// ExtractIngredients parses the first ingredient table found in markdown.
//
// A table matches when a header row with three cells, the first containing
// "Ingredient", is followed by a separator row, at least one data row, and a
// blank line. Only the first matching table is read. Data rows that do not
// split into exactly three non-empty cells, or whose quantity has no numeric
// prefix, are dropped. A document without such a table yields no lines.
func ExtractIngredients(markdown string) []IngredientLine {
	rows, ok := findIngredientTable(markdown)
	if !ok {
		return nil
	}

	lines := make([]IngredientLine, 0, len(rows))
	for _, row := range rows {
		if line, ok := parseIngredientRow(row); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// findIngredientTable returns the data rows of the first ingredient table.
// The blank line terminating the table is required; a table that runs to the
// end of the document does not match.
func findIngredientTable(markdown string) ([]string, bool) {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	for i := 0; i+1 < len(lines); i++ {
		if !isIngredientHeader(lines[i]) || !isSeparatorRow(lines[i+1]) {
			continue
		}

		end := -1
		for j := i + 2; j < len(lines); j++ {
			if lines[j] == "" {
				end = j
				break
			}
		}
		// Needs at least one data row and a terminating blank line.
		if end <= i+2 {
			continue
		}

		var rows []string
		for _, row := range lines[i+2 : end] {
			if strings.TrimSpace(row) != "" {
				rows = append(rows, row)
			}
		}
		return rows, true
	}

	return nil, false
}

func isIngredientHeader(line string) bool {
	cells := splitCells(line)
	return len(cells) == ingredientColumns && strings.Contains(cells[0], headerToken)
}

func isSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "|") || !strings.Contains(trimmed, "-") {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '-', ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// splitCells splits a table row on pipes, trims each cell and drops empty
// cells, which also absorbs leading and trailing pipes.
func splitCells(row string) []string {
	parts := strings.Split(row, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		if cell := strings.TrimSpace(part); cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}

func parseIngredientRow(row string) (IngredientLine, bool) {
	cells := splitCells(row)
	if len(cells) != ingredientColumns {
		return IngredientLine{}, false
	}

	quantity, ok := parseLeadingNumber(cells[1])
	if !ok {
		return IngredientLine{}, false
	}

	return IngredientLine{
		Name:     cells[0],
		Quantity: quantity,
		Unit:     cells[2],
	}, true
}

// parseLeadingNumber reads the longest decimal prefix of s, so "5 (approx)"
// is 5 and "2.5kg" is 2.5. Signs other than '+' are rejected because
// quantities are never negative.
func parseLeadingNumber(s string) (float64, bool) {
	i := 0
	if i < len(s) && s[i] == '+' {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0, false
	}

	// Exponent only counts when followed by at least one digit.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}

	value, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// RenderIngredientTable writes lines as a three-column ingredient table
// followed by the blank line ExtractIngredients expects. Names and units must
// not contain pipes.
func RenderIngredientTable(lines []IngredientLine) string {
	var b strings.Builder
	b.WriteString("| Ingredient | Quantity | Unit |\n")
	b.WriteString("|---|---|---|\n")
	for _, line := range lines {
		b.WriteString("| ")
		b.WriteString(line.Name)
		b.WriteString(" | ")
		b.WriteString(strconv.FormatFloat(line.Quantity, 'f', -1, 64))
		b.WriteString(" | ")
		b.WriteString(line.Unit)
		b.WriteString(" |\n")
	}
	b.WriteString("\n")
	return b.String()
}
