package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/meadcraft/meadery/internal/domain/costing"
	"github.com/spf13/cobra"
)

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <recipe.md|->",
		Short: "Print the ingredient table found in a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lines, err := readRecipe(cmd, args[0])
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), lines)
			}
			if len(lines) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No ingredient table found")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INGREDIENT\tQUANTITY\tUNIT")
			for _, line := range lines {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", line.Name, formatQty(line.Quantity), line.Unit)
			}
			return tw.Flush()
		},
	}
}

func newCostCmd(opts *options) *cobra.Command {
	var batchSize float64

	cmd := &cobra.Command{
		Use:   "cost <recipe.md|->",
		Short: "Price a recipe against the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lines, err := readRecipe(cmd, args[0])
			if err != nil {
				return err
			}
			snapshot, err := opts.snapshot()
			if err != nil {
				return err
			}

			breakdown := costing.Breakdown(lines, snapshot)
			total := costing.TotalCost(lines, snapshot, batchSize)

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Breakdown []costing.LineCost `json:"breakdown"`
					Total     float64            `json:"total"`
				}{breakdown, total})
			}

			f := opts.formatter()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INGREDIENT\tQUANTITY\tUNIT\tCOST")
			for _, lc := range breakdown {
				cost := f.Format(lc.Cost)
				if !lc.Matched {
					cost = "not stocked"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", lc.Line.Name, formatQty(lc.Line.Quantity), lc.Line.Unit, cost)
			}
			fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", f.Format(total))
			return tw.Flush()
		},
	}

	cmd.Flags().Float64Var(&batchSize, "batch", 19, "batch size in liters")
	return cmd
}

func newShoppingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shopping <recipe.md|->",
		Short: "List what must be bought to brew a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lines, err := readRecipe(cmd, args[0])
			if err != nil {
				return err
			}
			snapshot, err := opts.snapshot()
			if err != nil {
				return err
			}

			entries := costing.ShoppingList(lines, snapshot)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Everything is on hand")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INGREDIENT\tNEEDED\tUNIT")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Name, formatQty(entry.Quantity), entry.Unit)
			}
			return tw.Flush()
		},
	}
}

func newRenderCmd(opts *options) *cobra.Command {
	var (
		style string
		width int
	)

	cmd := &cobra.Command{
		Use:   "render <recipe.md|->",
		Short: "Render a recipe for the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, _, err := readRecipe(cmd, args[0])
			if err != nil {
				return err
			}

			styleOption := glamour.WithAutoStyle()
			if style != "" {
				styleOption = glamour.WithStylePath(style)
			}
			renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
			if err != nil {
				return fmt.Errorf("failed to create renderer: %w", err)
			}

			out, err := renderer.Render(markdown)
			if err != nil {
				return fmt.Errorf("failed to render recipe: %w", err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "glamour style name or JSON style path; detected when empty")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatQty(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
