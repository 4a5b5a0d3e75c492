package main

import (
	"fmt"

	"github.com/meadcraft/meadery/internal/domain/calculator"
	"github.com/spf13/cobra"
)

func newCalcCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Brewing calculators",
	}

	var og, fg, abv, liters float64

	abvCmd := &cobra.Command{
		Use:   "abv",
		Short: "Alcohol by volume from original and final gravity",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := calculator.ABV(og, fg)
			if err != nil {
				return err
			}
			return printResult(cmd, opts, "abv", result, "%", "%.2f")
		},
	}
	abvCmd.Flags().Float64Var(&og, "og", 0, "original gravity")
	abvCmd.Flags().Float64Var(&fg, "fg", 1.0, "final gravity")
	_ = abvCmd.MarkFlagRequired("og")

	targetCmd := &cobra.Command{
		Use:   "target-og",
		Short: "Original gravity needed for a target ABV",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := calculator.TargetOG(abv)
			if err != nil {
				return err
			}
			return printResult(cmd, opts, "target-og", result, "", "%.3f")
		},
	}
	targetCmd.Flags().Float64Var(&abv, "abv", 12, "target ABV in percent")

	honeyCmd := &cobra.Command{
		Use:   "honey",
		Short: "Kilograms of honey to reach a gravity in a batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := calculator.HoneyForGravity(og, liters)
			if err != nil {
				return err
			}
			return printResult(cmd, opts, "honey", result, "kg", "%.2f")
		},
	}
	honeyCmd.Flags().Float64Var(&og, "og", 0, "target original gravity")
	honeyCmd.Flags().Float64Var(&liters, "liters", 19, "batch size in liters")
	_ = honeyCmd.MarkFlagRequired("og")

	cmd.AddCommand(abvCmd, targetCmd, honeyCmd)
	return cmd
}

func printResult(cmd *cobra.Command, opts *options, name string, result float64, unit, format string) error {
	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"calculator": name,
			"result":     result,
			"unit":       unit,
		})
	}
	out := fmt.Sprintf(format, result)
	if unit != "" {
		out += " " + unit
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
