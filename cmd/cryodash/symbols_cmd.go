package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iTrooz/cryo-dash/internal/decision"
	"github.com/iTrooz/cryo-dash/internal/market"
)

func newSymbolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List supported pairs and forecast horizons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Pairs:")
			for _, c := range market.Coins() {
				marker := " "
				if c.Symbol == a.cfg.Dashboard.DefaultSymbol {
					marker = "*"
				}
				fmt.Fprintf(out, " %s %-10s %s\n", marker, c.Symbol, c.Name)
			}

			fmt.Fprintln(out, "\nHorizons:")
			for _, h := range decision.Presets() {
				fmt.Fprintf(out, "   %-10s %d minutes\n", h.Label, h.Minutes)
			}
			_, err := fmt.Fprintf(out, "   or any number of minutes between %d and %d\n", decision.MinMinutes, decision.MaxMinutes)
			return err
		},
	}
}
