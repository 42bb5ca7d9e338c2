package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iTrooz/cryo-dash/internal/dashboard"
	"github.com/iTrooz/cryo-dash/internal/decision"
	"github.com/iTrooz/cryo-dash/internal/market"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		symbol  string
		minutes int
		horizon string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Ask the analysis backend for a trading signal",
		Args:  cobra.NoArgs,
		Example: `  cryodash analyze
  cryodash analyze --symbol eth --horizon "12 Hours"
  cryodash analyze --symbol BTC/USDT --minutes 90
  cryodash analyze --horizon 2h --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if symbol == "" {
				symbol = a.cfg.Dashboard.DefaultSymbol
			} else {
				resolved, err := market.Resolve(symbol)
				if err != nil {
					return err
				}
				symbol = resolved
			}

			if !cmd.Flags().Changed("minutes") {
				minutes = a.cfg.Dashboard.DefaultMinutes
			}
			if horizon != "" {
				parsed, err := decision.ParseHorizon(horizon)
				if err != nil {
					return fmt.Errorf("%s: %w", decision.HorizonMessage(err), err)
				}
				minutes = parsed
			}

			service, err := a.newService()
			if err != nil {
				return err
			}
			view, err := service.Analyze(cmd.Context(), symbol, minutes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view.Result)
			}
			_, err = fmt.Fprintln(out, dashboard.RenderAnalysis(view))
			return err
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Trading pair (defaults to dashboard.default_symbol)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", decision.DefaultMinutes, "Forecast horizon in minutes (30-2880)")
	cmd.Flags().StringVar(&horizon, "horizon", "", `Forecast horizon as a preset ("4 Hours") or duration ("90m")`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw analysis result as JSON")
	cmd.MarkFlagsMutuallyExclusive("minutes", "horizon")
	return cmd
}
