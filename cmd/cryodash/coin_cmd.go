package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iTrooz/cryo-dash/internal/dashboard"
)

func newCoinCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "coin [symbol]",
		Short: "Show the market panel of one pair",
		Args:  cobra.MaximumNArgs(1),
		Example: `  cryodash coin
  cryodash coin eth
  cryodash coin SOL/USDT --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, err := a.symbolArg(args)
			if err != nil {
				return err
			}
			service, err := a.newService()
			if err != nil {
				return err
			}
			interval, err := a.cfg.GetRefreshInterval()
			if err != nil {
				return err
			}

			view := service.Coin(cmd.Context(), symbol)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			_, err = fmt.Fprintln(out, dashboard.RenderCoin(view, service.Now(), interval))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the panel model as JSON")
	return cmd
}
