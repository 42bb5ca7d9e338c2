package main

import (
	"github.com/spf13/cobra"

	"github.com/iTrooz/cryo-dash/internal/proxy"
)

func newGatewayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gateway",
		Short: "Run the caching HTTP proxy in front of the market API",
		Long: `Run a forward HTTP proxy applying the same freshness rules as the dashboard.

Matching requests are answered from the cache while fresh (X-Cache: HIT),
refreshed upstream once stale (MISS), and answered with the last stored
response flagged with a Warning header when the upstream fails (STALE).`,
		Args: cobra.NoArgs,
		Example: `  cryodash gateway
  curl -x localhost:8081 'http://api.coingecko.com/api/v3/ping'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := proxy.New(a.cfg)
			if err != nil {
				return err
			}
			return gw.Start(cmd.Context())
		},
	}
}
