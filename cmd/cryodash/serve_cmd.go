package main

import (
	"github.com/spf13/cobra"

	"github.com/iTrooz/cryo-dash/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard panels as a JSON API",
		Args:  cobra.NoArgs,
		Example: `  cryodash serve
  cryodash serve --port 9000
  curl 'localhost:8080/api/coin?symbol=eth'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.newService()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			srv := server.New(service, server.Options{
				Port:           a.cfg.Server.Port,
				DefaultSymbol:  a.cfg.Dashboard.DefaultSymbol,
				DefaultMinutes: a.cfg.Dashboard.DefaultMinutes,
			})
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides server.port)")
	return cmd
}
