package cli

import (
	"github.com/spf13/cobra"

	"github.com/sakif/moodlog/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API on localhost",
		Long: `serve starts the local JSON API used by the web and mobile front ends.
It listens on 127.0.0.1:8080 unless --addr or the config says otherwise,
and stops cleanly on Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srv, err := server.New(server.Config{
				Addr:        addr,
				DBPath:      a.cfg.Database.Path,
				HeatmapDays: a.cfg.Heatmap.Days,
				Location:    a.loc,
			}, a.logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides config")
	return cmd
}
