package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/crmnav"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the navigation map",
		Long: `Serve every route under the base path with live navigation.

Examples:
  crmnav serve
  crmnav serve --port=3000 --base=/crm/
  BASE_URL=/crm/ crmnav serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			app, err := crmnav.New(cfg, crmnav.WithDevMode(dev))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from crmnav.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from crmnav.json)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Disable client caching")

	return cmd
}
