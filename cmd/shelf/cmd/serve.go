/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/shelf/pkg/api"
	"github.com/ssargent/shelf/pkg/config"
)

// apiKeyAuto asks serve to generate a key for this run
const apiKeyAuto = "auto"

func newServeCmd(a *app) *cobra.Command {
	var (
		port   int
		bind   string
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the Shelf REST API server over the configured data file.

Requests under /api/v1 must carry the API key in the X-API-Key header.
When the configured key is "auto" a random key is generated and printed
at startup. Prometheus metrics are served on /metrics.

Examples:
  shelf serve
  shelf serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind = bind
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Security.APIKey = apiKey
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			key := cfg.Security.APIKey
			if key == "" || key == apiKeyAuto {
				generated, err := config.GenerateSecureKey(16)
				if err != nil {
					return err
				}
				key = generated
				fmt.Fprintf(cmd.OutOrStdout(), "Generated API key for this run: %s\n", key)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			starter := a.container.GetServerFactory().CreateServerStarter()
			return starter.StartServer(ctx, a.store, api.ServerConfig{
				Port:   cfg.Port,
				Bind:   cfg.Bind,
				APIKey: key,
				Quiet:  cfg.Quiet(),
			})
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on (overrides config)")
	cmd.Flags().StringVar(&bind, "bind", "127.0.0.1", "address to bind (overrides config)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for X-API-Key authentication (overrides config)")
	return cmd
}
