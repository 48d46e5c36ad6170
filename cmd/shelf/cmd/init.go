/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/shelf/pkg/config"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with default settings and a freshly
generated API key for the REST server.

This command will:
- Create the configuration directory
- Write data_file, port, bind and logging defaults
- Generate an API key for 'shelf serve'

Examples:
  shelf init
  shelf init --config ./shelf.yaml --data-file ./books.txt`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipCatalog: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := a.opts.ConfigPath

			if config.ConfigExists(path) && !force {
				fmt.Fprintf(out, "Configuration already exists at %s. Use --force to overwrite.\n", path)
				return nil
			}

			cfg, err := config.BootstrapConfig(path, a.cfg.DataFile)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Configuration written to %s\n", path)
			fmt.Fprintf(out, "Data file: %s\n", cfg.DataFile)
			fmt.Fprintf(out, "API key: %s\n", cfg.Security.APIKey)
			fmt.Fprintf(out, "\nYou can now start the server with:\n")
			fmt.Fprintf(out, "  shelf serve --config %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	return cmd
}
