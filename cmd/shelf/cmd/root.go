/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/shelf/pkg/catalog"
	"github.com/ssargent/shelf/pkg/config"
	"github.com/ssargent/shelf/pkg/di"
)

// skipCatalog marks commands that run without opening the data file
const skipCatalog = "skip-catalog"

var container *di.Container

// SetContainer sets the dependency injection container
func SetContainer(c *di.Container) {
	container = c
}

// options holds the global flags
type options struct {
	ConfigPath string
	EnvFile    string
	DataFile   string
	Format     string
	Quiet      bool
	Yes        bool
}

// app is the state shared by every command of one invocation
type app struct {
	container *di.Container
	opts      options
	cfg       *config.Config
	store     *catalog.Catalog
	in        *bufio.Reader
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if container == nil {
		container = di.NewContainer()
	}
	rootCmd := newRootCmd(container)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(c *di.Container) *cobra.Command {
	a := &app{container: c}

	rootCmd := &cobra.Command{
		Use:   "shelf",
		Short: "Shelf - book inventory manager",
		Long: `Shelf keeps a book inventory in a flat, pipe-delimited text file.

Run without a subcommand to start the interactive menu, or use the
subcommands for scripting.

Examples:
  shelf
  shelf add --id 978-0131103 --title "The C Programming Language" --price 45.50 --quantity 2
  shelf search --author kernighan
  shelf serve --port 8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.opts.ConfigPath, "config", "c", config.GetDefaultConfigPath(), "path to config file")
	flags.StringVar(&a.opts.EnvFile, "env-file", ".env", "dotenv file with SHELF_* overrides")
	flags.StringVarP(&a.opts.DataFile, "data-file", "f", "", "book data file (overrides config)")
	flags.StringVarP(&a.opts.Format, "format", "o", "", "output format (table or json)")
	flags.BoolVarP(&a.opts.Quiet, "quiet", "q", false, "suppress non-essential messages")
	flags.BoolVarP(&a.opts.Yes, "yes", "y", false, "assume 'yes' for prompts")

	rootCmd.AddCommand(
		newShellCmd(a),
		newAddCmd(a),
		newGetCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newClearCmd(a),
		newInitCmd(a),
		newServeCmd(a),
	)

	return rootCmd
}

// setup resolves the configuration and, unless the command opts out, opens
// the catalog
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Resolve(a.opts.ConfigPath, a.opts.EnvFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.opts.DataFile != "" {
		cfg.DataFile = a.opts.DataFile
	}
	if a.opts.Format != "" {
		cfg.Output.Format = a.opts.Format
	}
	if a.opts.Quiet {
		cfg.Logging.Level = config.LevelQuiet
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.in = bufio.NewReader(cmd.InOrStdin())

	if cmd.Annotations[skipCatalog] == "true" {
		return nil
	}

	store, result, err := a.container.GetCatalogOpener().Open(cfg.DataFile)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	a.store = store
	a.reportLoad(cmd.ErrOrStderr(), result)
	return nil
}

func (a *app) reportLoad(w io.Writer, result *catalog.LoadResult) {
	if a.cfg.Quiet() {
		return
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %v\n", warning)
	}
	if a.cfg.Logging.Level == config.LevelDebug {
		if result.Created {
			fmt.Fprintf(w, "Data file %s does not exist yet, starting empty\n", result.Path)
		}
		fmt.Fprintf(w, "Loaded %d books from %s (%d lines skipped)\n",
			result.RecordsLoaded, result.Path, result.LinesSkipped)
	}
}

// report prints the outcome of a mutation. A persistence failure is a warning:
// the change was applied but not saved.
func (a *app) report(cmd *cobra.Command, err error, format string, args ...interface{}) error {
	if err != nil && !catalog.IsPersistenceError(err) {
		return err
	}
	if !a.cfg.Quiet() {
		fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	return nil
}

// confirm asks a yes/no question unless --yes was given
func (a *app) confirm(cmd *cobra.Command, prompt string) (bool, error) {
	if a.opts.Yes {
		return true, nil
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
