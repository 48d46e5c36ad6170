package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/shelf/pkg/shell"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive menu",
		Long: `Start the interactive, menu-driven book manager. This is also what
running shelf without a subcommand does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd)
		},
	}
}

func (a *app) runShell(cmd *cobra.Command) error {
	sh := shell.New(a.store, a.in, cmd.OutOrStdout(), shell.Options{
		Banner:   !a.cfg.Quiet(),
		DataFile: a.store.Path(),
	})
	return sh.Run()
}
