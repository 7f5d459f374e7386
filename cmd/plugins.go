package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitlumen/gitlumen/pkg/server"
)

func newPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect available notification plugins",
	}
	cmd.AddCommand(newPluginsListCmd())
	return cmd
}

func newPluginsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List the registered plugin types",
		Example: "  gitlumen plugins list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, plugins, err := server.NewRegistries()
			if err != nil {
				return err
			}
			return printJSON(plugins.Available())
		},
	}
}
