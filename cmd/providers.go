package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitlumen/gitlumen/pkg/server"
)

func newProvidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect available webhook providers",
	}
	cmd.AddCommand(newProvidersListCmd())
	return cmd
}

func newProvidersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List the registered provider types",
		Example: "  gitlumen providers list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			providers, _, err := server.NewRegistries()
			if err != nil {
				return err
			}
			return printJSON(providers.Types())
		},
	}
}
