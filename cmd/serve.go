package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitlumen/gitlumen/pkg/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		Long: "Run the webhook server that validates provider deliveries, normalizes them " +
			"into canonical events, and dispatches each event to its project's plugins.",
		Example: "  gitlumen serve --config config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return server.RunConfig(configPath)
		},
	}
	return cmd
}
