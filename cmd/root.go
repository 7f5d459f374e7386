package cmd

import "github.com/spf13/cobra"

// version is overridden at build time via -ldflags.
var version = "dev"

// NewRootCmd returns the Cobra entrypoint for the CLI/server.
func NewRootCmd() *cobra.Command {
	configPath = "config.yaml"
	root := &cobra.Command{
		Use:     "gitlumen",
		Version: version,
		Short:   "Webhook gateway for Git hosting providers",
		Long: "gitlumen ingests GitLab webhooks, normalizes them into canonical events, and " +
			"fans each event out to the notification plugins enabled for its project.",
		Example: "  gitlumen serve --config config.yaml\n" +
			"  gitlumen plugins list\n" +
			"  gitlumen providers list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "Path to config file")
	root.AddCommand(newServeCmd())
	root.AddCommand(newPluginsCmd())
	root.AddCommand(newProvidersCmd())
	root.AddCommand(newInitCmd())
	return root
}

var configPath string
