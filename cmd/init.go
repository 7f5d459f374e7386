package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const initConfigTemplate = `server:
  port: 8080
  max_body_bytes: 10485760

providers:
  - id: gitlab-main
    name: Main GitLab
    type: gitlab
    base_url: https://gitlab.example.com
    access_token: ${GITLAB_ACCESS_TOKEN}
    webhook_secret: ${GITLAB_WEBHOOK_SECRET}
    active: true

plugins:
  - id: console-main
    name: Console
    type: console
    active: true
    config:
      logLevel: detailed
    projects:
      - id: my-project
        enabled: true
`

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Create a starter config file",
		Example: "  gitlumen init --config config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := strings.TrimSpace(configPath)
			if path == "" {
				return fmt.Errorf("config path is required")
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config already exists: %s", path)
				}
			}
			if err := os.WriteFile(path, []byte(initConfigTemplate), 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}
