package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/moonshill-backend/internal/app"
)

type rootOptions struct {
	configPath string
	envFiles   bool
}

// NewRootCmd returns the moonshill command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "moonshill",
		Short:         "Campaign post generation and scheduling engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $CONFIG_FILE)")
	root.PersistentFlags().BoolVar(&opts.envFiles, "env-files", true, "load .env and .env.local before reading the environment")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newTickCmd(opts))
	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

func (o *rootOptions) load() (app.Config, error) {
	if o.envFiles {
		app.LoadEnvFiles()
	}
	cfg, err := app.LoadConfig(o.configPath)
	if err != nil {
		return app.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
