package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/moonshill-backend/internal/app"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			log, err := logger.NewWithLevel(cfg.Log.Mode, cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			cfg.Database.AutoMigrate = true
			svc, err := app.NewDatabase(cfg.Database, log)
			if err != nil {
				return err
			}
			defer svc.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", svc.Dialect())
			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(maskSecrets(cfg))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func maskSecrets(cfg app.Config) app.Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "****"
	}
	cfg.LLM.OpenAIKey = mask(cfg.LLM.OpenAIKey)
	cfg.LLM.GeminiKey = mask(cfg.LLM.GeminiKey)
	cfg.Market.CoinGeckoKey = mask(cfg.Market.CoinGeckoKey)
	cfg.Market.CryptoCompareKey = mask(cfg.Market.CryptoCompareKey)
	cfg.Redis.Password = mask(cfg.Redis.Password)
	if len(cfg.Telemetry.Tracing.Headers) > 0 {
		headers := make(map[string]string, len(cfg.Telemetry.Tracing.Headers))
		for k, v := range cfg.Telemetry.Tracing.Headers {
			headers[k] = mask(v)
		}
		cfg.Telemetry.Tracing.Headers = headers
	}
	return cfg
}
