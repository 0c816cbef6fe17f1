package main

import (
	"fmt"
	"time"

	"github.com/Sternrassler/shop-admin/internal/config"
	"github.com/Sternrassler/shop-admin/pkg/client"
	"github.com/Sternrassler/shop-admin/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func newRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	cmd := &cobra.Command{
		Use:           "shop-admin",
		Short:         "Admin dashboard for shop orders and users",
		Long:          "shop-admin serves paginated, filterable Orders and Users screens backed by the shop API, and exports list pages as CSV.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ReadFile(v, configFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("api-base-url", "", "base URL of the shop API")
	flags.String("api-token", "", "bearer token for the shop API")
	flags.Duration("api-timeout", 30*time.Second, "timeout per API request")
	flags.Int("api-max-attempts", 1, "attempts per API request (1 disables retries)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("log-pretty", false, "human-readable console logs")

	bindFlag(v, cmd, config.KeyAPIBaseURL, "api-base-url")
	bindFlag(v, cmd, config.KeyAPIToken, "api-token")
	bindFlag(v, cmd, config.KeyAPITimeout, "api-timeout")
	bindFlag(v, cmd, config.KeyAPIMaxAttempts, "api-max-attempts")
	bindFlag(v, cmd, config.KeyLogLevel, "log-level")
	bindFlag(v, cmd, config.KeyLogPretty, "log-pretty")

	cmd.AddCommand(newServeCmd(v))
	cmd.AddCommand(newExportCmd(v))

	return cmd
}

// bindFlag binds the named flag of cmd to a viper key. Flags set on the
// command line take precedence over environment and config file.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, name string) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(name)
	}
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

// setup loads the configuration, configures logging and creates the API client.
func setup(v *viper.Viper) (config.Config, *client.Client, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	logging.Setup(cfg.Log)

	clientCfg := client.DefaultConfig(cfg.API.BaseURL)
	clientCfg.Token = cfg.API.Token
	clientCfg.Timeout = cfg.API.Timeout
	clientCfg.MaxAttempts = cfg.API.MaxAttempts
	clientCfg.UserAgent = "shop-admin/" + version

	api, err := client.New(clientCfg)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create api client: %w", err)
	}

	return cfg, api, nil
}
